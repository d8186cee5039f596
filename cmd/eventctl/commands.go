package main

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/eventscope/eventscope-server/internal/client"
	"github.com/eventscope/eventscope-server/internal/domain"
)

func (c *cli) search(ctx context.Context, args []string) error {
	fs := c.flagSet("search")
	keyword := fs.String("keyword", "", "Search keyword (required)")
	location := fs.String("location", "", "Address or city to search around")
	lat := fs.Float64("lat", 0, "Latitude, instead of -location")
	lng := fs.Float64("lng", 0, "Longitude, instead of -location")
	category := fs.String("category", domain.CategoryAll, "Music, Sports, Arts & Theatre, Film, Miscellaneous or All")
	distance := fs.Int("distance", domain.DefaultDistanceMiles, "Radius in miles")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	req := client.SearchRequest{
		Keyword:  *keyword,
		Category: *category,
		Distance: *distance,
		Location: *location,
	}
	if flagSet(fs, "lat") && flagSet(fs, "lng") {
		req.Lat, req.Lng = lat, lng
	}

	events, err := client.NewSearchSession(c.api).Search(ctx, req)
	if err != nil {
		return err
	}
	if c.json {
		return c.printJSON(events)
	}
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No events found.")
		return nil
	}

	tw := c.table()
	fmt.Fprintln(tw, "DATE\tTIME\tNAME\tVENUE\tGENRE\tID")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.Date, e.Time, e.Name, e.Venue, e.Genre, e.ID)
	}
	return tw.Flush()
}

func (c *cli) suggest(ctx context.Context, args []string) error {
	keyword := strings.Join(args, " ")
	if strings.TrimSpace(keyword) == "" {
		return errors.New("suggest: keyword is required")
	}

	suggestions, _ := client.NewSuggester(c.api, client.SuggesterOptions{}).Fetch(ctx, keyword)
	if c.json {
		return c.printJSON(suggestions)
	}
	for _, s := range suggestions {
		fmt.Fprintln(c.out, s)
	}
	return nil
}

func (c *cli) event(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("event: exactly one event id is required")
	}

	detail, err := c.api.EventDetail(ctx, args[0])
	if err != nil {
		return err
	}
	if c.json {
		return c.printJSON(detail)
	}

	fmt.Fprintf(c.out, "%s\n", detail.Name)
	fmt.Fprintf(c.out, "  ID: %s\n", detail.ID)
	fmt.Fprintf(c.out, "  When: %s %s\n", detail.Date, detail.Time)
	fmt.Fprintf(c.out, "  Status: %s\n", detail.Status)
	if len(detail.Genres) > 0 {
		fmt.Fprintf(c.out, "  Genres: %s\n", strings.Join(detail.Genres, " | "))
	}
	if detail.Venue != nil {
		fmt.Fprintf(c.out, "  Venue: %s\n", detail.Venue.Name)
		if detail.Venue.Address != "" {
			fmt.Fprintf(c.out, "  Address: %s\n", detail.Venue.Address)
		}
	}
	for _, a := range detail.Artists {
		fmt.Fprintf(c.out, "  Artist: %s\n", a.Name)
	}
	for _, p := range detail.PriceRanges {
		if p.Min != nil && p.Max != nil {
			fmt.Fprintf(c.out, "  Price: %.2f - %.2f %s\n", *p.Min, *p.Max, p.Currency)
		}
	}
	if detail.URL != "" {
		fmt.Fprintf(c.out, "  Tickets: %s\n", detail.URL)
	}
	return nil
}

func (c *cli) artist(ctx context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errors.New("artist: name is required")
	}

	resp, err := c.api.SpotifyArtist(ctx, name)
	if err != nil {
		if client.IsNotFound(err) {
			fmt.Fprintf(c.out, "No artist found for %q.\n", name)
			return nil
		}
		return err
	}
	if c.json {
		return c.printJSON(resp)
	}

	a := resp.Artist
	if a == nil {
		fmt.Fprintf(c.out, "No artist found for %q.\n", name)
		return nil
	}
	fmt.Fprintf(c.out, "%s\n", a.Name)
	fmt.Fprintf(c.out, "  Followers: %d\n", a.Followers)
	fmt.Fprintf(c.out, "  Popularity: %d\n", a.Popularity)
	if len(a.Genres) > 0 {
		fmt.Fprintf(c.out, "  Genres: %s\n", strings.Join(a.Genres, ", "))
	}
	if a.SpotifyURL != "" {
		fmt.Fprintf(c.out, "  Spotify: %s\n", a.SpotifyURL)
	}
	if len(resp.Albums) > 0 {
		fmt.Fprintln(c.out, "  Albums:")
		for _, al := range resp.Albums {
			fmt.Fprintf(c.out, "    %s (%s)\n", al.Name, al.ReleaseDate)
		}
	}
	return nil
}

func (c *cli) favorites(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.listFavorites(ctx)
	}

	switch args[0] {
	case "list", "ls":
		return c.listFavorites(ctx)
	case "add":
		return c.addFavorite(ctx, args[1:])
	case "remove", "rm":
		if len(args) != 2 {
			return errors.New("favorites remove: exactly one event id is required")
		}
		return c.removeFavorite(ctx, args[1])
	case "search":
		return c.searchFavorites(ctx, args[1:])
	default:
		return fmt.Errorf("favorites: unknown subcommand %q", args[0])
	}
}

func (c *cli) listFavorites(ctx context.Context) error {
	cache := client.NewFavoritesCache(c.api)
	if err := cache.Refresh(ctx); err != nil {
		return err
	}
	return c.printFavorites(cache.List())
}

func (c *cli) addFavorite(ctx context.Context, args []string) error {
	fs := c.flagSet("favorites add")
	var in domain.FavoriteInput
	fs.StringVar(&in.ID, "id", "", "Event id (required)")
	fs.StringVar(&in.Name, "name", "", "Event name (required)")
	fs.StringVar(&in.Date, "date", "", "Local date, YYYY-MM-DD")
	fs.StringVar(&in.Time, "time", "", "Local time, HH:MM:SS")
	fs.StringVar(&in.Venue, "venue", "", "Venue name")
	fs.StringVar(&in.Genre, "genre", "", "Genre")
	fs.StringVar(&in.Image, "image", "", "Image URL")
	fs.StringVar(&in.URL, "url", "", "Ticket URL")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	fav, created, err := c.api.AddFavorite(ctx, in)
	if err != nil {
		return err
	}
	if c.json {
		return c.printJSON(fav)
	}
	if created {
		fmt.Fprintf(c.out, "Added %s to favorites.\n", fav.Name)
	} else {
		fmt.Fprintf(c.out, "Updated %s (saved %s).\n", fav.Name, fav.CreatedAt)
	}
	return nil
}

func (c *cli) removeFavorite(ctx context.Context, id string) error {
	removed, err := c.api.RemoveFavorite(ctx, id)
	if err != nil {
		return err
	}
	if c.json {
		return c.printJSON(map[string]any{"removed": removed})
	}
	if removed == nil {
		fmt.Fprintf(c.out, "%s was not a favorite.\n", id)
		return nil
	}
	fmt.Fprintf(c.out, "Removed %s from favorites.\n", removed.Name)
	return nil
}

func (c *cli) searchFavorites(ctx context.Context, args []string) error {
	fs := c.flagSet("favorites search")
	q := fs.String("q", "", "Text to match against name, venue and genre")
	genre := fs.String("genre", "", "Genre filter")
	limit := fs.Int("limit", 20, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *q == "" && fs.NArg() > 0 {
		*q = strings.Join(fs.Args(), " ")
	}

	favs, err := c.api.SearchFavorites(ctx, *q, *genre, *limit)
	if err != nil {
		return err
	}
	return c.printFavorites(favs)
}

func (c *cli) locate(ctx context.Context) error {
	loc, err := c.api.Locate(ctx)
	if err != nil {
		return err
	}
	if c.json {
		return c.printJSON(loc)
	}
	fmt.Fprintf(c.out, "%s (%.4f, %.4f)\n", loc.Label, loc.Lat, loc.Lng)
	return nil
}

func (c *cli) printFavorites(favs []domain.FavoriteEvent) error {
	if c.json {
		return c.printJSON(favs)
	}
	if len(favs) == 0 {
		fmt.Fprintln(c.out, "No favorites.")
		return nil
	}

	tw := c.table()
	fmt.Fprintln(tw, "SAVED\tDATE\tNAME\tVENUE\tID")
	for _, f := range favs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.CreatedAt, f.Date, f.Name, f.Venue, f.ID)
	}
	return tw.Flush()
}

func (c *cli) printJSON(v any) error {
	if err := json.MarshalWrite(c.out, v, jsontext.WithIndent("  ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.out)
	return err
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 2, 1, 2, ' ', 0)
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
