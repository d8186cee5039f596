// Package main is an operator CLI for an EventScope server.
//
// Usage:
//
//	eventctl [-server URL] [-json] <command> [flags]
//
// Commands:
//
//	search     -keyword K (-location L | -lat N -lng N) [-category C] [-distance D]
//	suggest    <keyword>
//	event      <id>
//	artist     <name>
//	favorites  list | add -id ID -name NAME [...] | remove <id> | search [-q Q] [-genre G] [-limit N]
//	locate
//
// The server URL defaults to $EVENTSCOPE_URL, then http://localhost:8080.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventscope/eventscope-server/internal/client"
)

const defaultServer = "http://localhost:8080"

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "eventctl: %v\n", err)
		}
		os.Exit(1)
	}
}

// cli carries the global flags to every command.
type cli struct {
	api    *client.Client
	out    io.Writer
	errOut io.Writer
	json   bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eventctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", envOr("EVENTSCOPE_URL", defaultServer), "EventScope server URL")
	asJSON := fs.Bool("json", false, "Print raw JSON")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return errUsage
	}

	c := &cli{
		api:    client.New(*server, client.WithTimeout(*timeout)),
		out:    stdout,
		errOut: stderr,
		json:   *asJSON,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "search":
		return c.search(ctx, rest)
	case "suggest":
		return c.suggest(ctx, rest)
	case "event":
		return c.event(ctx, rest)
	case "artist":
		return c.artist(ctx, rest)
	case "favorites", "fav":
		return c.favorites(ctx, rest)
	case "locate":
		return c.locate(ctx)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: eventctl [-server URL] [-json] [-timeout D] <command> [flags]

Commands:
  search     -keyword K (-location L | -lat N -lng N) [-category C] [-distance D]
  suggest    <keyword>
  event      <id>
  artist     <name>
  favorites  list | add -id ID -name NAME [...] | remove <id> | search [-q Q] [-genre G] [-limit N]
  locate
`)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
