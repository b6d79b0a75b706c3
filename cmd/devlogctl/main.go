// Command devlogctl reads and maintains dev log posts through the HTTP API.
//
//	devlogctl [-addr URL] [-token JWT] list [-category C] [-q TEXT]
//	devlogctl search -tags a,b | -text TEXT
//	devlogctl show ID
//	devlogctl views ID
//	devlogctl delete ID
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"devfolio/internal/client"
	"devfolio/internal/domain"
	"devfolio/internal/wire"
)

func main() {
	addr := flag.String("addr", envOr("DEVFOLIO_API", "http://localhost:5000"), "API base URL")
	token := flag.String("token", os.Getenv("DEVFOLIO_TOKEN"), "admin bearer token for write commands")
	flag.Usage = usage
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.ErrorLevel)

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(*addr, client.WithToken(*token), client.WithLogger(logger))
	if err := run(ctx, c, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "devlogctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		category := fs.String("category", domain.AllCategories, "category to show")
		query := fs.String("q", "", "case-insensitive title/content filter")
		fs.Parse(args)

		res := c.ListDevLogs(ctx)
		if res.Err != nil {
			return res.Err
		}
		printTable(client.FilterPosts(res.Data, *category, *query))
		return nil

	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		tags := fs.String("tags", "", "comma separated tags, any of which must match")
		text := fs.String("text", "", "text to look for in title or content")
		fs.Parse(args)

		var res client.Result[[]domain.DevLog]
		switch {
		case *tags != "":
			res = c.SearchDevLogsByTags(ctx, strings.Split(*tags, ","))
		case *text != "":
			res = c.SearchDevLogsByText(ctx, *text)
		default:
			return fmt.Errorf("search needs -tags or -text")
		}
		if res.Err != nil {
			return res.Err
		}
		printTable(res.Data)
		return nil

	case "show", "views", "delete":
		if len(args) != 1 {
			return fmt.Errorf("%s needs exactly one post id", cmd)
		}
		return single(ctx, c, cmd, args[0])
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func single(ctx context.Context, c *client.Client, cmd, id string) error {
	switch cmd {
	case "show":
		res := c.GetDevLog(ctx, id)
		if res.Err != nil {
			return res.Err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(wire.FromDevLog(*res.Data))
	case "views":
		res := c.IncrementViews(ctx, id)
		if res.Err != nil {
			return res.Err
		}
		fmt.Println(res.Data)
	case "delete":
		if err := c.DeleteDevLog(ctx, id).Err; err != nil {
			return err
		}
		fmt.Println("deleted", id)
	}
	return nil
}

func printTable(posts []domain.DevLog) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tCATEGORY\tVIEWS\tTITLE")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.CreatedAt.Format("2006-01-02"), p.Category, p.Views, p.Title)
	}
	w.Flush()
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: devlogctl [-addr URL] [-token JWT] <list|search|show|views|delete> [args]")
	flag.PrintDefaults()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
