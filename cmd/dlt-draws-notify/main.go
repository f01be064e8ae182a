// Command dlt-draws-notify posts the new draws from a saved
// `dlt-draws fetch --format json` result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
	"github.com/pfrederiksen/dlt-draws/internal/notifier"
)

var (
	drawsFile = flag.String("draws-file", "", "Path to fetch JSON output (or read from stdin)")
	dryRun    = flag.Bool("dry-run", false, "Print posts without sending them")
	maxPosts  = flag.Int("max-posts", 10, "Maximum number of draws to post")
	twitter   = flag.Bool("twitter", true, "Post to Twitter (credentials from TWITTER_* variables)")
	telegram  = flag.Bool("telegram", false, "Send a digest to Telegram (TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID)")
	webhook   = flag.String("webhook", os.Getenv("DLT_NOTIFY_WEBHOOK"), "Also POST draws to this URL (or env: DLT_NOTIFY_WEBHOOK)")
)

func validateMaxPosts(n int) error {
	if n < 1 {
		return fmt.Errorf("-max-posts must be at least 1, got %d", n)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := validateMaxPosts(*maxPosts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Read draws from file or stdin
	var reader io.Reader
	if *drawsFile != "" {
		f, err := os.Open(*drawsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening draws file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		reader = f
	} else {
		reader = os.Stdin
	}

	var result struct {
		NewDraws []*draw.Draw `json:"new_draws"`
	}
	if err := json.NewDecoder(reader).Decode(&result); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing JSON: %v\n", err)
		os.Exit(1)
	}

	draws := draw.Unique(result.NewDraws)
	if len(draws) == 0 {
		fmt.Println("No new draws to post")
		return
	}
	if len(draws) > *maxPosts {
		draws = draws[:*maxPosts]
	}

	var targets notifier.Multi
	if *dryRun {
		fmt.Printf("DRY RUN MODE - Would post %d draws:\n\n", len(draws))
		targets = append(targets, notifier.NewDryRunNotifier(os.Stdout))
	} else {
		if *twitter {
			tw, err := notifier.NewTwitterNotifier()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing Twitter client: %v\n", err)
				os.Exit(1)
			}
			targets = append(targets, tw)
		}
		if *telegram {
			tg, err := notifier.NewTelegramNotifierFromEnv()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing Telegram client: %v\n", err)
				os.Exit(1)
			}
			targets = append(targets, tg)
		}
		if *webhook != "" {
			targets = append(targets, notifier.NewWebhookNotifier(*webhook, 30*time.Second))
		}
	}
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to notify: enable -twitter or -telegram, or set -webhook")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := targets.Notify(ctx, draws); err != nil {
		fmt.Fprintf(os.Stderr, "Error posting draws: %v\n", err)
		os.Exit(1)
	}

	if !*dryRun {
		fmt.Printf("Successfully posted %d draws\n", len(draws))
	}
}
