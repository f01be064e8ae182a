package notifier

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

const tweetLimit = 280

// TwitterNotifier posts draws to Twitter
type TwitterNotifier struct {
	client *twitter.Client
	delay  time.Duration
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{client: twitter.NewClient(httpClient), delay: 2 * time.Second}, nil
}

// Notify posts one tweet per draw
func (n *TwitterNotifier) Notify(ctx context.Context, draws []*draw.Draw) error {
	for i, d := range draws {
		if _, _, err := n.client.Statuses.Update(formatTweet(d), nil); err != nil {
			return fmt.Errorf("failed to post tweet for draw %s: %w", d.Period, err)
		}

		// Rate limiting: wait between tweets
		if i < len(draws)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.delay):
			}
		}
	}
	return nil
}

// formatTweet formats a draw as a tweet
func formatTweet(d *draw.Draw) string {
	tweet := formatMessage(d) + "\n\n#大乐透 #DLT"

	// Twitter counts characters, not bytes
	if r := []rune(tweet); len(r) > tweetLimit {
		tweet = string(r[:tweetLimit-3]) + "..."
	}
	return tweet
}
