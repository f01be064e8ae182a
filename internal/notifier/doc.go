// Package notifier announces newly seen draws.
//
// Channels: a dry-run printer, a JSON webhook, Twitter (one post per draw,
// paced to stay under the rate limit) and Telegram (one digest message).
// Credentials for Twitter and Telegram come from the environment.
package notifier
