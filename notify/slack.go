// Package notify posts release notifications to Slack.
package notify

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/blackbaud/skyux-sdk-actions/errors"
)

// Notifier delivers a plain text message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Slack posts to an incoming webhook.
type Slack struct {
	webhook string
	logger  *slog.Logger
}

// Option configures Slack.
type Option func(*Slack)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Slack) {
		s.logger = logger
	}
}

// NewSlack returns a notifier for webhook. An empty webhook turns Notify
// into a logged no-op.
func NewSlack(webhook string, opts ...Option) *Slack {
	s := &Slack{webhook: webhook}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Notify sends {"text": message}.
func (s *Slack) Notify(ctx context.Context, message string) error {
	if s.webhook == "" {
		s.logger.Info("No webhook available for Slack notification.")
		return nil
	}

	s.logger.Info("Notifying Slack.")
	if err := slack.PostWebhookContext(ctx, s.webhook, &slack.WebhookMessage{Text: message}); err != nil {
		return errors.Wrap(err, errors.CodeNetwork, "failed to notify Slack")
	}
	return nil
}
