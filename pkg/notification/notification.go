// Package notification fans a notification out over its channels: e-mail
// to the customer and an optional Slack alert to shop staff.
//
//	n := notification.New(sender, config.Get("SLACK_WEBHOOK_URL", ""))
//	errs := n.Send(ctx, "buyer@example.com", &OrderConfirmation{...})
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"github.com/shashiranjanraj/honeyshop/pkg/mail"
)

// Channel names.
const (
	ChannelMail  = "mail"
	ChannelSlack = "slack"
)

// SlackData carries a Slack message payload.
type SlackData struct {
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment is a single Slack message attachment block.
type SlackAttachment struct {
	Color  string `json:"color,omitempty"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// Notification is the interface every notification must satisfy.
type Notification interface {
	Via() []string
}

// Mailable supports the mail channel.
type Mailable interface {
	ToMail(address string) *mail.Message
}

// Slackable supports the Slack channel.
type Slackable interface {
	ToSlack() SlackData
}

// Notifier delivers notifications.
type Notifier struct {
	mailer   mail.Sender
	slackURL string
	client   *http.Client
}

// New returns a notifier. An empty slackURL disables the Slack channel.
func New(mailer mail.Sender, slackURL string) *Notifier {
	return &Notifier{
		mailer:   mailer,
		slackURL: slackURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Send delivers n over every channel it names and returns the failures.
func (s *Notifier) Send(ctx context.Context, address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := s.dispatch(ctx, address, channel, n); err != nil {
			logger.WithCtx(ctx).Error("notification: channel failed", "channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

func (s *Notifier) dispatch(ctx context.Context, address, channel string, n Notification) error {
	switch channel {
	case ChannelMail:
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		if address == "" {
			return fmt.Errorf("notification: no mail address")
		}
		return s.mailer.Send(ctx, m.ToMail(address))

	case ChannelSlack:
		sl, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Slackable", n)
		}
		if s.slackURL == "" {
			return nil
		}
		return s.sendSlack(ctx, sl.ToSlack())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func (s *Notifier) sendSlack(ctx context.Context, d SlackData) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("notification: slack marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.slackURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("notification: slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification: slack post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification: slack returned HTTP %d", resp.StatusCode)
	}
	return nil
}
