// Package notification fans a message out over one or more channels.
// Shopline uses it for low-stock alerts to the ops Slack channel and for
// customer-facing mail that doubles as a webhook to fulfilment partners.
//
//	type LowStockAlert struct{ SKU string; Stock int }
//	func (a *LowStockAlert) Via() []string { return []string{"slack"} }
//	func (a *LowStockAlert) ToSlack() notification.SlackData { ... }
//
//	notification.SendAsync("", &LowStockAlert{SKU: p.SKU, Stock: p.Stock})
package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nikhilverma/shopline/pkg/logger"
	"github.com/nikhilverma/shopline/pkg/mail"
)

// MailData is the payload for the mail channel.
type MailData struct {
	To      string // overrides the notifiable address when set
	Subject string
	Body    string // HTML
}

// SlackData is the payload for the Slack channel.
type SlackData struct {
	WebhookURL  string // overrides the default webhook when set
	Text        string
	Attachments []SlackAttachment
}

// SlackAttachment is one Slack message attachment block.
type SlackAttachment struct {
	Color  string `json:"color,omitempty"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// WebhookData is an arbitrary JSON payload POSTed to a URL.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// Notification names its delivery channels.
type Notification interface {
	Via() []string // "mail", "slack", "webhook"
}

// Mailable supports the mail channel.
type Mailable interface {
	ToMail() MailData
}

// Slackable supports the Slack channel.
type Slackable interface {
	ToSlack() SlackData
}

// Webhookable supports the webhook channel.
type Webhookable interface {
	ToWebhook() WebhookData
}

var defaultSlackWebhook string

// SetSlackWebhook sets the default Slack incoming webhook URL.
func SetSlackWebhook(url string) { defaultSlackWebhook = url }

// Send delivers n through every channel it names. address is the email
// recipient for the mail channel; other channels ignore it.
func Send(address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := deliver(address, channel, n); err != nil {
			logger.Error("notification: channel failed", "channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync delivers in the background.
func SendAsync(address string, n Notification) {
	go Send(address, n)
}

func deliver(address, channel string, n Notification) error {
	switch channel {
	case "mail":
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		d := m.ToMail()
		to := d.To
		if to == "" {
			to = address
		}
		return mail.To(to).Subject(d.Subject).Body(d.Body).Send()

	case "slack":
		s, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Slackable", n)
		}
		return postSlack(s.ToSlack())

	case "webhook":
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return postWebhook(wh.ToWebhook())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func postSlack(d SlackData) error {
	url := d.WebhookURL
	if url == "" {
		url = defaultSlackWebhook
	}
	if url == "" {
		return fmt.Errorf("notification: slack webhook URL not configured")
	}

	raw, err := json.Marshal(struct {
		Text        string            `json:"text,omitempty"`
		Attachments []SlackAttachment `json:"attachments,omitempty"`
	}{d.Text, d.Attachments})
	if err != nil {
		return fmt.Errorf("notification: slack marshal: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("notification: slack post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification: slack returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func postWebhook(d WebhookData) error {
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}

	raw, err := json.Marshal(d.Payload)
	if err != nil {
		return fmt.Errorf("notification: webhook marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.URL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("notification: webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notification: webhook send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification: webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
