package services

import (
	"context"
	"fmt"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/jordan-wright/email"

	"somity-ledger/internal/core/domain"
)

// DefaultPushGatewayURL is the LINE Notify compatible endpoint used when none is configured
const DefaultPushGatewayURL = "https://notify-api.line.me/api/notify"

// ============================================================
// Push
// ============================================================

// PushChannel posts events to a LINE Notify compatible gateway
type PushChannel struct {
	gatewayURL string
	token      string
	client     *http.Client
}

// NewPushChannel creates a push channel. An empty gatewayURL uses LINE Notify.
func NewPushChannel(gatewayURL, token string) *PushChannel {
	if gatewayURL == "" {
		gatewayURL = DefaultPushGatewayURL
	}
	return &PushChannel{
		gatewayURL: gatewayURL,
		token:      token,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *PushChannel) Name() string { return "push" }

// Send posts the event as a form-encoded message
func (c *PushChannel) Send(ctx context.Context, ev domain.Event) error {
	data := url.Values{}
	data.Set("message", fmt.Sprintf("\n%s\n%s", ev.Title, ev.Body))
	data.Set("recipient", ev.RecipientID)
	data.Set("category", string(ev.Category))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}

// ============================================================
// E-mail
// ============================================================

// SMTPSettings holds the outgoing mail server
type SMTPSettings struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// mailSender matches (*email.Email).Send so tests can swap the transport
type mailSender func(e *email.Email, addr string, auth smtp.Auth) error

// EmailChannel mails staff alerts to a fixed address. Members only have
// phone-derived virtual addresses, so they are never mailed directly.
type EmailChannel struct {
	smtp  SMTPSettings
	to    string
	kinds map[domain.EventKind]bool
	send  mailSender
}

// NewEmailChannel creates an e-mail channel for the given kinds; none means all
func NewEmailChannel(settings SMTPSettings, to string, kinds ...domain.EventKind) *EmailChannel {
	set := make(map[domain.EventKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return &EmailChannel{
		smtp:  settings,
		to:    to,
		kinds: set,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (c *EmailChannel) Name() string { return "email" }

// Send mails one alert; events outside the configured kinds are skipped
func (c *EmailChannel) Send(ctx context.Context, ev domain.Event) error {
	if len(c.kinds) > 0 && !c.kinds[ev.Kind] {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = c.smtp.From
	e.To = []string{c.to}
	e.Subject = fmt.Sprintf("[Somity] %s", ev.Title)
	e.Text = []byte(fmt.Sprintf(
		"%s\n\nMember: %s\nCategory: %s\nTime: %s\n",
		ev.Body, ev.RecipientID, ev.Category, ev.OccurredAt.Format("2006-01-02 15:04:05"),
	))

	addr := fmt.Sprintf("%s:%s", c.smtp.Host, c.smtp.Port)
	var auth smtp.Auth
	if c.smtp.Username != "" {
		auth = smtp.PlainAuth("", c.smtp.Username, c.smtp.Password, c.smtp.Host)
	}
	if err := c.send(e, addr, auth); err != nil {
		return fmt.Errorf("send mail to %s: %w", c.to, err)
	}
	return nil
}
