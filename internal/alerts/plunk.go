package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const plunkSendURL = "https://api.useplunk.com/v1/send"

// Sender delivers a rendered envelope.
type Sender interface {
	Send(ctx context.Context, env Envelope) error
}

type plunkSendBody struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	From    string `json:"from,omitempty"`
}

// Plunk sends envelopes through the Plunk transactional email API.
type Plunk struct {
	http *resty.Client
	from string
	url  string
}

func NewPlunk(apiKey, from string) *Plunk {
	client := resty.New().
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &Plunk{http: client, from: from, url: plunkSendURL}
}

func (p *Plunk) Send(ctx context.Context, env Envelope) error {
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(plunkSendBody{To: env.To, Subject: env.Subject, Body: env.Body, From: p.from}).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("plunk send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("plunk send failed: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}

// LogSender writes envelopes to the log instead of delivering them.
type LogSender struct {
	Logger zerolog.Logger
}

func (s LogSender) Send(_ context.Context, env Envelope) error {
	s.Logger.Info().
		Str("to", env.To).
		Str("subject", env.Subject).
		Msg("notification (not delivered, no mail provider configured)")
	return nil
}
