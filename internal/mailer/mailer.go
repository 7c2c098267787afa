// Package mailer is the fire-and-forget client for the transactional mail
// API. Delivery failures are logged, never surfaced to the request path.
package mailer

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

type Mailer struct {
	client *resty.Client
	from   string
}

func New(baseURL, apiKey, from string) *Mailer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey)

	return &Mailer{client: client, from: from}
}

type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendToken mails a single-use token (confirmation, recovery) to the user.
func (m *Mailer) SendToken(ctx context.Context, to, subject, token string) {
	m.send(ctx, message{
		From:    m.from,
		To:      to,
		Subject: subject,
		Body:    "Your code: " + token,
	})
}

// SendNotice mails an informational notice (e.g. "you were added to a note").
func (m *Mailer) SendNotice(ctx context.Context, to, subject, body string) {
	m.send(ctx, message{
		From:    m.from,
		To:      to,
		Subject: subject,
		Body:    body,
	})
}

func (m *Mailer) send(ctx context.Context, msg message) {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post("/messages")
	if err != nil {
		logger.Log.Error().Err(err).Str("to", msg.To).Msg("Failed to send mail")
		return
	}
	if resp.IsError() {
		logger.Log.Error().Int("status", resp.StatusCode()).Str("to", msg.To).Msg("Mail API returned an error")
	}
}
