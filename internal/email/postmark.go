// Package email delivers family invitation notices through the Postmark API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"

	"pantry-keeper/internal/domain"
)

const defaultAPIURL = "https://api.postmarkapp.com/email"

// ErrNotConfigured is returned when no server token has been set
var ErrNotConfigured = errors.New("email client not configured: missing server token")

type Client struct {
	serverToken string
	fromEmail   string
	appBaseURL  string
	apiURL      string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIURL points the client at a different Postmark endpoint
func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(serverToken, fromEmail, appBaseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		appBaseURL:  appBaseURL,
		apiURL:      defaultAPIURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
	Tag      string `json:"Tag,omitempty"`
}

// SendInvitation tells the recipient of inv that they have been invited
func (c *Client) SendInvitation(ctx context.Context, inv domain.FamilyInvitation) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	sender := inv.Sender.Name
	if sender == "" {
		sender = inv.Sender.Email
	}

	access := "view"
	if inv.Permissions.EditInventory {
		access = "view and edit"
	}

	link := c.appBaseURL + "/family"
	expires := inv.ExpiresAt.Format("January 2, 2006")

	subject := fmt.Sprintf("%s invited you to share their pantry", sender)
	textBody := fmt.Sprintf(
		"%s has invited you to join their household as %s and %s their inventory.\n\nOpen %s to accept or decline.\n\nThis invitation expires on %s.",
		sender, inv.Relationship, access, link, expires,
	)
	htmlBody := fmt.Sprintf(
		`<p>%s has invited you to join their household as %s and %s their inventory.</p><p><a href="%s">Review the invitation</a></p><p>This invitation expires on %s.</p>`,
		html.EscapeString(sender), inv.Relationship, access, html.EscapeString(link), expires,
	)

	return c.send(ctx, postmarkEmail{
		From:     c.fromEmail,
		To:       inv.RecipientEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
		Tag:      "family-invitation",
	})
}

func (c *Client) send(ctx context.Context, payload postmarkEmail) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
