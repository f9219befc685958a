// Package mailer delivers the panel's transactional email (magic login
// links, verification links, password resets and backup reports) through
// the Postmark HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultAPIURL = "https://api.postmarkapp.com/email"

type Mailer struct {
	serverToken string
	fromEmail   string
	appBaseURL  string // where the panel UI lives; links in emails point here
	apiURL      string
	httpClient  *http.Client
}

type Option func(*Mailer)

func WithHTTPClient(c *http.Client) Option {
	return func(m *Mailer) {
		m.httpClient = c
	}
}

// WithAPIURL overrides the Postmark endpoint, used by tests.
func WithAPIURL(url string) Option {
	return func(m *Mailer) {
		m.apiURL = url
	}
}

func New(serverToken, fromEmail, appBaseURL string, opts ...Option) *Mailer {
	m := &Mailer{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		appBaseURL:  appBaseURL,
		apiURL:      defaultAPIURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Configured returns true if the server token is set. When unconfigured
// every send becomes a no-op so local development works without Postmark.
func (m *Mailer) Configured() bool {
	return m.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendMagicLoginLink emails the one-time sign-in link.
func (m *Mailer) SendMagicLoginLink(ctx context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/magic-login/%s", m.appBaseURL, token)
	text := fmt.Sprintf("Click the link below to sign in:\n\n%s\n\nThis link expires in 15 minutes and can only be used once.", link)
	html := fmt.Sprintf(
		`<p>Click the link below to sign in:</p><p><a href="%s">Sign in</a></p><p>This link expires in 15 minutes and can only be used once.</p>`,
		link,
	)
	return m.send(ctx, toEmail, "Sign in to your panel", html, text)
}

// SendVerificationLink emails the address-confirmation link for a new account.
func (m *Mailer) SendVerificationLink(ctx context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/verify-email/%s", m.appBaseURL, token)
	text := fmt.Sprintf("Welcome! Confirm your email address by clicking the link below:\n\n%s\n\nThis link expires in 24 hours.", link)
	html := fmt.Sprintf(
		`<p>Welcome! Confirm your email address by clicking the link below:</p><p><a href="%s">Verify email</a></p><p>This link expires in 24 hours.</p>`,
		link,
	)
	return m.send(ctx, toEmail, "Verify your email address", html, text)
}

// SendPasswordResetLink emails the password-reset link.
func (m *Mailer) SendPasswordResetLink(ctx context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", m.appBaseURL, token)
	text := fmt.Sprintf("A password reset was requested for your account. Click the link below to choose a new password:\n\n%s\n\nThis link expires in 1 hour. If you did not request this, you can ignore this email.", link)
	html := fmt.Sprintf(
		`<p>A password reset was requested for your account. Click the link below to choose a new password:</p><p><a href="%s">Reset password</a></p><p>This link expires in 1 hour. If you did not request this, you can ignore this email.</p>`,
		link,
	)
	return m.send(ctx, toEmail, "Reset your password", html, text)
}

// SendBackupReport emails the outcome of a backup run.
func (m *Mailer) SendBackupReport(ctx context.Context, toEmail, status, detail string) error {
	subject := "Backup " + status
	text := fmt.Sprintf("Backup finished with status %s.\n\n%s", status, detail)
	html := fmt.Sprintf(`<p>Backup finished with status <strong>%s</strong>.</p><p>%s</p>`, status, detail)
	return m.send(ctx, toEmail, subject, html, text)
}

func (m *Mailer) send(ctx context.Context, to, subject, html, text string) error {
	if !m.Configured() {
		return nil
	}

	payload := postmarkEmail{
		From:     m.fromEmail,
		To:       to,
		Subject:  subject,
		HtmlBody: html,
		TextBody: text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", m.serverToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
