package panelsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// VerificationOutcome classifies the result of an email verification attempt.
type VerificationOutcome string

const (
	// OutcomeSuccess means the address is now verified.
	OutcomeSuccess VerificationOutcome = "success"
	// OutcomeExpired means the link expired; a resend can mint a fresh one.
	OutcomeExpired VerificationOutcome = "expired"
	// OutcomeNotFound means the token is unknown; there is nothing to resend.
	OutcomeNotFound VerificationOutcome = "not_found"
	// OutcomeError covers transport failures and unclassified rejections.
	OutcomeError VerificationOutcome = "error"
)

// VerificationResult is the terminal state of a verification attempt. The
// outcomes are mutually exclusive.
type VerificationResult struct {
	Outcome VerificationOutcome
	Message string
}

// VerifyEmail consumes a one-time email verification token. An expired link
// (410 with code EXPIRED) and an unknown token (404) are distinct outcomes
// so the caller can offer resend versus account creation.
func (c *Client) VerifyEmail(ctx context.Context, token string) VerificationResult {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users/magic_link/"+url.PathEscape(token), nil)
	if err != nil {
		return VerificationResult{Outcome: OutcomeError, Message: err.Error()}
	}

	var body struct {
		Message string `json:"message"`
	}
	err = c.do(req, &body)
	if err == nil {
		return VerificationResult{Outcome: OutcomeSuccess, Message: body.Message}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsExpired():
			return VerificationResult{Outcome: OutcomeExpired, Message: apiErr.Message}
		case apiErr.StatusCode == http.StatusNotFound:
			return VerificationResult{Outcome: OutcomeNotFound, Message: apiErr.Message}
		}
	}
	return VerificationResult{Outcome: OutcomeError, Message: err.Error()}
}

// ResendVerification requests a fresh verification link using a previously
// issued token, typically after VerifyEmail reported OutcomeExpired.
func (c *Client) ResendVerification(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/resend-verification/"+url.PathEscape(token), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ResendVerificationByEmail requests a fresh verification link for the given
// address. The backend responds identically whether or not the address is
// registered.
func (c *Client) ResendVerificationByEmail(ctx context.Context, email string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/resend-verification", map[string]string{
		"email": email,
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
