package panelsdk

import (
	"context"
	"net/http"
	"net/url"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ForgotPassword asks the backend to email a reset link. The backend
// responds identically whether or not the address is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/forgot-password", map[string]string{
		"email": email,
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// VerifyResetToken resolves a reset token to the user it was issued for.
func (c *Client) VerifyResetToken(ctx context.Context, token string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users/reset-password/"+url.PathEscape(token), nil)
	if err != nil {
		return "", err
	}

	var body struct {
		Data struct {
			UserID string `json:"userid"`
		} `json:"data"`
	}
	if err := c.do(req, &body); err != nil {
		return "", err
	}
	return body.Data.UserID, nil
}

// ResetPassword submits a new password for the user resolved by
// VerifyResetToken. The local policy is checked first; a weak password is
// rejected without any request being sent.
func (c *Client) ResetPassword(ctx context.Context, userID, password string) error {
	if !passwordMeetsPolicy(password) {
		return ErrWeakPassword
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/reset-password", map[string]string{
		"id":       userID,
		"password": password,
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ValidateNewPassword applies the password policy locally: minimum length,
// upper case, lower case, a digit, and a matching confirmation. It is meant
// to gate form submission before ResetPassword is called.
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if !passwordMeetsPolicy(password) {
		return ErrWeakPassword
	}
	return nil
}

func passwordMeetsPolicy(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
