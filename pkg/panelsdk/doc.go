// Package panelsdk is the Go client for the SitePanel API. It manages the
// session lifecycle (magic-link login, background access token refresh,
// logout) and exposes helpers for the email verification and password reset
// flows.
//
// The refresh credential is an HTTP-only cookie transported by the client's
// cookie jar; the SDK never reads or persists it. The access token lives
// only in memory on the Session and is attached as a bearer Authorization
// header by NewRequest.
package panelsdk
