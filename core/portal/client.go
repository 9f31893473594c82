package portal

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Client fetches raw records from the university portal scraper.
// Implementations live under services/; core only consumes this contract.
type Client interface {
	Login(ctx context.Context, creds Credentials) (Session, error)
	Logout(ctx context.Context, token string) error

	Timetable(ctx context.Context, token string) (Record, error)
	Attendance(ctx context.Context, token string) (Record, error)
	Marks(ctx context.Context, token string) (Record, error)
	Courses(ctx context.Context, token string) (Record, error)
	Calendar(ctx context.Context, token string) (Record, error)
	Profile(ctx context.Context, token string) (Record, error)
}

type Credentials struct {
	Account  string `json:"account" validate:"required"`
	Password string `json:"password" validate:"required"`
	Captcha  string `json:"captcha,omitempty"`
	Digest   string `json:"cdigest,omitempty"`
}

type Session struct {
	Token string
	Raw   Record
}

// StatusError carries the upstream HTTP status so session errors (401/404)
// can propagate to the caller's auth layer unmodified.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("portal returned status %d", e.Code)
}

func NewStatusError(code int, msg string) error {
	return &StatusError{Code: code, Msg: msg}
}

// StatusCode extracts the upstream status from err, or fallback.
func StatusCode(err error, fallback int) int {
	var sErr *StatusError
	if errors.As(err, &sErr) {
		return sErr.Code
	}
	return fallback
}

// IsAuthError reports whether err signals an expired/invalid portal session.
// The portal answers 401 on bad tokens and 404 on evicted sessions.
func IsAuthError(err error) bool {
	code := StatusCode(err, 0)
	return code == 401 || code == 404
}
