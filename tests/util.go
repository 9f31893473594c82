package testutil

import (
	"context"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/portal"
)

// FakeClient serves canned portal records per endpoint, keyed by the
// endpoint name (timetable, attendance, marks, courses, calendar, profile).
type FakeClient struct {
	Session   portal.Session
	LoginErr  error
	LogoutErr error
	Records   map[string]portal.Record
	Errs      map[string]error

	LoggedOut bool
}

var _ portal.Client = (*FakeClient)(nil)

func (c *FakeClient) Login(ctx context.Context, creds portal.Credentials) (portal.Session, error) {
	if c.LoginErr != nil {
		return portal.Session{}, c.LoginErr
	}
	return c.Session, nil
}

func (c *FakeClient) Logout(ctx context.Context, token string) error {
	c.LoggedOut = true
	return c.LogoutErr
}

func (c *FakeClient) Timetable(ctx context.Context, token string) (portal.Record, error) {
	return c.answer("timetable")
}

func (c *FakeClient) Attendance(ctx context.Context, token string) (portal.Record, error) {
	return c.answer("attendance")
}

func (c *FakeClient) Marks(ctx context.Context, token string) (portal.Record, error) {
	return c.answer("marks")
}

func (c *FakeClient) Courses(ctx context.Context, token string) (portal.Record, error) {
	return c.answer("courses")
}

func (c *FakeClient) Calendar(ctx context.Context, token string) (portal.Record, error) {
	return c.answer("calendar")
}

func (c *FakeClient) Profile(ctx context.Context, token string) (portal.Record, error) {
	return c.answer("profile")
}

func (c *FakeClient) answer(endpoint string) (portal.Record, error) {
	if err, ok := c.Errs[endpoint]; ok {
		return nil, err
	}
	return c.Records[endpoint], nil
}

// NopLogger drops everything; keeps test output readable.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

// Row builds a raw portal record out of key/value pairs.
func Row(kv ...interface{}) portal.Record {
	rec := make(portal.Record, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		rec[kv[i].(string)] = kv[i+1]
	}
	return rec
}

// Rows wraps records into the []interface{} shape JSON decoding produces.
func Rows(recs ...portal.Record) []interface{} {
	out := make([]interface{}, 0, len(recs))
	for _, rec := range recs {
		out = append(out, map[string]interface{}(rec))
	}
	return out
}
