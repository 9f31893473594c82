package portalsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/portal"
)

// client talks JSON over HTTP to the portal scraper backend. The scraper
// owns the actual screen-scraping; this client only moves records.
type client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger
}

var _ portal.Client = (*client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *client {
	return &client{
		baseURL: strings.TrimRight(conf.Portal.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.Portal.Timeout},
		logger:  logger,
	}
}

var tokenKeys = []string{"token", "Token", "session", "cookies"}

func (c *client) Login(ctx context.Context, creds portal.Credentials) (portal.Session, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return portal.Session{}, errors.Wrap(err, "encoding credentials")
	}

	rec, err := c.do(ctx, http.MethodPost, "/login", "", bytes.NewReader(body))
	if err != nil {
		return portal.Session{}, err
	}

	token := rec.String(tokenKeys, "")
	if token == "" {
		if data := rec.Child("data", "Data"); data != nil {
			token = data.String(tokenKeys, "")
		}
	}
	if token == "" {
		return portal.Session{}, portal.NewStatusError(http.StatusUnauthorized, "login response carried no session token")
	}
	return portal.Session{Token: token, Raw: rec}, nil
}

func (c *client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodDelete, "/logout", token, nil)
	return err
}

func (c *client) Timetable(ctx context.Context, token string) (portal.Record, error) {
	return c.do(ctx, http.MethodGet, "/timetable", token, nil)
}

func (c *client) Attendance(ctx context.Context, token string) (portal.Record, error) {
	return c.do(ctx, http.MethodGet, "/attendance", token, nil)
}

func (c *client) Marks(ctx context.Context, token string) (portal.Record, error) {
	return c.do(ctx, http.MethodGet, "/marks", token, nil)
}

func (c *client) Courses(ctx context.Context, token string) (portal.Record, error) {
	return c.do(ctx, http.MethodGet, "/courses", token, nil)
}

func (c *client) Calendar(ctx context.Context, token string) (portal.Record, error) {
	return c.do(ctx, http.MethodGet, "/calendar", token, nil)
}

func (c *client) Profile(ctx context.Context, token string) (portal.Record, error) {
	return c.do(ctx, http.MethodGet, "/user", token, nil)
}

// do runs one scraper call. The portal session rides in the X-CSRF-Token
// header; non-2xx statuses map to portal.StatusError so the auth layer can
// see 401/404 untouched.
func (c *client) do(ctx context.Context, method, path, token string, body io.Reader) (portal.Record, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, errors.Wrap(err, "building portal URL")
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "building portal request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-CSRF-Token", token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling portal")
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading portal response")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Debug("portal call failed: "+method+" "+path, res.StatusCode)
		return nil, portal.NewStatusError(res.StatusCode, extractError(raw))
	}

	var rec portal.Record
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errors.Wrap(err, "decoding portal response")
		}
	}
	return rec, nil
}

// extractError pulls a message out of an error payload, tolerating the
// scraper's three spellings.
func extractError(raw []byte) string {
	var body portal.Record
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.String([]string{"error", "message", "msg"}, "")
}
