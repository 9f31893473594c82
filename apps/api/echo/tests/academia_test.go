package tests

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vertexlab/academia/core/attendance"
	"github.com/vertexlab/academia/core/portal"
	testutil "github.com/vertexlab/academia/tests"
)

func Test_home(t *testing.T) {
	app, _ := setup(t, &testutil.FakeClient{})

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Academia API!", rec.Body.String())
}

func Test_login(t *testing.T) {
	client := &testutil.FakeClient{Session: portal.Session{Token: "portal-tok"}}
	app, _ := setup(t, client)

	t.Run("success", func(t *testing.T) {
		body := marchallObj(t, portal.Credentials{Account: "AB1234", Password: "s3cret"})
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Token string `json:"token"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("missing fields", func(t *testing.T) {
		body := marchallObj(t, portal.Credentials{Account: "ab1234"})
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var fldErrs map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
		assert.Equal(t, "this field is required", fldErrs["password"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		badClient := &testutil.FakeClient{LoginErr: portal.NewStatusError(401, "bad password")}
		badApp, _ := setup(t, badClient)

		body := marchallObj(t, portal.Credentials{Account: "ab1234", Password: "nope"})
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
		badApp.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		}, rec)
	})
}

func Test_authRequired(t *testing.T) {
	app, _ := setup(t, &testutil.FakeClient{})

	paths := []string{"/v1/timetable", "/v1/attendance", "/v1/marks", "/v1/courses", "/v1/calendar", "/v1/dayorder", "/v1/user"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{
				wantCode: http.StatusUnauthorized,
				wantData: marchallObj(t, errMissingToken),
			}, rec)
		})
	}
}

func Test_getAttendance(t *testing.T) {
	client := &testutil.FakeClient{
		Records: map[string]portal.Record{
			"attendance": testutil.Row(
				"attendance", testutil.Rows(
					testutil.Row(
						"courseCode", "21CSC201J",
						"courseTitle", "Data Structures",
						"category", "Theory",
						"slot", "A",
						"facultyName", "Jane Mary",
						"hoursConducted", 40,
						"hoursAbsent", 2,
					),
				),
			),
			"courses": testutil.Row("courseList", testutil.Rows()),
		},
	}
	app, conf := setup(t, client)
	token := getToken(t, conf, "ab1234", "portal-tok")

	req, rec := newAuthRequest(http.MethodGet, "/v1/attendance", token)
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp attendance.Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if assert.Len(t, resp.Records, 1) {
		rec0 := resp.Records[0]
		assert.Equal(t, "21CSC201J", rec0.CourseCode)
		assert.Equal(t, 95.0, rec0.Percentage)
		assert.Equal(t, attendance.StatusMargin, rec0.Status.Kind)
	}
}

func Test_sessionExpired(t *testing.T) {
	client := &testutil.FakeClient{
		Errs: map[string]error{"attendance": portal.NewStatusError(401, "session gone")},
	}
	app, conf := setup(t, client)
	token := getToken(t, conf, "ab1234", "portal-tok")

	req, rec := newAuthRequest(http.MethodGet, "/v1/attendance", token)
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusUnauthorized,
		wantData: marchallObj(t, httpErr{Error: "portal session expired, log in again"}),
	}, rec)
}

func Test_portalFailure(t *testing.T) {
	client := &testutil.FakeClient{
		Errs: map[string]error{"marks": portal.NewStatusError(500, "scraper crashed")},
	}
	app, conf := setup(t, client)
	token := getToken(t, conf, "ab1234", "portal-tok")

	req, rec := newAuthRequest(http.MethodGet, "/v1/marks", token)
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadGateway,
		wantData: marchallObj(t, httpErr{Error: "scraper crashed"}),
	}, rec)
}

func Test_dayOrder(t *testing.T) {
	t.Run("resolved from live calendar", func(t *testing.T) {
		now := time.Now()
		client := &testutil.FakeClient{
			Records: map[string]portal.Record{
				"calendar": testutil.Row("calendar", testutil.Rows(
					testutil.Row("month", now.Format("Jan '06"), "days", testutil.Rows(
						testutil.Row("date", strconv.Itoa(now.Day()), "day", now.Format("Mon"), "dayOrder", "Day 3"),
					)),
				)),
			},
		}
		app, conf := setup(t, client)
		token := getToken(t, conf, "ab1234", "portal-tok")

		req, rec := newAuthRequest(http.MethodGet, "/v1/dayorder", token)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			DayOrder string  `json:"dayOrder"`
			Stale    bool    `json:"stale"`
			Error    *string `json:"error"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "3", resp.DayOrder)
		assert.False(t, resp.Stale)
		assert.Nil(t, resp.Error)
	})

	t.Run("unknown still answers 200", func(t *testing.T) {
		client := &testutil.FakeClient{
			Records: map[string]portal.Record{"calendar": testutil.Row("calendar", testutil.Rows())},
		}
		app, conf := setup(t, client)
		token := getToken(t, conf, "ab1234", "portal-tok")

		req, rec := newAuthRequest(http.MethodGet, "/v1/dayorder", token)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			DayOrder string  `json:"dayOrder"`
			Error    *string `json:"error"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "0", resp.DayOrder)
		if assert.NotNil(t, resp.Error) {
			assert.Contains(t, *resp.Error, "day order")
		}
	})
}

func Test_logout(t *testing.T) {
	client := &testutil.FakeClient{}
	app, conf := setup(t, client)
	token := getToken(t, conf, "ab1234", "portal-tok")

	req, rec := newAuthRequest(http.MethodDelete, "/v1/auth/logout", token)
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, client.LoggedOut)
}

func Test_refreshToken(t *testing.T) {
	app, conf := setup(t, &testutil.FakeClient{})
	token := getToken(t, conf, "ab1234", "portal-tok")

	req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", token)
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}
