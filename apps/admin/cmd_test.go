package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/attendance"
	"github.com/vertexlab/academia/core/calendar"
	"github.com/vertexlab/academia/core/course"
	"github.com/vertexlab/academia/core/portal"
	emailsvc "github.com/vertexlab/academia/services/email"
	testutil "github.com/vertexlab/academia/tests"
)

func setup(t *testing.T, client *testutil.FakeClient) *commandLine {
	t.Helper()
	conf := &core.Config{AppName: "Academia", Env: "TEST", TestMode: true}
	logger := testutil.NopLogger{}
	courseSvc := course.NewService(client, logger)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }

	return &commandLine{
		conf:    conf,
		client:  client,
		calSvc:  calendar.NewService(client, nil, logger),
		attSvc:  attendance.NewService(client, courseSvc, logger),
		mailSvc: emailsvc.NewConsoleService(conf),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCliTests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, want %v%s", tt.wantErr, tt.wantErrStr)
			}
		})
	}
}

func Test_commandLine_help(t *testing.T) {
	cli := setup(t, &testutil.FakeClient{})

	runCliTests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "backfill: no account", args: []string{"backfill"}, wantErr: errHelp},
		{name: "digest: no account", args: []string{"digest", "-to", "awe@test.cd"}, wantErr: errHelp},
		{name: "digest: no recipient", args: []string{"digest", "-account", "ab1234"}, wantErr: errHelp},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t, &testutil.FakeClient{})

	var gotCommand, gotDir string
	var gotArgs []string
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		gotCommand, gotDir, gotArgs = command, dir, args
		switch command {
		case "up", "down", "redo", "reset", "status", "version": // pass
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCliTests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	})

	if gotCommand != "status" || gotDir != "migrations" || len(gotArgs) != 0 {
		t.Errorf("goose called with (%q, %q, %v)", gotCommand, gotDir, gotArgs)
	}
}

func Test_commandLine_login(t *testing.T) {
	t.Run("empty password", func(t *testing.T) {
		cli := setup(t, &testutil.FakeClient{})
		readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }

		if _, err := cli.login("ab1234"); err != errHelp {
			t.Errorf("login() error = %v, wantErr %v", err, errHelp)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		cli := setup(t, &testutil.FakeClient{LoginErr: portal.NewStatusError(401, "bad password")})

		if _, err := cli.login("ab1234"); !portal.IsAuthError(err) {
			t.Errorf("login() error = %v, want the portal 401 passed through", err)
		}
	})

	t.Run("session token returned", func(t *testing.T) {
		cli := setup(t, &testutil.FakeClient{Session: portal.Session{Token: "portal-tok"}})

		token, err := cli.login("AB1234")
		if err != nil {
			t.Fatalf("login() error = %v", err)
		}
		if token != "portal-tok" {
			t.Errorf("login() = %q, want portal-tok", token)
		}
	})
}

func Test_commandLine_digest(t *testing.T) {
	client := &testutil.FakeClient{
		Session: portal.Session{Token: "portal-tok"},
		Records: map[string]portal.Record{
			"attendance": testutil.Row(
				"attendance", testutil.Rows(
					testutil.Row(
						"courseCode", "21CSC201J",
						"courseTitle", "Data Structures",
						"category", "Theory",
						"hoursConducted", 20,
						"hoursAbsent", 6,
					),
					testutil.Row(
						"courseCode", "21CSC202J",
						"courseTitle", "Operating Systems",
						"category", "Theory",
						"hoursConducted", 20,
						"hoursAbsent", 1,
					),
				),
			),
			"courses": testutil.Row("courseList", testutil.Rows()),
		},
	}
	cli := setup(t, client)

	emailsvc.SentMessages = nil
	if err := cli.run([]string{"admin", "digest", "-account", "ab1234", "-to", "awe@test.cd"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}

	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("len(SentMessages) = %d, want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if msg.To[0].Address != "awe@test.cd" || msg.Subject != "Low attendance digest" {
		t.Errorf("message header = %+v", msg)
	}
	if !strings.Contains(msg.TextContent, "21CSC201J") {
		t.Errorf("digest body misses the failing course:\n%s", msg.TextContent)
	}
	if strings.Contains(msg.TextContent, "21CSC202J") {
		t.Errorf("digest body lists a course above the threshold:\n%s", msg.TextContent)
	}
}
