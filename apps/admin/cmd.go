package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/attendance"
	"github.com/vertexlab/academia/core/calendar"
	"github.com/vertexlab/academia/core/portal"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sql.DB
	conf    *core.Config
	client  portal.Client
	calSvc  *calendar.Service
	attSvc  *attendance.Service
	mailSvc core.EmailService
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args]            - run DB migrations (up, down, status, ...)")
	fmt.Println("  backfill -account ACCOUNT         - copy the live calendar into the fallback store")
	fmt.Println("  digest -account ACCOUNT -to EMAIL - email the courses sitting under 75% attendance")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	backfillCmd := flag.NewFlagSet("backfill", flag.ExitOnError)
	backfillAccount := backfillCmd.String("account", "", "The portal account. The password will be prompted next.")

	digestCmd := flag.NewFlagSet("digest", flag.ExitOnError)
	digestAccount := digestCmd.String("account", "", "The portal account. The password will be prompted next.")
	digestTo := digestCmd.String("to", "", "The address receiving the digest.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "backfill":
		if err := backfillCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *backfillAccount == "" {
			backfillCmd.Usage()
			return errHelp
		}
		token, err := cli.login(*backfillAccount)
		if err != nil {
			return err
		}
		return cli.backfill(token)
	case "digest":
		if err := digestCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *digestAccount == "" || *digestTo == "" {
			digestCmd.Usage()
			return errHelp
		}
		token, err := cli.login(*digestAccount)
		if err != nil {
			return err
		}
		return cli.digest(token, *digestTo)
	default:
		cli.printUsage()
		return errHelp
	}
}

// login prompts for the portal password and opens a session.
func (cli *commandLine) login(account string) (string, error) {
	fmt.Print("Enter portal password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}

	session, err := cli.client.Login(context.Background(), portal.Credentials{
		Account:  core.CleanString(account, true /* lower */),
		Password: string(pwd),
	})
	if err != nil {
		return "", err
	}
	return session.Token, nil
}
