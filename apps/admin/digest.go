package main

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/attendance"
)

// digest derives attendance and mails the courses sitting under the 75%
// threshold, with the classes required to climb back.
func (cli *commandLine) digest(token, to string) error {
	res, err := cli.attSvc.Attendance(context.Background(), token)
	if err != nil {
		return err
	}

	below := attendance.BelowTarget(res.Records)
	if len(below) == 0 {
		fmt.Println("all courses at or above 75%, nothing to send")
		return nil
	}

	body := new(strings.Builder)
	fmt.Fprintf(body, "%d course(s) under the 75%% attendance threshold:\n\n", len(below))
	for _, rec := range below {
		fmt.Fprintf(body, "  %s  %s\n", rec.CourseCode, rec.CourseTitle)
		fmt.Fprintf(body, "    at %.2f%% (%d conducted, %d absent); attend the next %d class(es) to recover\n",
			rec.Percentage, rec.Conducted, rec.Absent, rec.Status.Classes)
	}
	if res.Stale {
		fmt.Fprint(body, "\nNote: derived from the portal's cached data, not a live scrape.\n")
	}

	cli.mailSvc.SendMessages(&core.EmailMessage{
		To:          []mail.Address{{Address: to}},
		Subject:     "Low attendance digest",
		TextContent: body.String(),
	})
	fmt.Printf("digest sent to %s (%d courses)\n", to, len(below))
	return nil
}
