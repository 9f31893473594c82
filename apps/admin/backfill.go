package main

import (
	"context"
	"fmt"
)

// backfill snapshots the live academic calendar into the gocal store so the
// day-order resolver has something to fall back on when the portal is down.
func (cli *commandLine) backfill(token string) error {
	n, err := cli.calSvc.Backfill(context.Background(), token)
	if err != nil {
		return err
	}
	fmt.Printf("backfilled %d calendar rows\n", n)
	return nil
}
