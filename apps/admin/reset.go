package main

import (
	"context"
	"fmt"
)

// reset replaces the stored state with the seed state and ends the session.
func (cli *commandLine) reset() error {
	ctx := context.Background()
	if err := cli.store.Reset(ctx); err != nil {
		return err
	}
	if err := cli.sess.End(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintln(cli.out, "data reset to the demo state")
	return err
}

func (cli *commandLine) logout() error {
	if err := cli.sess.End(context.Background()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(cli.out, "logged out")
	return err
}
