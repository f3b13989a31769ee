package main

import (
	"errors"

	"github.com/trezcool/masomo-lms/storage/sqldb"
)

var errNotSQL = errors.New("migrations only apply to the sqlite & postgres storage drivers")

func (cli *commandLine) migrate(args []string) error {
	medium, ok := cli.medium.(*sqldb.Medium)
	if !ok {
		return errNotSQL
	}
	return medium.RunMigrations(args[0], args[1:]...)
}
