package main

import (
	"context"
	"fmt"

	"github.com/trezcool/masomo-lms/core/user"
)

// addUser registers a user without logging them in.
func (cli *commandLine) addUser(name, role string) error {
	usr, err := cli.usrSvc.Register(context.Background(), user.NewUser{Name: name, Role: user.Role(role)})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cli.out, "%s (%s) registered with ID %s\n", usr.Name, usr.Role, usr.ID)
	return err
}
