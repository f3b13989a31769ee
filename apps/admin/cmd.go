package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/storage"
)

var (
	isTerminalFunc           = term.IsTerminal // mockable
	stdin          io.Reader = os.Stdin

	errHelp     = errors.New("help provided")
	errAborted  = errors.New("aborted")
	errNotATerm = errors.New("not a terminal: use -force to reset without confirmation")
)

type commandLine struct {
	medium core.Medium
	store  *storage.Store
	sess   *session.Manager
	usrSvc *user.Service
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -name NAME -role student|instructor - register a user")
	fmt.Println("  export [-format json|yaml] - print the stored state")
	fmt.Println("  logout - forget the remembered session")
	fmt.Println("  reset [-force] - replace all data with the demo data and log out")
	fmt.Println("  migrate COMMAND [ARGS] - run sql storage migrations (up, down, status, version...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserName := addUserCmd.String("name", "", "The user's name.")
	addUserRole := addUserCmd.String("role", "", "The user's role: student or instructor.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportFormat := exportCmd.String("format", formatJSON, "Output format: json or yaml.")

	resetCmd := flag.NewFlagSet("reset", flag.ContinueOnError)
	resetForce := resetCmd.Bool("force", false, "Do not ask for confirmation.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserRole == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserRole)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.export(*exportFormat)
	case "logout":
		return cli.logout()
	case "reset":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if !*resetForce {
			if err := confirm("Reset all data to the demo state?"); err != nil {
				return err
			}
		}
		return cli.reset()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks a yes/no question on the terminal.
func confirm(question string) error {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errNotATerm
	}
	fmt.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errAborted
	}
}
