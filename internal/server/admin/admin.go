// Package admin implements the createuser command.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/sanctionlog/internal/common"
	"golang.org/x/term"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitFail  = 1
	ExitUsage = 2
)

const usage = "usage: createuser [-c config] [-d dsn] <username> <password|->"

// UserCreator adds an account. It reports false when the username is taken.
type UserCreator interface {
	CreateUser(ctx context.Context, username, password string) (bool, error)
}

// Opener connects to the credential store. The returned closer is called
// once the command is done.
type Opener func(ctx context.Context) (UserCreator, func() error, error)

// PasswordReader reads a password without echo.
type PasswordReader func() ([]byte, error)

// TerminalPassword reads from the controlling terminal on stdin.
func TerminalPassword() ([]byte, error) {
	return readPassword(int(os.Stdin.Fd()))
}

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Run executes "createuser <username> <password>" and returns the exit code.
// A password of "-" is read with readPw after a prompt on stderr.
func Run(ctx context.Context, args []string, open Opener, readPw PasswordReader, stdout, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, usage)
		return ExitUsage
	}
	username, password := args[0], args[1]

	if password == "-" {
		fmt.Fprint(stderr, "Password: ")
		pw, err := readPw()
		fmt.Fprintln(stderr)
		if err != nil {
			fmt.Fprintf(stderr, "read password: %v\n", err)
			return ExitFail
		}
		password = string(pw)
	}

	users, closer, err := open(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return ExitFail
	}
	defer func() {
		if err := closer(); err != nil {
			fmt.Fprintf(stderr, "close store: %v\n", err)
		}
	}()

	created, err := users.CreateUser(ctx, username, password)
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		fmt.Fprintln(stderr, "Error: username and password must not be empty.")
		return ExitFail
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFail
	case !created:
		fmt.Fprintln(stderr, "Error: user already exists.")
		return ExitFail
	}

	fmt.Fprintf(stdout, "User '%s' created.\n", username)
	return ExitOK
}
