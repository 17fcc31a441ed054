// Command token signs a JWT with JWT_SECRET for a local user so the TUI can
// talk to a development server: GEMIWELL_TOKEN=$(go run ./cmd/token <user-id> [email])
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"codeberg.org/gemiwell/server/internal/auth"
)

var errUsage = errors.New("usage: token <user-id> [email]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)

		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 || len(args) > 2 || args[0] == "" {
		return errUsage
	}

	email := ""
	if len(args) == 2 {
		email = args[1]
	}

	token, err := auth.GenerateJWT(args[0], email)
	if err != nil {
		return fmt.Errorf("error signing token: %w", err)
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
