// Command adduser creates a Böndi account from the terminal.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"bondi/internal/config"
	"bondi/internal/logger"
	"bondi/internal/service"
	"bondi/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	fullName := fs.String("full-name", "", "Full name")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	recoveryFlag := fs.String("recovery-word", "", "Recovery word (optional, will prompt if omitted)")
	ledgerPath := fs.String("ledger", cfg.LedgerFile, "Path to ledger file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"user", *username}, {"full-name", *fullName}, {"email", *email},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> -full-name <name> -email <email> [-ledger <path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	secrets := newSecretReader(stdin)

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = secrets.read()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	recoveryWord := *recoveryFlag
	if recoveryWord == "" {
		fmt.Fprint(stdout, "Recovery word: ")
		var err error
		recoveryWord, err = secrets.read()
		if err != nil {
			return fmt.Errorf("failed to read recovery word: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(recoveryWord) == "" {
		return fmt.Errorf("recovery word cannot be empty")
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	ledger, err := storage.Open(*ledgerPath, log)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	svc := service.New(ledger, log)
	user, err := svc.CreateAccount(service.SignupRequest{
		FullName:     *fullName,
		Email:        *email,
		Username:     *username,
		Password:     password,
		RecoveryWord: recoveryWord,
	})
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Fprintf(stdout, "Account %s created successfully\n", user.Username)
	return nil
}

// secretReader reads prompted secrets from stdin. A single scanner is
// shared across prompts so line-buffered reads do not swallow later input.
type secretReader struct {
	file    *os.File // set when stdin is a terminal
	scanner *bufio.Scanner
}

func newSecretReader(stdin io.Reader) *secretReader {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &secretReader{file: f}
	}
	// Fallback for non-terminal stdin (tests, pipes).
	return &secretReader{scanner: bufio.NewScanner(stdin)}
}

func (r *secretReader) read() (string, error) {
	if r.file != nil {
		// Hide the input when stdin is a terminal.
		b, err := term.ReadPassword(int(r.file.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
