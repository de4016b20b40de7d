package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/ritual/internal/db"
	"github.com/terraincognita07/ritual/internal/security"
	"github.com/terraincognita07/ritual/internal/services"
)

const temporaryPasswordLength = 16

type ResetPasswordOptions struct {
	Email string
	// Prompt reads the new password from Stdin instead of generating one.
	Prompt bool
	Stdin  *os.File
	Stdout io.Writer
}

// ParseResetPasswordArgs parses `reset-password [-prompt] <email>`.
func ParseResetPasswordArgs(args []string, output io.Writer) (ResetPasswordOptions, error) {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	fs.SetOutput(output)
	prompt := fs.Bool("prompt", false, "read the new password from stdin instead of generating one")
	if err := fs.Parse(args); err != nil {
		return ResetPasswordOptions{}, err
	}
	if fs.NArg() != 1 {
		return ResetPasswordOptions{}, errors.New("usage: ritual reset-password [-prompt] <email>")
	}
	return ResetPasswordOptions{Email: fs.Arg(0), Prompt: *prompt}, nil
}

func RunResetPasswordCommand(ctx context.Context, settings db.Settings, options ResetPasswordOptions) error {
	if options.Stdout == nil {
		options.Stdout = os.Stdout
	}
	if options.Stdin == nil {
		options.Stdin = os.Stdin
	}
	email := services.NormalizeAuthEmail(options.Email)
	if email == "" {
		return fmt.Errorf("invalid email address %q", options.Email)
	}

	database, err := db.Open(settings)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	repositories := db.NewRepositories(database)
	auth := services.NewAuthService(repositories.Transactor, repositories.Users, repositories.Streaks)

	user, err := auth.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return err
	}

	password, err := newPassword(options)
	if err != nil {
		return err
	}
	if err := auth.SetPassword(ctx, user.ID, password); err != nil {
		if errors.Is(err, services.ErrWeakPassword) {
			return errors.New("password must be 8-72 characters and contain letters and digits")
		}
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(options.Stdout, "Password reset for %s\n", user.Email)
	if !options.Prompt {
		fmt.Fprintf(options.Stdout, "Temporary password: %s\n", password)
	}
	return nil
}

func newPassword(options ResetPasswordOptions) (string, error) {
	if !options.Prompt {
		password, err := security.TemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return "", fmt.Errorf("generate temporary password: %w", err)
		}
		return password, nil
	}

	fmt.Fprint(options.Stdout, "New password: ")
	password, err := readSecretLine(options.Stdin)
	fmt.Fprintln(options.Stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password, nil
}
