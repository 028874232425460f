package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/greenloop/greenloop/internal/auth"
)

// HashPasswordCommand hashes a password with bcrypt, for seeding accounts
// or verifying what the server stores.
type HashPasswordCommand struct {
	Password string
	Cost     int
	Check    string
}

func NewHashPasswordCommand() *HashPasswordCommand {
	return &HashPasswordCommand{}
}

func (cmd *HashPasswordCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)

	fs.StringVar(&cmd.Password, "password", "", "Password to hash (required)")
	fs.IntVar(&cmd.Cost, "cost", auth.DefaultBcryptCost, "Bcrypt cost factor")
	fs.StringVar(&cmd.Check, "check", "", "Existing hash to check the password against instead of hashing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-password [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Hash a password with bcrypt, or check a password against an existing hash.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s hash-password -password 'hunter2'\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s hash-password -password 'hunter2' -check '$2a$10$...'\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("password is required")
	}

	return nil
}

func (cmd *HashPasswordCommand) Run() error {
	if cmd.Check != "" {
		if err := cmd.checkHash(); err != nil {
			return err
		}
		return nil
	}

	hash, err := auth.HashPassword(cmd.Password, cmd.Cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Println(hash)
	return nil
}

func (cmd *HashPasswordCommand) checkHash() error {
	err := auth.CheckPassword(cmd.Password, cmd.Check)
	if err == auth.ErrInvalidPassword {
		fmt.Println("no match")
		os.Exit(1)
	}
	if err != nil {
		return fmt.Errorf("failed to check password: %w", err)
	}

	fmt.Println("match")
	return nil
}
