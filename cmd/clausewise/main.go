// Command clausewise answers insurance claim queries by retrieving
// relevant policy clauses and evaluating a decision.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/clausewise/clausewise-cli/internal/adapters/driving/cli"
)

func main() {
	// Load .env from the working directory if present; the real
	// environment wins over file values.
	godotenv.Load() //nolint:errcheck

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
