// Package main is the entrypoint for the fundctl operator CLI.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/groupfund/groupfund/internal/commands"
	"github.com/groupfund/groupfund/internal/logging"
)

func main() {
	_ = godotenv.Load()
	logging.New(logging.FormatText, os.Getenv("LOG_LEVEL"), os.Stderr)

	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
