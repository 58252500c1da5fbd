package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/japaniel/pitchaccent/cmd/pitchaccent/commands"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	commands.ExecuteContext(ctx)
}
