// Conversa - Chat Export Statistics
//
// Conversa parses plain-text chat exports and reports per-participant
// activity, keywords, emojis, expressions and reply times.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccollicutt/conversa/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
