package main

import (
	"context"
	"github.com/cirruslabs/tuntap/internal/command"
	"github.com/getsentry/sentry-go"
	"log"
	"os"
	"os/signal"
	"time"
)

func main() {
	// Initialize Sentry
	err := sentry.Init(sentry.ClientOptions{})
	if err != nil {
		log.Fatalf("failed to initialize Sentry: %v", err)
	}
	defer sentry.Flush(2 * time.Second)
	defer sentry.Recover()

	// Set up a signal-interruptible context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	// Disable log timestamping
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	// Run the command
	if err := command.NewRootCmd().ExecuteContext(ctx); err != nil {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)

		cancel()
		log.Fatal(err)
	}

	cancel()
}
