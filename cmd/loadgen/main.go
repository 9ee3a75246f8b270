package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/pessoas/internal/loadgen"
	"github.com/dmitrijs2005/pessoas/internal/logging"
)

func main() {

	host := flag.String("host", "http://localhost:8000", "base URL of the pessoas API")
	users := flag.Int("users", 10, "number of simulated users")
	duration := flag.Duration("duration", time.Minute, "run length, 0 runs until interrupted")
	minWait := flag.Duration("min-wait", time.Second, "minimum pause between requests of a user")
	maxWait := flag.Duration("max-wait", 3*time.Second, "maximum pause between requests of a user")
	level := flag.String("l", "info", "log level")
	flag.Parse()

	logger := logging.New(os.Stdout, *level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := &loadgen.Runner{
		BaseURL:  *host,
		Users:    *users,
		Duration: *duration,
		MinWait:  *minWait,
		MaxWait:  *maxWait,
		Logger:   logger.With("module", "loadgen"),
	}

	logger.Info(ctx, "Starting load", "host", *host, "users", *users, "duration", duration.String())

	stats, err := r.Run(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger.Info(ctx, "Load finished", "requests", stats.Requests, "failures", stats.Failures)
}
