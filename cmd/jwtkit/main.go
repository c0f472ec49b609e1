// Command jwtkit decodes, signs, verifies and inspects JSON Web Tokens from
// the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
