// Command service runs the standalone 一言 quote server.
package main

import (
	"context"
	"fmt"
	"os"
)

// Stamped at link time:
//
//	go build -ldflags "-X main.Version=2.3.1 -X main.Commit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%FT%TZ)" ./cmd/service
//
// Unset values fall back to the VCS stamp in the binary.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
