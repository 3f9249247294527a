package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xpanvictor/meetsec/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.DefaultDeps(), os.Args[1:])
	stop()
	os.Exit(code)
}
