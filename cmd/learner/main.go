package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/yungbote/smarttutor-backend/internal/learning/cli"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "test"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	code := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, log)
	log.Sync()
	stop()
	os.Exit(code)
}
