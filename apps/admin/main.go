package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/proctor/apps/shared"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/session"
	logsvc "github.com/trezcool/proctor/services/logger"
)

func main() {
	if err := run(); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	conf := core.NewConfig()
	logger, err := logsvc.NewLogger("CLI", conf)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sessions := session.NewManager(session.NewFileStore(conf.SessionFile))
	svcs, err := shared.NewServices(shared.Deps{
		Conf:     conf,
		Logger:   logger,
		Sessions: sessions,
		Tokens:   sessions,
	})
	if err != nil {
		return err
	}

	// Ctrl+C stops a -watch loop
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := commandLine{svcs: svcs, sessions: sessions, out: os.Stdout}
	return cli.run(ctx, os.Args)
}
