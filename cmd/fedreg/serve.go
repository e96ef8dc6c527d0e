package main

import (
	"os/signal"
	"syscall"

	fedhttp "github.com/fedsearch/fedreg/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := fedhttp.NewServer(deps.Agent, deps.Documents, deps.Logger)
	srv.Addr = c.Addr

	if err := srv.Open(); err != nil {
		return err
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	deps.Logger.Info("shutdown signal received")
	return nil
}
