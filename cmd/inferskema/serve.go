package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	inferskema "github.com/reoring/inferskema"
	"github.com/reoring/inferskema/internal/config"
	"github.com/reoring/inferskema/internal/server"
	"github.com/reoring/inferskema/internal/validation"
)

func (a *app) newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve inference and validation over HTTP",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	f := serveCmd.Flags()
	f.String("addr", ":8080", "Listen address")
	f.Int("cache-size", 128, "Compiled schemas kept in memory (0 disables the cache)")
	_ = a.v.BindPFlag(config.KeyServerAddr, f.Lookup("addr"))
	_ = a.v.BindPFlag(config.KeyCacheSize, f.Lookup("cache-size"))
	return serveCmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	v, err := validation.New(a.cfg.Server.CacheSize)
	if err != nil {
		return err
	}
	opt := inferskema.Options{
		Parse: a.cfg.ParseOpt(a.warnSink("request")),
		Emit:  a.cfg.EmitOpt(),
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.New(a.log, v, opt).Run(ctx, a.cfg.Server.Addr)
}
