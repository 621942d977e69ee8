package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rl1809/vending/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the machine over HTTP and gRPC",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("http"); addr != "" {
			cfg.HTTPAddr = addr
		}
		if addr, _ := cmd.Flags().GetString("grpc"); addr != "" {
			cfg.GRPCAddr = addr
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		return a.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("http", "", "HTTP listen address")
	serveCmd.Flags().String("grpc", "", "gRPC listen address")
	rootCmd.AddCommand(serveCmd)
}
