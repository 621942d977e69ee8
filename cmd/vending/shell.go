package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rl1809/vending/internal/app"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Operate the machine from an interactive prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Keep the prompt readable unless asked otherwise.
		if !cmd.Flags().Changed("log-level") {
			cfg.LogLevel = "warn"
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		return app.NewShell(a.Service, a.Sales, os.Stdin, cmd.OutOrStdout()).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
