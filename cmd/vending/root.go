package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rl1809/vending/internal/app"
	"github.com/rl1809/vending/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "vending",
	Short: "A single vending machine with HTTP, gRPC and shell front ends",
	Long: `vending runs one vending machine: an inventory of priced items, a customer balance
and purchases that check funds and stock together. Configuration comes from VENDING_*
environment variables; flags override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("preset", "", "Inventory preset (default, minimal, expanded, empty)")
	rootCmd.PersistentFlags().String("seed-file", "", "YAML file with the initial inventory")
	rootCmd.PersistentFlags().String("machine", "", "Machine id used for snapshots and the sales ledger")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the environment and applies any flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"preset":    &cfg.Preset,
		"seed-file": &cfg.SeedFile,
		"machine":   &cfg.MachineID,
		"log-level": &cfg.LogLevel,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	return app.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}
