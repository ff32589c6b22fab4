package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicheshunter/nicheshunter/config"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithFallback(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}

		fmt.Println("Configuration valid")
		fmt.Printf("  Listen:   %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		fmt.Printf("  Database: %s\n", cfg.Database.DSN)
		fmt.Printf("  Billing:  %s\n", cfg.Billing.Mode)
		fmt.Printf("  Metrics:  %v\n", cfg.Metrics.Enabled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateConfigCmd)
}
