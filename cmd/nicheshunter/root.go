package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nicheshunter",
	Short: "Curated app-niche catalog with subscription-gated analysis",
	Long: `Niches Hunter serves a curated catalog of app-niche opportunities.

Market analysis on each niche is gated behind a subscription; free-tier
niches, the idea validator preview, the revenue estimator and the niche
roulette are open to everyone.

Quick start:
  nicheshunter serve            # Start the API server
  nicheshunter catalog seed     # Load sample niches

Management:
  nicheshunter catalog          # Manage the niche catalog
  nicheshunter users            # Inspect accounts
  nicheshunter validate-config  # Validate configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "nicheshunter.yaml", "config file path")
}
