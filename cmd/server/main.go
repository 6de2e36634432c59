// Package main is the entry point for the equipment ledger server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/cmd/server/client"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "equipment-ledger",
	Short: "Equipment ledger sync server",
	Long: `Equipment ledger stores character equipment records per room and reconciles
local copies pushed by clients over gRPC and HTTP.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory holding config.yaml and .env")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
