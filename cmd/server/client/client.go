// Package client provides test commands for the character service of a running ledger
package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
	roomID     string
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the equipment ledger",
	Long:  `Client commands allow you to test the ledger by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&roomID, "room", "", "Room ID (required)")
	_ = ClientCmd.MarkPersistentFlagRequired("room") // nolint:errcheck // safe to ignore in init

	ClientCmd.AddCommand(listCharactersCmd)
	ClientCmd.AddCommand(saveCharacterCmd)
	ClientCmd.AddCommand(updateCharacterCmd)
	ClientCmd.AddCommand(deleteCharacterCmd)
	ClientCmd.AddCommand(syncCharactersCmd)
}

// createClient creates a character service client
func createClient() (remote.Client, func(), error) {
	c, closeConn, err := remote.New(&remote.Config{
		Address: serverAddr,
		Timeout: timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = closeConn() // nolint:errcheck // safe to ignore in cleanup
	}
	return c, cleanup, nil
}

func printRecord(rec *entities.CharacterRecord) {
	fmt.Printf("Character ID: %s\n", rec.CharacterID)
	fmt.Printf("Name: %s\n", rec.Name)
	fmt.Printf("Last Modified: %s\n", rec.UpdatedAt.Format(time.RFC3339Nano))
	fmt.Printf("Payload: %d bytes\n", len(rec.Data))
}
