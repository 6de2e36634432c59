package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
	"github.com/Zevankai/Equipment-Tool/internal/engine"
)

var syncLocalFile string

var syncCharactersCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile a set of local characters with the room",
	Long: `Send the characters in --local-file to the server and print the outcome.
The file holds a JSON object keyed by character id; each value has name, data and lastModified.`,
	RunE: runSyncCharacters,
}

func init() {
	syncCharactersCmd.Flags().StringVar(&syncLocalFile, "local-file", "", "Path to the local characters JSON (required)")
	_ = syncCharactersCmd.MarkFlagRequired("local-file") // nolint:errcheck // safe to ignore in init
}

func runSyncCharacters(_ *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(syncLocalFile)
	if err != nil {
		return fmt.Errorf("failed to read local characters: %w", err)
	}
	var local map[string]engine.LocalCharacter
	if err := json.Unmarshal(raw, &local); err != nil {
		return fmt.Errorf("failed to parse local characters: %w", err)
	}

	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.SyncCharacters(context.Background(), &remote.SyncInput{
		RoomID: roomID,
		Local:  local,
	})
	if err != nil {
		return fmt.Errorf("failed to sync characters: %w", err)
	}

	r := resp.Result
	fmt.Printf("✅ Sync complete for room %s\n\n", roomID)
	fmt.Printf("Created:   %s\n", strings.Join(r.Created, ", "))
	fmt.Printf("Updated:   %s\n", strings.Join(r.Updated, ", "))
	fmt.Printf("Synced:    %s\n", strings.Join(r.Synced, ", "))
	fmt.Printf("Conflicts: %s\n", strings.Join(r.ConflictIDs(), ", "))

	for _, c := range r.Conflicts {
		fmt.Printf("\n⚠️  %s: server copy from %s is newer than local copy from %s\n",
			c.CharacterID,
			c.Server.UpdatedAt.Format("2006-01-02 15:04:05.000"),
			c.Local.LastModified.Format("2006-01-02 15:04:05.000"))
	}

	return nil
}
