package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
)

var listCharactersCmd = &cobra.Command{
	Use:   "list",
	Short: "List the characters stored for a room",
	RunE:  runListCharacters,
}

func runListCharacters(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.ListCharacters(context.Background(), &remote.ListInput{RoomID: roomID})
	if err != nil {
		return fmt.Errorf("failed to list characters: %w", err)
	}

	fmt.Printf("Room %s has %d character(s)\n", roomID, len(resp.Characters))
	for _, id := range resp.Characters.IDs() {
		fmt.Println()
		printRecord(resp.Characters[id])
	}

	return nil
}
