package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
)

var deleteCharacterID string

var deleteCharacterCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a stored character",
	RunE:  runDeleteCharacter,
}

func init() {
	deleteCharacterCmd.Flags().StringVar(&deleteCharacterID, "character-id", "", "Character ID (required)")
	_ = deleteCharacterCmd.MarkFlagRequired("character-id") // nolint:errcheck // safe to ignore in init
}

func runDeleteCharacter(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	err = client.DeleteCharacter(context.Background(), &remote.DeleteInput{
		RoomID:      roomID,
		CharacterID: deleteCharacterID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	fmt.Printf("✅ Character %s deleted from room %s\n", deleteCharacterID, roomID)
	return nil
}
