package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
)

var (
	updateCharacterID string
	updateName        string
	updateDataFile    string
)

var updateCharacterCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the name and/or payload of a stored character",
	RunE:  runUpdateCharacter,
}

func init() {
	updateCharacterCmd.Flags().StringVar(&updateCharacterID, "character-id", "", "Character ID (required)")
	updateCharacterCmd.Flags().StringVar(&updateName, "name", "", "New character name")
	updateCharacterCmd.Flags().StringVar(&updateDataFile, "data-file", "", "Path to a replacement JSON payload")
	_ = updateCharacterCmd.MarkFlagRequired("character-id") // nolint:errcheck // safe to ignore in init
}

func runUpdateCharacter(cmd *cobra.Command, _ []string) error {
	input := &remote.UpdateInput{
		RoomID:      roomID,
		CharacterID: updateCharacterID,
	}
	if cmd.Flags().Changed("name") {
		input.Name = &updateName
	}
	data, err := readPayload(updateDataFile)
	if err != nil {
		return err
	}
	input.Data = data

	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.UpdateCharacter(context.Background(), input)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	fmt.Printf("✅ Character updated!\n\n")
	printRecord(resp.Character)

	return nil
}
