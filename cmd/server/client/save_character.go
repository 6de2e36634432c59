package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
)

var (
	saveCharacterID string
	saveName        string
	saveDataFile    string
)

var saveCharacterCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or replace a character record",
	Long:  `Save a character record. The payload is read from --data-file, or defaults to an empty object.`,
	RunE:  runSaveCharacter,
}

func init() {
	saveCharacterCmd.Flags().StringVar(&saveCharacterID, "character-id", "", "Character ID (required)")
	saveCharacterCmd.Flags().StringVar(&saveName, "name", "", "Character name")
	saveCharacterCmd.Flags().StringVar(&saveDataFile, "data-file", "", "Path to a JSON payload")
	_ = saveCharacterCmd.MarkFlagRequired("character-id") // nolint:errcheck // safe to ignore in init
}

func runSaveCharacter(_ *cobra.Command, _ []string) error {
	data, err := readPayload(saveDataFile)
	if err != nil {
		return err
	}

	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.SaveCharacter(context.Background(), &remote.SaveInput{
		RoomID:      roomID,
		CharacterID: saveCharacterID,
		Name:        saveName,
		Data:        data,
	})
	if err != nil {
		return fmt.Errorf("failed to save character: %w", err)
	}

	if resp.Created {
		fmt.Printf("✅ Character created!\n\n")
	} else {
		fmt.Printf("✅ Character replaced!\n\n")
	}
	printRecord(resp.Character)

	return nil
}

func readPayload(path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("payload in %s is not valid JSON", path)
	}
	return raw, nil
}
