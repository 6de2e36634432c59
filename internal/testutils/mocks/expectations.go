// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
	remotemock "github.com/Zevankai/Equipment-Tool/internal/clients/remote/mock"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
	characterrepo "github.com/Zevankai/Equipment-Tool/internal/repositories/character"
	characterrepomock "github.com/Zevankai/Equipment-Tool/internal/repositories/character/mock"
)

// Room collects records into a room keyed by character id
func Room(records ...*entities.CharacterRecord) entities.RoomCharacters {
	room := make(entities.RoomCharacters, len(records))
	for _, rec := range records {
		room[rec.CharacterID] = rec
	}
	return room
}

// ExpectRoomRead sets up a mock expectation for listing a room from the repository
func ExpectRoomRead(
	ctx context.Context, mockRepo *characterrepomock.MockRepository,
	roomID string, records ...*entities.CharacterRecord,
) *gomock.Call {
	return mockRepo.EXPECT().
		ListByRoom(ctx, characterrepo.ListByRoomInput{RoomID: roomID}).
		Return(&characterrepo.ListByRoomOutput{Characters: Room(records...)}, nil)
}

// ExpectUpsertEcho sets up a mock expectation for an upsert that stores the
// input as given, stamped with stamp
func ExpectUpsertEcho(
	ctx context.Context, mockRepo *characterrepomock.MockRepository,
	created bool, stamp time.Time,
) *gomock.Call {
	return mockRepo.EXPECT().
		Upsert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.UpsertInput) (*characterrepo.UpsertOutput, error) {
			// Simulate repository behavior - it stamps the record on write
			return &characterrepo.UpsertOutput{
				Character: &entities.CharacterRecord{
					RoomID:      input.RoomID,
					CharacterID: input.CharacterID,
					Name:        input.Name,
					Data:        input.Data,
					CreatedAt:   stamp,
					UpdatedAt:   stamp,
				},
				Created: created,
			}, nil
		})
}

// ExpectRemoteList sets up a mock expectation for listing a room on the server
func ExpectRemoteList(
	ctx context.Context, mockClient *remotemock.MockClient,
	roomID string, records ...*entities.CharacterRecord,
) *gomock.Call {
	return mockClient.EXPECT().
		ListCharacters(ctx, &remote.ListInput{RoomID: roomID}).
		Return(&remote.ListOutput{Characters: Room(records...)}, nil)
}

// ExpectRemoteUnavailable makes every call to the server fail as unreachable
func ExpectRemoteUnavailable(mockClient *remotemock.MockClient, err error) {
	mockClient.EXPECT().ListCharacters(gomock.Any(), gomock.Any()).Return(nil, err).AnyTimes()
	mockClient.EXPECT().SaveCharacter(gomock.Any(), gomock.Any()).Return(nil, err).AnyTimes()
	mockClient.EXPECT().UpdateCharacter(gomock.Any(), gomock.Any()).Return(nil, err).AnyTimes()
	mockClient.EXPECT().DeleteCharacter(gomock.Any(), gomock.Any()).Return(err).AnyTimes()
	mockClient.EXPECT().SyncCharacters(gomock.Any(), gomock.Any()).Return(nil, err).AnyTimes()
}
