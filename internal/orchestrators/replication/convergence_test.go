package replication_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	apiv1alpha1 "github.com/Zevankai/Equipment-Tool/internal/api/v1alpha1"
	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	handlerv1alpha1 "github.com/Zevankai/Equipment-Tool/internal/handlers/api/v1alpha1"
	characterorch "github.com/Zevankai/Equipment-Tool/internal/orchestrators/character"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/inventory"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/replication"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/idgen"
	characterrepo "github.com/Zevankai/Equipment-Tool/internal/repositories/character"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot"
	"github.com/Zevankai/Equipment-Tool/internal/testutils"
)

type device struct {
	inventory   inventory.Service
	replication replication.Service
}

func startServer(t *testing.T) grpc.ClientConnInterface {
	t.Helper()

	repo := characterrepo.NewInMemory(testutils.NewStepClock(testutils.TestEpoch.Add(time.Hour), time.Second))
	eng, err := engine.New(&engine.Config{Repository: repo})
	require.NoError(t, err)
	orch, err := characterorch.New(&characterorch.Config{CharacterRepo: repo, Engine: eng})
	require.NoError(t, err)
	handler, err := handlerv1alpha1.NewCharacterHandler(&handlerv1alpha1.CharacterHandlerConfig{CharacterService: orch})
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	apiv1alpha1.RegisterCharacterServiceServer(srv, handler)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func newDevice(
	t *testing.T,
	ctx context.Context,
	conn grpc.ClientConnInterface,
	name string,
	policy replication.ConflictPolicy,
) device {
	t.Helper()

	repo, err := snapshot.OpenSQLite(ctx, &snapshot.SQLiteConfig{Path: filepath.Join(t.TempDir(), name+".db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	inv, err := inventory.NewOrchestrator(&inventory.Config{
		SnapshotRepo: repo,
		ItemIDs:      idgen.NewSequential(name + "-item"),
		CharacterIDs: idgen.NewSequential(name + "-char"),
		Clock:        testutils.NewStepClock(testutils.TestEpoch, time.Second),
	})
	require.NoError(t, err)

	client, _, err := remote.New(&remote.Config{Conn: conn})
	require.NoError(t, err)
	rep, err := replication.NewOrchestrator(&replication.Config{SnapshotRepo: repo, Remote: client, Policy: policy})
	require.NoError(t, err)

	return device{inventory: inv, replication: rep}
}

// TestTwoDevicesConverge edits one character from two caches and syncs both
func TestTwoDevicesConverge(t *testing.T) {
	ctx := context.Background()
	conn := startServer(t)
	laptop := newDevice(t, ctx, conn, "laptop", replication.PreferServer)
	tablet := newDevice(t, ctx, conn, "tablet", replication.PreferServer)
	room := testutils.TestRoomID

	created, err := laptop.inventory.CreateCharacter(ctx, &inventory.CreateCharacterInput{
		RoomID: room,
		Name:   testutils.TestCharacterName,
	})
	require.NoError(t, err)
	ref := inventory.CharacterRef{RoomID: room, CharacterID: created.Snapshot.CharacterID}

	_, err = laptop.inventory.AddItem(ctx, &inventory.AddItemInput{
		CharacterRef: ref,
		Fields:       equipment.ItemFields{Name: "Rope", Type: equipment.TypeTool},
	})
	require.NoError(t, err)

	pushed, err := laptop.replication.Push(ctx, &replication.PushInput{RoomID: room})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.CharacterID}, pushed.Result.Created)

	pulled, err := tablet.replication.Pull(ctx, &replication.PullInput{RoomID: room})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.CharacterID}, pulled.Added)

	_, err = tablet.inventory.AddItem(ctx, &inventory.AddItemInput{
		CharacterRef: ref,
		Fields:       equipment.ItemFields{Name: "Lantern", Type: equipment.TypeLight},
	})
	require.NoError(t, err)

	pushed, err = tablet.replication.Push(ctx, &replication.PushInput{RoomID: room})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.CharacterID}, pushed.Result.Updated)

	// The laptop copy is now older than the server, so its push conflicts
	// and the default policy takes the server version.
	pushed, err = laptop.replication.Push(ctx, &replication.PushInput{RoomID: room})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.CharacterID}, pushed.Result.ConflictIDs())
	assert.Equal(t, []string{ref.CharacterID}, pushed.Adopted)

	got, err := laptop.inventory.GetCharacter(ctx, &inventory.GetCharacterInput{CharacterRef: ref})
	require.NoError(t, err)
	assert.Len(t, got.Snapshot.Items(), 2)
	assert.False(t, got.Pending)

	pushed, err = laptop.replication.Push(ctx, &replication.PushInput{RoomID: room})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.CharacterID}, pushed.Result.Synced)
}

func createAndPush(t *testing.T, ctx context.Context, d device, room string) inventory.CharacterRef {
	t.Helper()
	created, err := d.inventory.CreateCharacter(ctx, &inventory.CreateCharacterInput{
		RoomID: room,
		Name:   testutils.TestCharacterName,
	})
	require.NoError(t, err)
	ref := inventory.CharacterRef{RoomID: room, CharacterID: created.Snapshot.CharacterID}

	_, err = d.inventory.AddItem(ctx, &inventory.AddItemInput{
		CharacterRef: ref,
		Fields:       equipment.ItemFields{Name: "Rope", Type: equipment.TypeTool},
	})
	require.NoError(t, err)

	_, err = d.replication.Push(ctx, &replication.PushInput{RoomID: room})
	require.NoError(t, err)
	return ref
}

// TestDeletedCharacterStaysDeleted removes a synced character locally and
// checks that neither a pull nor a push brings it back on any device
func TestDeletedCharacterStaysDeleted(t *testing.T) {
	ctx := context.Background()
	conn := startServer(t)
	laptop := newDevice(t, ctx, conn, "laptop", replication.PreferServer)
	tablet := newDevice(t, ctx, conn, "tablet", replication.PreferServer)
	room := testutils.TestRoomID

	ref := createAndPush(t, ctx, laptop, room)
	_, err := tablet.replication.Pull(ctx, &replication.PullInput{RoomID: room})
	require.NoError(t, err)

	_, err = laptop.inventory.DeleteCharacter(ctx, &inventory.DeleteCharacterInput{CharacterRef: ref})
	require.NoError(t, err)

	pulled, err := laptop.replication.Pull(ctx, &replication.PullInput{RoomID: room})
	require.NoError(t, err)
	assert.Empty(t, pulled.Added)
	assert.Equal(t, []string{ref.CharacterID}, pulled.Deleting)
	_, err = laptop.inventory.GetCharacter(ctx, &inventory.GetCharacterInput{CharacterRef: ref})
	assert.True(t, errors.IsNotFound(err))

	pushed, err := laptop.replication.Push(ctx, &replication.PushInput{RoomID: room})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.CharacterID}, pushed.Deleted)
	assert.Empty(t, pushed.Added)

	pulled, err = laptop.replication.Pull(ctx, &replication.PullInput{RoomID: room})
	require.NoError(t, err)
	assert.Empty(t, pulled.Added)
	_, err = laptop.inventory.GetCharacter(ctx, &inventory.GetCharacterInput{CharacterRef: ref})
	assert.True(t, errors.IsNotFound(err))

	// The tablet last saw the character synced and never edited it, so its
	// push drops the copy rather than sending it back.
	tabletPush, err := tablet.replication.Push(ctx, &replication.PushInput{RoomID: room})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.CharacterID}, tabletPush.Removed)
	assert.Empty(t, tabletPush.Result.Created)
	_, err = tablet.inventory.GetCharacter(ctx, &inventory.GetCharacterInput{CharacterRef: ref})
	assert.True(t, errors.IsNotFound(err))

	pulled, err = laptop.replication.Pull(ctx, &replication.PullInput{RoomID: room})
	require.NoError(t, err)
	assert.Empty(t, pulled.Added)
	status, err := tablet.replication.Status(ctx, &replication.StatusInput{RoomID: room})
	require.NoError(t, err)
	assert.Empty(t, status.Synced)
	assert.Empty(t, status.Pending)
	assert.Empty(t, status.Deleting)
}

// TestOfflineEditSurvivesPullUnderKeepLocal edits a character on a device
// that is behind the server and checks the pull reports instead of overwriting
func TestOfflineEditSurvivesPullUnderKeepLocal(t *testing.T) {
	ctx := context.Background()
	conn := startServer(t)
	laptop := newDevice(t, ctx, conn, "laptop", replication.PreferServer)
	tablet := newDevice(t, ctx, conn, "tablet", replication.KeepLocal)
	room := testutils.TestRoomID

	ref := createAndPush(t, ctx, laptop, room)
	_, err := tablet.replication.Pull(ctx, &replication.PullInput{RoomID: room})
	require.NoError(t, err)

	_, err = tablet.inventory.AddItem(ctx, &inventory.AddItemInput{
		CharacterRef: ref,
		Fields:       equipment.ItemFields{Name: "TabletSword", Type: equipment.TypeWeapon},
	})
	require.NoError(t, err)

	_, err = laptop.inventory.AddItem(ctx, &inventory.AddItemInput{
		CharacterRef: ref,
		Fields:       equipment.ItemFields{Name: "Lantern", Type: equipment.TypeLight},
	})
	require.NoError(t, err)
	_, err = laptop.replication.Push(ctx, &replication.PushInput{RoomID: room})
	require.NoError(t, err)

	pulled, err := tablet.replication.Pull(ctx, &replication.PullInput{RoomID: room})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.CharacterID}, pulled.Conflicts)
	assert.Equal(t, []string{ref.CharacterID}, pulled.Kept)
	assert.Empty(t, pulled.Replaced)

	got, err := tablet.inventory.GetCharacter(ctx, &inventory.GetCharacterInput{CharacterRef: ref})
	require.NoError(t, err)
	assert.True(t, got.Pending)
	names := []string{}
	for _, item := range got.Snapshot.Items() {
		names = append(names, item.Name)
	}
	assert.ElementsMatch(t, []string{"Rope", "TabletSword"}, names)
}
