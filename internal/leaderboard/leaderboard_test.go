package leaderboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/snake/internal/config"
	"github.com/lox/snake/internal/replay"
)

func entry(id string, length, ticks int) Entry {
	return Entry{ID: id, Player: "p-" + id, Length: length, Ticks: ticks, Width: 10, Height: 10, At: time.Unix(1_700_000_000, 0).UTC()}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// testStore runs the behaviour every Store must share. capacity must be 3.
func testStore(ctx context.Context, t *testing.T, s Store) {
	t.Helper()

	top, err := s.Top(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, top)

	require.NoError(t, s.Submit(ctx, entry("a", 5, 50)))
	require.NoError(t, s.Submit(ctx, entry("b", 9, 120)))
	require.NoError(t, s.Submit(ctx, entry("c", 5, 40)))
	require.NoError(t, s.Submit(ctx, entry("d", 5, 40)))

	top, err = s.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, ids(top), "capacity drops the worst entry")
	assert.Equal(t, "p-b", top[0].Player)
	assert.True(t, top[0].At.Equal(time.Unix(1_700_000_000, 0)))

	top, err = s.Top(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(top))

	// Resubmitting an ID replaces it.
	require.NoError(t, s.Submit(ctx, entry("d", 12, 200)))
	top, err = s.Top(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "c"}, ids(top))

	assert.ErrorIs(t, s.Submit(ctx, Entry{Length: 3}), ErrInvalidEntry)
	assert.ErrorIs(t, s.Submit(ctx, Entry{ID: "x", Length: 0}), ErrInvalidEntry)
}

func TestMemory(t *testing.T) {
	s := NewMemory(3)
	defer s.Close()
	testStore(context.Background(), t, s)
}

func TestMemoryUnbounded(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(0)
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Submit(ctx, entry(fmt.Sprintf("%02d", i), i%7+1, i)))
	}
	top, err := s.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 50)
	assert.Equal(t, 7, top[0].Length)
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), config.LeaderboardSettings{Backend: "memory", Size: 3}, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(context.Background(), config.LeaderboardSettings{Backend: "etcd"}, "")
	assert.Error(t, err)
}

func savedReplay(t *testing.T, dir, id, player, strategy string, length, ticks int) {
	t.Helper()
	r := &replay.Replay{
		Version:   replay.FormatVersion,
		ID:        id,
		Seed:      int64(length),
		Width:     10,
		Height:    8,
		Strategy:  strategy,
		Player:    player,
		CreatedAt: time.Unix(1_700_000_000, 0).UTC(),
		Result:    replay.Result{Steps: ticks, Ticks: ticks, Length: length},
	}
	_, err := replay.Save(dir, r)
	require.NoError(t, err)
}

func TestLoadMemory(t *testing.T) {
	dir := t.TempDir()
	savedReplay(t, dir, "a", "alice", "", 4, 30)
	savedReplay(t, dir, "b", "", "greedy", 9, 80)
	savedReplay(t, dir, "c", "", "", 9, 60)
	savedReplay(t, dir, "d", "dan", "", 2, 5)
	savedReplay(t, dir, "unranked", "eve", "", 0, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.toml"), []byte("not = [valid"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	m, err := LoadMemory(dir, 3)
	require.NoError(t, err)

	top, err := m.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(top))
	assert.Equal(t, "anonymous", top[0].Player)
	assert.Equal(t, "greedy", top[1].Player)
	assert.Equal(t, "alice", top[2].Player)
	assert.Equal(t, 80, top[1].Ticks)
	assert.Equal(t, 8, top[1].Height)
}

func TestLoadMemoryMissingDir(t *testing.T) {
	m, err := LoadMemory(filepath.Join(t.TempDir(), "absent"), 5)
	require.NoError(t, err)
	top, err := m.Top(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestOpenMemorySeesEarlierGames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := config.LeaderboardSettings{Backend: "memory", Size: 10}

	first, err := Open(ctx, settings, dir)
	require.NoError(t, err)
	savedReplay(t, dir, "g1", "alice", "", 6, 40)
	require.NoError(t, first.Submit(ctx, Entry{ID: "g1", Player: "alice", Length: 6, Ticks: 40}))
	require.NoError(t, first.Close())

	second, err := Open(ctx, settings, dir)
	require.NoError(t, err)
	defer second.Close()

	top, err := second.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "g1", top[0].ID)
	assert.Equal(t, "alice", top[0].Player)
}
