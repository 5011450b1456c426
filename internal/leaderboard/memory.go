package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lox/snake/internal/replay"
)

// Memory is a process-local Store.
type Memory struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// NewMemory keeps at most capacity entries; zero or less keeps everything.
func NewMemory(capacity int) *Memory {
	return &Memory{capacity: capacity}
}

// LoadMemory builds a Memory store from every replay saved in dir. A missing
// dir gives an empty store. Files that are not valid replays are skipped.
func LoadMemory(dir string, capacity int) (*Memory, error) {
	m := NewMemory(capacity)
	if dir == "" {
		return m, nil
	}

	files, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leaderboard: reading replays: %w", err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), replay.Extension) {
			continue
		}
		r, err := replay.Load(filepath.Join(dir, f.Name()))
		if err != nil {
			continue
		}
		// Replays of quit games may predate any result; those are not ranked.
		_ = m.Submit(context.Background(), EntryOf(r))
	}
	return m, nil
}

// EntryOf ranks a replay. Replays without a player are credited to their
// strategy.
func EntryOf(r *replay.Replay) Entry {
	player := r.Player
	if player == "" {
		player = r.Strategy
	}
	if player == "" {
		player = "anonymous"
	}
	return Entry{
		ID:       r.ID,
		Player:   player,
		Strategy: r.Strategy,
		Length:   r.Result.Length,
		Ticks:    r.Result.Ticks,
		Seed:     r.Seed,
		Width:    r.Width,
		Height:   r.Height,
		At:       r.CreatedAt,
	}
}

func (m *Memory) Submit(_ context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ID == e.ID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	m.entries = append(m.entries, e)
	sortEntries(m.entries)
	if m.capacity > 0 && len(m.entries) > m.capacity {
		m.entries = m.entries[:m.capacity]
	}
	return nil
}

func (m *Memory) Top(_ context.Context, n int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 || n > len(m.entries) {
		n = len(m.entries)
	}
	return append([]Entry(nil), m.entries[:n]...), nil
}

func (m *Memory) Close() error { return nil }
