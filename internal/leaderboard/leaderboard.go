// Package leaderboard ranks finished games by snake length.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lox/snake/internal/config"
)

var ErrInvalidEntry = errors.New("leaderboard: invalid entry")

// Entry is one ranked game.
type Entry struct {
	ID       string    `json:"id"`
	Player   string    `json:"player"`
	Strategy string    `json:"strategy,omitempty"`
	Length   int       `json:"length"`
	Ticks    int       `json:"ticks"`
	Seed     int64     `json:"seed"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	At       time.Time `json:"at"`
}

func (e Entry) validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	if e.Length < 1 {
		return fmt.Errorf("%w: length %d", ErrInvalidEntry, e.Length)
	}
	if e.Ticks < 0 {
		return fmt.Errorf("%w: ticks %d", ErrInvalidEntry, e.Ticks)
	}
	return nil
}

// Store keeps the best games.
type Store interface {
	// Submit records e, replacing any entry with the same ID.
	Submit(ctx context.Context, e Entry) error
	// Top returns up to n entries, best first.
	Top(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// Open builds the store selected by cfg. The memory backend is rebuilt from
// the replays saved in replayDir, so it outlives the process that wrote them.
func Open(ctx context.Context, cfg config.LeaderboardSettings, replayDir string) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return LoadMemory(replayDir, cfg.Size)
	case "redis":
		r, err := DialRedis(ctx, cfg.RedisAddr, cfg.Key, cfg.Size)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("leaderboard: unknown backend %q", cfg.Backend)
}

// less orders entries: longer first, then fewer ticks, then older ID.
func less(a, b Entry) bool {
	if a.Length != b.Length {
		return a.Length > b.Length
	}
	if a.Ticks != b.Ticks {
		return a.Ticks < b.Ticks
	}
	return a.ID < b.ID
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
}
