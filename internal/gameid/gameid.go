// Package gameid generates sortable identifiers for game sessions. IDs are
// UUIDv7 values rendered as 26 lowercase Crockford base32 characters, so they
// sort by creation time and are safe to use as file names and redis members.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Crockford's base32, lowercase.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID.
const Length = 26

// RandSource interface for dependency injection of randomness
type RandSource interface {
	Intn(n int) int
}

// Generator builds IDs from a clock and a random source.
type Generator struct {
	rand RandSource
	now  func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandSource replaces crypto/rand with a deterministic source.
func WithRandSource(r RandSource) Option {
	return func(g *Generator) { g.rand = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a generator. Without options it uses time.Now and crypto/rand.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a new ID using the default generator.
func Generate() string {
	return NewGenerator().Generate()
}

// Generate returns a new ID.
func (g *Generator) Generate() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var id [16]byte

	ms := g.now().UnixMilli()
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if g.rand != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rand.Intn(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("gameid: reading random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant

	return id
}

// encode renders 128 bits as 26 base32 characters, left-padding with two zero
// bits so the first character is always 0-7.
func encode(id [16]byte) string {
	bit := func(n int) byte {
		if n < 2 {
			return 0
		}
		n -= 2
		return (id[n/8] >> (7 - n%8)) & 1
	}

	var sb strings.Builder
	sb.Grow(Length)
	for i := 0; i < Length; i++ {
		var v byte
		for j := 0; j < 5; j++ {
			v = v<<1 | bit(i*5+j)
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// Validate checks that id has the shape produced by Generate.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
