package gameid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct{ v int }

func (f fixedRand) Intn(n int) int { return f.v % n }

func TestGenerate(t *testing.T) {
	id := Generate()
	require.Len(t, id, Length)
	assert.NoError(t, Validate(id))
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		assert.False(t, seen[id], "duplicate ID %s", id)
		seen[id] = true
	}
}

func TestGenerateSortsByTime(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	var ids []string
	for i := 0; i < 10; i++ {
		now := base.Add(time.Duration(i) * time.Millisecond)
		g := NewGenerator(WithClock(func() time.Time { return now }), WithRandSource(fixedRand{v: 255 - i}))
		ids = append(ids, g.Generate())
	}
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestGenerateDeterministic(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	opts := []Option{WithClock(func() time.Time { return now }), WithRandSource(fixedRand{v: 7})}

	a := NewGenerator(opts...).Generate()
	b := NewGenerator(opts...).Generate()
	assert.Equal(t, a, b)
	assert.NoError(t, Validate(a))
}

func TestEncodeZero(t *testing.T) {
	assert.Equal(t, "00000000000000000000000000", encode([16]byte{}))

	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, "7zzzzzzzzzzzzzzzzzzzzzzzzz", encode(ones))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "01h455vb4pex5vsknk084sn02q", false},
		{"too short", "01h455vb4pex5vsknk084sn02", true},
		{"too long", "01h455vb4pex5vsknk084sn02qq", true},
		{"first char too large", "81h455vb4pex5vsknk084sn02q", true},
		{"invalid character", "01h455vb4pex5vsknk084sn0iq", true},
		{"uppercase", "01H455VB4PEX5VSKNK084SN02Q", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
