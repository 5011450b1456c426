package spectate

import (
	"encoding/json"

	"github.com/lox/snake/internal/runner"
)

// MessageType identifies what a message carries.
type MessageType string

const (
	MessageTypeGameStart MessageType = "game_start"
	MessageTypeFrame     MessageType = "frame"
	MessageTypeGameOver  MessageType = "game_over"
)

// Message is the envelope sent to spectators.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// GameStartData announces a new game.
type GameStartData struct {
	Game     int    `json:"game"`
	ID       string `json:"id"`
	Seed     int64  `json:"seed"`
	Strategy string `json:"strategy"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// GameOverData summarises a finished game.
type GameOverData struct {
	Game   int    `json:"game"`
	ID     string `json:"id"`
	Length int    `json:"length"`
	Steps  int    `json:"steps"`
	Cause  string `json:"cause"`
}

// NewMessage wraps data in an envelope.
func NewMessage(t MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: t, Data: raw}, nil
}

// FrameMessage wraps a frame.
func FrameMessage(f runner.Frame) (*Message, error) {
	return NewMessage(MessageTypeFrame, f)
}
