// Package types is the websocket wire contract between match clients and
// the server.
package types

import "github.com/kbowl/knowledge-bowl-backend/internal/lobby"

// ClientMessage is one command from a connected client. Type matches the
// lobby command names (StartMatch, SubmitWritten, StartOralRounds,
// SimulateBuzz, RecordOralResult, NextOralRound, ResetMatch).
type ClientMessage struct {
	Type            string `json:"type"`
	TeamID          string `json:"team_id,omitempty"`
	Correct         bool   `json:"correct,omitempty"`
	ResponseTimeMs  int64  `json:"response_time_ms,omitempty"`
	PlayerBuzzed    bool   `json:"player_buzzed,omitempty"`
	PlayerLatencyMs int64  `json:"player_latency_ms,omitempty"`
}

type ServerMessage struct {
	Type     string          `json:"type"` // "StateSnapshot" | "Error"
	Snapshot *lobby.Snapshot `json:"snapshot,omitempty"`
	Error    string          `json:"error,omitempty"`
}
