package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kbowl/knowledge-bowl-backend/internal/hub"
	"github.com/kbowl/knowledge-bowl-backend/internal/lobby"
	"github.com/kbowl/knowledge-bowl-backend/pkg/types"
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan lobby.Snapshot, 8)
		clientID := uuid.NewString()

		lb.Inbox() <- lobby.Join{ClientID: clientID, Outbox: out}
		defer func() { lb.Inbox() <- lobby.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				s := snap
				msg := types.ServerMessage{Type: "StateSnapshot", Snapshot: &s}
				if s.Error != nil {
					msg.Type = "Error"
					msg.Error = s.Error.Reason
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (lobby.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			cmd, ok := toLobbyCommand(cm)
			if !ok {
				log.Debug("unknown client message", zap.String("type", cm.Type))
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			lb.Inbox() <- lobby.FromClient{ClientID: clientID, Cmd: cmd}
		}
	}
}

func toLobbyCommand(m types.ClientMessage) (lobby.Command, bool) {
	switch lobby.CommandType(m.Type) {
	case lobby.CmdStartMatch, lobby.CmdSubmitWritten, lobby.CmdStartOral,
		lobby.CmdSimulateBuzz, lobby.CmdRecordOral, lobby.CmdNextOralRound,
		lobby.CmdResetMatch:
		return lobby.Command{
			Type:            lobby.CommandType(m.Type),
			TeamID:          m.TeamID,
			Correct:         m.Correct,
			ResponseTimeMs:  m.ResponseTimeMs,
			PlayerBuzzed:    m.PlayerBuzzed,
			PlayerLatencyMs: m.PlayerLatencyMs,
		}, true
	default:
		return lobby.Command{}, false
	}
}
