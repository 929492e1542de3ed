// Package hub is the actor registry of live match lobbies, keyed by join
// code. It owns the shared question pool and builds a fresh engine per
// lobby from the requested match configuration.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/kbowl/knowledge-bowl-backend/internal/lobby"
	"github.com/kbowl/knowledge-bowl-backend/internal/match"
	"github.com/kbowl/knowledge-bowl-backend/internal/question"
)

type HubMsg interface{ isHubMsg() }

// CreateResult is the reply to CreateLobby: the lobby, or the engine
// setup error when the requested config can't produce a match.
type CreateResult struct {
	Lobby *lobby.Lobby
	Err   error
}

type CreateLobby struct {
	Code       string
	Config     match.Config
	PlayerTeam string
	Reply      chan CreateResult
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type RemoveLobby struct {
	Code string
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	pool    []question.Question
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, pool []question.Question, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		pool:    pool,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					msg.Reply <- CreateResult{Lobby: lb}
					break
				}
				eng := match.New()
				if err := eng.Setup(msg.Config, h.pool, msg.PlayerTeam); err != nil {
					h.log.Warn("lobby setup failed",
						zap.String("code", msg.Code), zap.Error(err))
					msg.Reply <- CreateResult{Err: err}
					break
				}
				lb := lobby.NewLobby(h.ctx, eng, h.log.With(zap.String("lobby", msg.Code)))
				h.lobbies[msg.Code] = lb
				h.log.Info("lobby created",
					zap.String("code", msg.Code),
					zap.String("region", string(msg.Config.Region)),
					zap.String("format", string(msg.Config.Format)))
				msg.Reply <- CreateResult{Lobby: lb}

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case RemoveLobby:
				delete(h.lobbies, msg.Code)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		lb.Inbox() <- lobby.Shutdown{}
	}
	clear(h.lobbies)
	h.cancel()
}
