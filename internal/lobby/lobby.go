// Package lobby runs one live match behind an actor goroutine. The engine
// itself is single-caller by contract; the lobby loop is that caller, so
// every command is applied serially no matter how many clients are
// connected.
package lobby

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kbowl/knowledge-bowl-backend/internal/match"
)

type CommandType string

const (
	CmdStartMatch    CommandType = "StartMatch"
	CmdSubmitWritten CommandType = "SubmitWritten"
	CmdStartOral     CommandType = "StartOralRounds"
	CmdSimulateBuzz  CommandType = "SimulateBuzz"
	CmdRecordOral    CommandType = "RecordOralResult"
	CmdNextOralRound CommandType = "NextOralRound"
	CmdResetMatch    CommandType = "ResetMatch"
)

// Command is one client-issued match operation. Latencies and response
// times cross the wire in milliseconds.
type Command struct {
	Type            CommandType
	TeamID          string
	Correct         bool
	ResponseTimeMs  int64
	PlayerBuzzed    bool
	PlayerLatencyMs int64
}

type Msg interface{ isLobbyMsg() }

type FromClient struct {
	ClientID string
	Cmd      Command
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

// Snapshot is the versioned state broadcast after every accepted command.
// Summary appears once the match completes. A rejected command produces a
// snapshot with Error set, sent only to the issuing client.
type Snapshot struct {
	Version int            `json:"version"`
	State   match.Snapshot `json:"state"`
	Summary *match.Summary `json:"summary,omitempty"`
	Error   *CommandError  `json:"error,omitempty"`
}

// CommandError tells the issuing client which command was refused and why.
type CommandError struct {
	Command CommandType `json:"command"`
	Reason  string      `json:"reason"`
}

type View struct {
	Version    int
	NumClients int
	State      match.Snapshot
}

type Lobby struct {
	inbox   chan Msg
	eng     *match.Engine
	version int
	clients map[string]chan Snapshot
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, eng *match.Engine, log *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64), // Small buffer
		eng:     eng,
		clients: make(map[string]chan Snapshot),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- l.snapshot()
				l.log.Debug("client joined", zap.String("client", msg.ClientID))

			case Leave:
				delete(l.clients, msg.ClientID)

			case FromClient:
				if err := l.apply(msg.Cmd); err != nil {
					// Sequencing mistakes are the client's problem, not a
					// reason to disturb everyone else's state.
					l.log.Warn("command rejected",
						zap.String("client", msg.ClientID),
						zap.String("cmd", string(msg.Cmd.Type)),
						zap.Error(err))
					l.replyError(msg.ClientID, msg.Cmd.Type, err)
					break
				}
				l.version++
				l.broadcast(l.snapshot())

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.eng.Snapshot(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) apply(cmd Command) error {
	switch cmd.Type {
	case CmdStartMatch:
		return l.eng.Start()
	case CmdSubmitWritten:
		return l.eng.SubmitWrittenAnswer(cmd.Correct, msToDuration(cmd.ResponseTimeMs))
	case CmdStartOral:
		return l.eng.StartOralRounds()
	case CmdSimulateBuzz:
		_, _, err := l.eng.SimulateBuzz(msToDuration(cmd.PlayerLatencyMs), cmd.PlayerBuzzed)
		return err
	case CmdRecordOral:
		return l.eng.RecordOralResult(cmd.TeamID, cmd.Correct, msToDuration(cmd.ResponseTimeMs))
	case CmdNextOralRound:
		return l.eng.StartNextOralRound()
	case CmdResetMatch:
		l.eng.Reset()
		return nil
	default:
		return errUnsupportedCommand
	}
}

func (l *Lobby) snapshot() Snapshot {
	snap := Snapshot{
		Version: l.version,
		State:   l.eng.Snapshot(),
	}
	if snap.State.Phase.Kind == match.KindCompleted {
		s := l.eng.Summary()
		snap.Summary = &s
	}
	return snap
}

// replyError sends the current state plus the rejection reason to the one
// client whose command failed. Nothing is broadcast and the version does
// not advance.
func (l *Lobby) replyError(clientID string, cmd CommandType, err error) {
	ch, ok := l.clients[clientID]
	if !ok {
		return
	}
	snap := l.snapshot()
	snap.Error = &CommandError{Command: cmd, Reason: err.Error()}
	select {
	case ch <- snap:
	default:
		close(ch)
		delete(l.clients, clientID)
		l.log.Warn("dropped slow client", zap.String("client", clientID))
	}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(l.clients, id)
			l.log.Warn("dropped slow client", zap.String("client", id))
		}
	}
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }
