package lobby

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kbowl/knowledge-bowl-backend/internal/match"
	"github.com/kbowl/knowledge-bowl-backend/internal/question"
	"github.com/kbowl/knowledge-bowl-backend/internal/rules"
)

// helper: receive one snapshot with a timeout so tests never hang
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvNoSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			// channel closed → that's fine; no further snapshots possible
			return
		}
		t.Fatalf("expected no snapshot within %v, but got: %+v", within, s)
	case <-time.After(within):
		// good: no snapshot
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func testEngine(t *testing.T) *match.Engine {
	t.Helper()
	pool := make([]question.Question, 0, 14)
	for i := 0; i < 14; i++ {
		pool = append(pool, question.Question{
			ID:         fmt.Sprintf("q%d", i),
			Prompt:     fmt.Sprintf("prompt %d", i),
			Answer:     question.Answer{Primary: fmt.Sprintf("answer %d", i), Type: question.TypeText},
			Domain:     "science",
			Difficulty: question.DifficultyMedium,
		})
	}
	e := match.New()
	cfg := match.Config{Region: rules.RegionColorado, Format: rules.FormatScrimmage, Seed: 42}
	if err := e.Setup(cfg, pool, "Us"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return e
}

func TestLobby_StartMatch_BroadcastsSnapshotAndVersionIncrements(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLobby(ctx, testEngine(t), zap.NewNop())

	clientOut := make(chan Snapshot, 2) // small buffer so broadcast doesn’t block
	l.Inbox() <- Join{ClientID: "ch1", Outbox: clientOut}

	// on join, lobby should immediately send the current snapshot
	first := recvSnapshot(t, clientOut, 100*time.Millisecond)
	if first.Version != 0 {
		t.Fatalf("after join: want version=0, got %d", first.Version)
	}
	if first.State.Phase.Kind != match.KindNotStarted {
		t.Fatalf("after join: want not_started, got %s", first.State.Phase)
	}

	l.Inbox() <- FromClient{ClientID: "ch1", Cmd: Command{Type: CmdStartMatch}}

	next := recvSnapshot(t, clientOut, 100*time.Millisecond)
	if next.Version != 1 {
		t.Fatalf("after start: want version=1, got %d", next.Version)
	}
	if next.State.Phase.Kind != match.KindWritten {
		t.Fatalf("after start: want written_round, got %s", next.State.Phase)
	}

	l.Inbox() <- Shutdown{}
}

func TestLobby_RejectedCommandRepliesOnlyToIssuer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLobby(ctx, testEngine(t), zap.NewNop())

	issuer := make(chan Snapshot, 2)
	bystander := make(chan Snapshot, 2)
	l.Inbox() <- Join{ClientID: "ch1", Outbox: issuer}
	l.Inbox() <- Join{ClientID: "ch2", Outbox: bystander}
	_ = recvSnapshot(t, issuer, 100*time.Millisecond)
	_ = recvSnapshot(t, bystander, 100*time.Millisecond)

	// Oral rounds can't start from NotStarted; the issuer learns why, and
	// nobody else hears about it.
	l.Inbox() <- FromClient{ClientID: "ch1", Cmd: Command{Type: CmdStartOral}}

	reply := recvSnapshot(t, issuer, 150*time.Millisecond)
	if reply.Error == nil {
		t.Fatal("issuer should receive an error reply")
	}
	if reply.Error.Command != CmdStartOral || reply.Error.Reason == "" {
		t.Fatalf("error reply = %+v", reply.Error)
	}
	if reply.Version != 0 {
		t.Fatalf("error reply carries version %d, want 0", reply.Version)
	}
	recvNoSnapshot(t, bystander, 150*time.Millisecond)

	view := make(chan View, 1)
	l.Inbox() <- GetState{Reply: view}
	v := recvView(t, view, 100*time.Millisecond)
	if v.Version != 0 {
		t.Fatalf("version should not advance on a rejected command, got %d", v.Version)
	}
}

func TestLobby_WrittenFlowThroughCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLobby(ctx, testEngine(t), zap.NewNop())

	out := make(chan Snapshot, 16)
	l.Inbox() <- Join{ClientID: "ch1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	l.Inbox() <- FromClient{Cmd: Command{Type: CmdStartMatch}}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		l.Inbox() <- FromClient{Cmd: Command{Type: CmdSubmitWritten, Correct: true, ResponseTimeMs: 1500}}
	}

	var last Snapshot
	for i := 0; i < 5; i++ {
		last = recvSnapshot(t, out, 200*time.Millisecond)
	}
	if last.State.WrittenAnswered != 5 || last.State.WrittenTotal != 5 {
		t.Fatalf("written progress = (%d, %d), want (5, 5)",
			last.State.WrittenAnswered, last.State.WrittenTotal)
	}
	if last.Version != 6 {
		t.Fatalf("version = %d, want 6", last.Version)
	}
}

func TestLobby_DropSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLobby(ctx, testEngine(t), zap.NewNop())

	clientOut := make(chan Snapshot, 1)
	l.Inbox() <- Join{ClientID: "ch1", Outbox: clientOut}

	// The join snapshot fills the buffer; the next broadcast must drop the
	// client instead of blocking the loop.
	l.Inbox() <- FromClient{Cmd: Command{Type: CmdStartMatch}}

	reply := make(chan View, 1)
	l.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)

	if view.NumClients != 0 {
		t.Fatalf("expected slow client to be dropped; NumClients=%d", view.NumClients)
	}
}
