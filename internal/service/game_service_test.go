package service

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/hotseat-chess/internal/model"
	"github.com/benbeisheim/hotseat-chess/internal/ws"
)

func newTestService(t *testing.T) (*GameService, string) {
	t.Helper()
	gs := NewGameService(NewGameManager(4, time.Hour, nil), nil)
	id, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	return gs, id
}

func mv(from, to string) model.MoveRequest {
	pos := func(s string) model.Position {
		return model.Position{Row: 8 - int(s[1]-'0'), Col: int(s[0] - 'a')}
	}
	return model.MoveRequest{From: pos(from), To: pos(to)}
}

func lastMessage(t *testing.T, sub *recordingSub) ws.Message {
	t.Helper()
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if len(sub.msgs) == 0 {
		t.Fatalf("subscriber received nothing")
	}
	msg, ok := sub.msgs[len(sub.msgs)-1].(ws.Message)
	if !ok {
		t.Fatalf("unexpected message %T", sub.msgs[len(sub.msgs)-1])
	}
	return msg
}

func TestHandleMoveBroadcastsCommittedMoves(t *testing.T) {
	gs, id := newTestService(t)
	sub := &recordingSub{}
	if err := gs.RegisterConnection(id, sub); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if sub.count() != 1 || lastMessage(t, sub).Type != ws.MessageTypeGameState {
		t.Fatalf("new connection should get the current state first")
	}

	out, err := gs.HandleMove(id, mv("e2", "e4"))
	if err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	if out.Result != model.ResultPlaying || out.Err != nil {
		t.Fatalf("e2e4 outcome = %+v", out)
	}
	if out.State.ToMove != model.Black {
		t.Fatalf("ToMove = %s after white's move", out.State.ToMove)
	}
	if sub.count() != 2 {
		t.Fatalf("committed move was not broadcast")
	}

	out, err = gs.HandleMove(id, mv("e4", "e5"))
	if err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	if out.Result != model.ResultRejected || !errors.Is(out.Err, model.ErrNotYourTurn) {
		t.Fatalf("moving white out of turn outcome = %+v", out)
	}
	if sub.count() != 2 {
		t.Fatalf("rejected move was broadcast")
	}

	gs.UnregisterConnection(id, sub)
	gs.HandleMove(id, mv("e7", "e5"))
	if sub.count() != 2 {
		t.Fatalf("unregistered connection still receives")
	}
}

func TestHandleMoveUnknownGame(t *testing.T) {
	gs, _ := newTestService(t)
	if _, err := gs.HandleMove("missing", mv("e2", "e4")); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}

func TestUndoAndReset(t *testing.T) {
	gs, id := newTestService(t)

	if _, ok, err := gs.Undo(id); err != nil || ok {
		t.Fatalf("Undo on fresh game = ok %v, err %v", ok, err)
	}

	gs.HandleMove(id, mv("e2", "e4"))
	gs.HandleMove(id, mv("e7", "e5"))

	state, ok, err := gs.Undo(id)
	if err != nil || !ok {
		t.Fatalf("Undo = ok %v, err %v", ok, err)
	}
	if state.ToMove != model.Black || !state.CanUndo {
		t.Fatalf("after undo: toMove %s canUndo %v", state.ToMove, state.CanUndo)
	}

	state, err = gs.Reset(id)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if state.ToMove != model.White || state.CanUndo || state.LastMove != nil {
		t.Fatalf("reset did not restore the start: %+v", state)
	}
}

func TestLegalMovesThroughService(t *testing.T) {
	gs, id := newTestService(t)

	moves, err := gs.LegalMoves(id, model.Position{Row: 7, Col: 6})
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("g1 knight has %d moves, want 2", len(moves))
	}

	all, err := gs.AllLegalMoves(id)
	if err != nil {
		t.Fatalf("AllLegalMoves: %v", err)
	}
	total := 0
	for _, pm := range all {
		total += len(pm.Moves)
	}
	if total != 20 {
		t.Fatalf("starting position has %d moves, want 20", total)
	}

	if _, err := gs.AllLegalMoves("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("AllLegalMoves(missing) err = %v", err)
	}
}

func TestConcurrentMovesReportTheirOwnState(t *testing.T) {
	gs, id := newTestService(t)
	sub := &recordingSub{}
	if err := gs.RegisterConnection(id, sub); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 256)
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				all, err := gs.AllLegalMoves(id)
				if err != nil || len(all) == 0 {
					return
				}
				pm := all[i%len(all)]
				move := model.MoveRequest{From: pm.From, To: pm.Moves[0]}
				out, err := gs.HandleMove(id, move)
				if err != nil {
					errs <- err.Error()
					return
				}
				if !out.Result.Accepted() {
					continue
				}
				last := out.State.LastMove
				if last == nil || last.From != move.From || last.To != move.To {
					errs <- "outcome state does not show its own move"
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}

	final, err := gs.GetGameState(id)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	want, _ := json.Marshal(final)
	if got := lastMessage(t, sub).Payload; string(got) != string(want) {
		t.Fatalf("last broadcast is stale\n got: %s\nwant: %s", got, want)
	}
}
