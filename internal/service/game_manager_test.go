package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/hotseat-chess/internal/model"
)

type recordingSub struct {
	mu   sync.Mutex
	msgs []interface{}
	fail bool
}

func (r *recordingSub) WriteJSON(v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("closed")
	}
	r.msgs = append(r.msgs, v)
	return nil
}

func (r *recordingSub) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func TestCreateAndGetGame(t *testing.T) {
	gm := NewGameManager(4, time.Hour, nil)
	id, err := gm.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if id == "" {
		t.Fatalf("empty game id")
	}
	game, err := gm.GetGame(id)
	if err != nil || game == nil {
		t.Fatalf("GetGame(%s) = %v, %v", id, game, err)
	}
	if _, err := gm.GetGame("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("GetGame(unknown) err = %v, want ErrGameNotFound", err)
	}
}

func TestCreateGameLimit(t *testing.T) {
	gm := NewGameManager(2, time.Hour, nil)
	for i := 0; i < 2; i++ {
		if _, err := gm.CreateGame(); err != nil {
			t.Fatalf("CreateGame #%d: %v", i, err)
		}
	}
	if _, err := gm.CreateGame(); !errors.Is(err, ErrTooManyGames) {
		t.Fatalf("third CreateGame err = %v, want ErrTooManyGames", err)
	}
}

func TestDuplicateGameID(t *testing.T) {
	gm := NewGameManager(0, time.Hour, nil)
	if err := gm.createGame("fixed"); err != nil {
		t.Fatalf("createGame: %v", err)
	}
	if err := gm.createGame("fixed"); !errors.Is(err, ErrGameExists) {
		t.Fatalf("second createGame err = %v, want ErrGameExists", err)
	}
}

func TestListAndDeleteGames(t *testing.T) {
	gm := NewGameManager(0, time.Hour, nil)
	for _, id := range []string{"c", "a", "b"} {
		if err := gm.createGame(id); err != nil {
			t.Fatalf("createGame(%s): %v", id, err)
		}
	}
	got := gm.ListGames()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("ListGames = %v, want [a b c]", got)
	}

	if err := gm.DeleteGame("b"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if err := gm.DeleteGame("b"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("second DeleteGame err = %v, want ErrGameNotFound", err)
	}
	if got := gm.ListGames(); len(got) != 2 {
		t.Fatalf("ListGames after delete = %v", got)
	}
}

func TestEvictIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	gm := NewGameManager(0, 10*time.Minute, nil)
	gm.now = func() time.Time { return now }

	gm.createGame("old")
	now = now.Add(5 * time.Minute)
	gm.createGame("fresh")

	now = now.Add(6 * time.Minute)
	if n := gm.evictIdle(); n != 1 {
		t.Fatalf("evictIdle evicted %d games, want 1", n)
	}
	if _, err := gm.GetGame("old"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("idle game still present")
	}

	// fresh is 6 minutes idle; the lookup below touches it
	if _, err := gm.GetGame("fresh"); err != nil {
		t.Fatalf("fresh game evicted: %v", err)
	}
	now = now.Add(9 * time.Minute)
	if n := gm.evictIdle(); n != 0 {
		t.Fatalf("touched game evicted")
	}
}

func TestBroadcastDropsFailingSubscriber(t *testing.T) {
	gm := NewGameManager(0, time.Hour, nil)
	gm.createGame("g")

	good, bad := &recordingSub{}, &recordingSub{fail: true}
	if err := gm.Subscribe("g", good); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	gm.Subscribe("g", bad)

	gm.Broadcast("g", "one")
	bad.fail = false
	gm.Broadcast("g", "two")

	if good.count() != 2 {
		t.Fatalf("good subscriber got %d messages, want 2", good.count())
	}
	if bad.count() != 0 {
		t.Fatalf("failed subscriber kept receiving: %d", bad.count())
	}

	gm.Unsubscribe("g", good)
	gm.Broadcast("g", "three")
	if good.count() != 2 {
		t.Fatalf("unsubscribed subscriber still receives")
	}

	if err := gm.Subscribe("missing", good); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("Subscribe(missing) err = %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	gm := NewGameManager(0, time.Nanosecond, nil)
	gm.createGame("g")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gm.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(gm.ListGames()) > 0 {
		select {
		case <-deadline:
			t.Fatalf("idle game never evicted")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestWithGame(t *testing.T) {
	gm := NewGameManager(0, time.Hour, nil)
	gm.createGame("g")

	called := false
	if err := gm.WithGame("g", func(game *model.Game) { called = game != nil }); err != nil || !called {
		t.Fatalf("WithGame = %v, called %v", err, called)
	}
	if err := gm.WithGame("missing", func(*model.Game) { t.Fatalf("fn ran for a missing game") }); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("WithGame(missing) err = %v", err)
	}
}
