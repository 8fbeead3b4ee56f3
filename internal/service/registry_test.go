package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/game"
	"go.uber.org/zap"
)

func testConfig() game.Config {
	return game.Config{
		Name: "Тестовая игра",
		Formats: []game.FormatConfig{{
			Tag:    game.TagChGK,
			Rounds: []game.RoundConfig{{QuestionCount: 3, TimeLimitSec: 60}},
			Teams:  []game.Team{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		}},
	}
}

func TestRegistryStartTwice(t *testing.T) {
	r := NewRegistry(time.Hour, zap.NewNop())
	defer r.Shutdown()

	sess, err := r.Start("g1", testConfig())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sess.AcceptAnswer(game.RoleAdmin, "a", 1, 1, 5); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Start("g1", testConfig()); !errors.Is(err, errs.ErrAlreadyStarted) {
		t.Errorf("second start: got %v, want ErrAlreadyStarted", err)
	}

	// The first session's state is untouched by the losing start.
	got, err := r.Get("g1")
	if err != nil {
		t.Fatal(err)
	}
	if got != sess {
		t.Error("registry swapped the session on a losing start")
	}
	if total := got.TotalScoreForAllTeams()["a"]; total != 5 {
		t.Errorf("score after losing start = %d, want 5", total)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(time.Hour, zap.NewNop())
	if _, err := r.Get("missing"); !errors.Is(err, errs.ErrGameNotStarted) {
		t.Errorf("got %v, want ErrGameNotStarted", err)
	}
}

func TestRegistryExpireIdempotent(t *testing.T) {
	r := NewRegistry(time.Hour, zap.NewNop())
	var mu sync.Mutex
	removed := 0
	r.OnRemove(func(id string) {
		mu.Lock()
		removed++
		mu.Unlock()
	})

	if _, err := r.Start("g1", testConfig()); err != nil {
		t.Fatal(err)
	}
	r.Expire("g1")
	r.Expire("g1")

	if _, err := r.Get("g1"); !errors.Is(err, errs.ErrGameNotStarted) {
		t.Errorf("after expire: got %v, want ErrGameNotStarted", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if removed != 1 {
		t.Errorf("remove callback fired %d times, want 1", removed)
	}
}

func TestRegistryTTLExpiry(t *testing.T) {
	r := NewRegistry(20*time.Millisecond, zap.NewNop())
	done := make(chan string, 1)
	r.OnRemove(func(id string) { done <- id })

	sess, err := r.Start("g1", testConfig())
	if err != nil {
		t.Fatal(err)
	}

	select {
	case id := <-done:
		if id != "g1" {
			t.Errorf("expired id = %s", id)
		}
	case <-time.After(time.Second):
		t.Fatal("TTL expiry never fired")
	}
	if _, err := r.Get("g1"); !errors.Is(err, errs.ErrGameNotStarted) {
		t.Errorf("after TTL: got %v, want ErrGameNotStarted", err)
	}
	if _, ph := sess.Cursor(); ph != game.PhaseClosed {
		t.Errorf("expired session phase = %s, want closed", ph)
	}
}

func TestRegistryShutdown(t *testing.T) {
	r := NewRegistry(time.Hour, zap.NewNop())
	for _, id := range []string{"g1", "g2", "g3"} {
		if _, err := r.Start(id, testConfig()); err != nil {
			t.Fatal(err)
		}
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	r.Shutdown()
	if r.Len() != 0 {
		t.Errorf("Len after shutdown = %d, want 0", r.Len())
	}
}
