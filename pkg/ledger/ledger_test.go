package ledger

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dkorenev/betmate/pkg/sportsdata"
	"github.com/dkorenev/betmate/pkg/storage"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func draft(matchID string, outcome Outcome, label string) Draft {
	return Draft{
		MatchID:   matchID,
		HomeTeam:  Team{Name: "Arsenal", Logo: "https://media.example/61.png"},
		AwayTeam:  Team{Name: "Chelsea"},
		League:    "Premier League",
		MatchDate: time.Date(2026, 8, 29, 19, 0, 0, 0, time.UTC),
		Predicted: PredictedOutcome{
			Outcome: outcome, Label: label,
			Confidence: 72, HomePct: 55, DrawPct: 24, AwayPct: 21,
		},
	}
}

func TestAddAssignsIdentityNewestFirst(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	l := New(storage.NewMemStore(), WithClock(fixedClock(now)))

	first := l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))
	second := l.Add(draft("M2", OutcomeDraw, "Draw"))

	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("ids not unique: %q vs %q", first.ID, second.ID)
	}
	if !first.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", first.CreatedAt, now)
	}
	if first.Result != nil {
		t.Error("new prediction should be pending")
	}

	all := l.List(FilterAll)
	if len(all) != 2 || all[0].MatchID != "M2" || all[1].MatchID != "M1" {
		t.Errorf("List order wrong: %+v", all)
	}
}

func TestStatsAfterAdd(t *testing.T) {
	l := New(storage.NewMemStore())
	l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))

	got := l.Stats()
	want := Stats{Total: 1, Pending: 1}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestApplyResultFirstWins(t *testing.T) {
	l := New(storage.NewMemStore())
	p := l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))

	result := Match(p, sportsdata.Score{Status: sportsdata.StatusFullTime, HomeGoals: 2, AwayGoals: 0})
	if !l.ApplyResult(p.ID, result) {
		t.Fatal("first ApplyResult should transition the prediction")
	}

	statsAfterFirst := l.Stats()

	// Second apply with a contradictory result is a no-op.
	if l.ApplyResult(p.ID, MatchResult{HomeGoals: 0, AwayGoals: 5, Actual: OutcomeAwayWin}) {
		t.Error("second ApplyResult should be a no-op")
	}
	stored, _ := l.Get(p.ID)
	if stored.Result.HomeGoals != 2 || stored.Result.Actual != OutcomeHomeWin {
		t.Errorf("result was overwritten: %+v", stored.Result)
	}
	if l.Stats() != statsAfterFirst {
		t.Errorf("stats changed on no-op apply: %+v vs %+v", l.Stats(), statsAfterFirst)
	}

	if l.ApplyResult("no-such-id", result) {
		t.Error("ApplyResult for unknown id should be a no-op")
	}
}

func TestStatsConsistency(t *testing.T) {
	l := New(storage.NewMemStore())

	correct := l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))
	alsoCorrect := l.Add(draft("M2", OutcomeDraw, "Draw"))
	wrong := l.Add(draft("M3", OutcomeAwayWin, "Chelsea"))
	l.Add(draft("M4", OutcomeHomeWin, "Arsenal")) // stays pending

	l.ApplyResult(correct.ID, MatchResult{HomeGoals: 2, AwayGoals: 0, Actual: OutcomeHomeWin, Correct: true})
	l.ApplyResult(alsoCorrect.ID, MatchResult{HomeGoals: 1, AwayGoals: 1, Actual: OutcomeDraw, Correct: true})
	l.ApplyResult(wrong.ID, MatchResult{HomeGoals: 3, AwayGoals: 1, Actual: OutcomeHomeWin, Correct: false})

	s := l.Stats()
	if s.Total != s.Correct+s.Wrong+s.Pending {
		t.Errorf("total %d != correct %d + wrong %d + pending %d", s.Total, s.Correct, s.Wrong, s.Pending)
	}
	if s.Verified != 3 || s.Correct != 2 || s.Wrong != 1 || s.Pending != 1 {
		t.Errorf("Stats() = %+v", s)
	}
	// round(100 * 2/3)
	if s.Accuracy != 67 {
		t.Errorf("Accuracy = %d, want 67", s.Accuracy)
	}
}

func TestFilterPartition(t *testing.T) {
	l := New(storage.NewMemStore())

	a := l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))
	b := l.Add(draft("M2", OutcomeDraw, "Draw"))
	l.Add(draft("M3", OutcomeAwayWin, "Chelsea"))

	l.ApplyResult(a.ID, MatchResult{Actual: OutcomeHomeWin, Correct: true})
	l.ApplyResult(b.ID, MatchResult{Actual: OutcomeHomeWin, Correct: false})

	seen := make(map[string]int)
	for _, f := range []Filter{FilterCorrect, FilterWrong, FilterPending} {
		for _, p := range l.List(f) {
			seen[p.ID]++
		}
	}

	all := l.List(FilterAll)
	if len(seen) != len(all) {
		t.Errorf("partition covers %d ids, want %d", len(seen), len(all))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %s appears in %d filter views", id, n)
		}
	}
}

func TestRemove(t *testing.T) {
	l := New(storage.NewMemStore())
	p := l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))

	l.Remove(p.ID)
	if got := l.Stats().Total; got != 0 {
		t.Errorf("Total after Remove = %d, want 0", got)
	}

	l.Remove("no-such-id") // must not panic or error
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := storage.NewMemStore()

	l := New(store)
	p := l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))
	l.ApplyResult(p.ID, MatchResult{HomeGoals: 2, AwayGoals: 0, Actual: OutcomeHomeWin, Correct: true})

	reopened := New(store)
	all := reopened.List(FilterAll)
	if len(all) != 1 {
		t.Fatalf("reopened ledger has %d entries, want 1", len(all))
	}
	if all[0].ID != p.ID || all[0].Result == nil || !all[0].Result.Correct {
		t.Errorf("reopened entry = %+v", all[0])
	}
}

func TestCorruptStateStartsEmpty(t *testing.T) {
	store := storage.NewMemStore()
	if err := store.Save(StorageKey, "not a prediction list"); err != nil {
		t.Fatal(err)
	}

	l := New(store)
	if got := l.Stats().Total; got != 0 {
		t.Errorf("ledger loaded %d entries from corrupt state, want 0", got)
	}
}

func TestOutcomeDerivedFromLabel(t *testing.T) {
	l := New(storage.NewMemStore())

	d := draft("M1", "", "Chelsea")
	p := l.Add(d)
	if p.Predicted.Outcome != OutcomeAwayWin {
		t.Errorf("derived outcome = %s, want away_win", p.Predicted.Outcome)
	}
}

type failStore struct{}

func (failStore) Save(string, any) error         { return errors.New("disk full") }
func (failStore) Load(string, any) (bool, error) { return false, nil }
func (failStore) Delete(string) error            { return nil }

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	l := New(failStore{})
	l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))

	if got := l.Stats().Total; got != 1 {
		t.Errorf("Total = %d, want 1 despite save failure", got)
	}
}

func TestReadsReturnDetachedCopies(t *testing.T) {
	l := New(storage.NewMemStore())
	added := l.Add(draft("M1", OutcomeHomeWin, "Arsenal"))

	// Mutating a returned record must not reach the collection.
	added.Predicted.Label = "scribbled"
	listed := l.List(FilterAll)
	if listed[0].Predicted.Label != "Arsenal" {
		t.Errorf("Add handed out a live pointer: label = %q", listed[0].Predicted.Label)
	}

	// A snapshot taken before settlement must not observe it.
	snapshot := l.List(FilterPending)
	l.ApplyResult(added.ID, MatchResult{HomeGoals: 2, Actual: OutcomeHomeWin, Correct: true})
	if snapshot[0].Result != nil {
		t.Error("settlement wrote through a List snapshot")
	}

	got, ok := l.Get(added.ID)
	if !ok || got.Result == nil {
		t.Fatalf("Get after settlement = %+v, %v", got, ok)
	}
	got.Result.Correct = false
	if again, _ := l.Get(added.ID); !again.Result.Correct {
		t.Error("Get handed out a live result pointer")
	}
}

func TestConcurrentListAndSettle(t *testing.T) {
	l := New(storage.NewMemStore())
	ids := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		p := l.Add(draft(fmt.Sprintf("M%d", i), OutcomeHomeWin, "Arsenal"))
		ids = append(ids, p.ID)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			for _, p := range l.List(FilterAll) {
				if p.Result != nil && p.Result.Actual == "" {
					t.Error("half-written result observed")
				}
			}
		}
	}()
	go func() {
		defer wg.Done()
		for _, id := range ids {
			l.ApplyResult(id, MatchResult{HomeGoals: 1, Actual: OutcomeHomeWin, Correct: true})
		}
	}()
	wg.Wait()

	if got := l.Stats().Verified; got != 50 {
		t.Errorf("Verified = %d, want 50", got)
	}
}
