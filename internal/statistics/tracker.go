package statistics

import (
	"cmp"
	"slices"
	"sync"

	"github.com/lox/threesixnine/internal/game"
	"github.com/lox/threesixnine/poker"
)

// Tracker collects Statistics per player from completed hands. It is safe
// for concurrent use by several tables.
type Tracker struct {
	mu      sync.Mutex
	players map[string]*entry
	hands   int
}

type entry struct {
	name  string
	net   int
	stats Statistics
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{players: make(map[string]*entry)}
}

// Record adds every participant of a completed hand.
func (t *Tracker) Record(s game.HandSummary) {
	if s.BigBlind <= 0 || len(s.Players) == 0 {
		return
	}
	players := slices.Clone(s.Players)
	if len(players) == 2 {
		players[0], players[1] = players[1], players[0]
	}
	bb := float64(s.BigBlind)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.hands++
	for i, p := range players {
		e, ok := t.players[p.ID]
		if !ok {
			e = &entry{name: p.Name}
			t.players[p.ID] = e
		}
		net := p.FinalChips - p.StartingChips
		e.net += net
		e.stats.Add(HandResult{
			NetBB:    float64(net) / bb,
			Showdown: s.Showdown,
			Position: PositionOf(i, len(players)),
			PotBB:    float64(s.PotAwarded) / bb,
			Sacred:   poker.SacredCount(p.Cards...) > 0,
		})
	}
}

// Hands returns the number of hands recorded.
func (t *Tracker) Hands() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hands
}

// Report is a snapshot of one player's results.
type Report struct {
	ID    string
	Name  string
	Net   int // chips
	Stats Statistics
}

// Reports returns every player's results, biggest winner first.
func (t *Tracker) Reports() []Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Report, 0, len(t.players))
	for id, e := range t.players {
		stats := e.stats
		stats.Values = slices.Clone(e.stats.Values)
		out = append(out, Report{ID: id, Name: e.name, Net: e.net, Stats: stats})
	}
	slices.SortFunc(out, func(a, b Report) int {
		if c := cmp.Compare(b.Net, a.Net); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
