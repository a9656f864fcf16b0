package game

import (
	"time"

	"github.com/lox/threesixnine/poker"
)

// Player is a seat occupant. Fields are owned by the table once the player is
// seated; read them through State snapshots.
type Player struct {
	ID    string
	Name  string
	Bot   bool
	Chips int
	Seat  int

	Cards    []poker.Card
	Bet      int // chips committed in the current betting round
	TotalBet int // chips committed in the current hand
	Folded   bool
	AllIn    bool

	Dealer     bool
	SmallBlind bool
	BigBlind   bool

	// ActionTimeout overrides the table's decision timeout when positive.
	ActionTimeout time.Duration

	inHand        bool
	acted         bool
	handSeat      int
	startingChips int
}

// NewPlayer returns an unseated player.
func NewPlayer(id, name string, chips int) *Player {
	return &Player{ID: id, Name: name, Chips: chips, Seat: -1}
}

// InHand reports whether the player was dealt into the current hand.
func (p *Player) InHand() bool {
	return p.inHand
}

// CanAct reports whether the player still has decisions to make this hand.
func (p *Player) CanAct() bool {
	return p.inHand && !p.Folded && !p.AllIn
}

// Live reports whether the player is still contesting the pot.
func (p *Player) Live() bool {
	return p.inHand && !p.Folded
}

func (p *Player) resetForHand() {
	p.Cards = nil
	p.Bet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.Dealer = false
	p.SmallBlind = false
	p.BigBlind = false
	p.inHand = false
	p.acted = false
	p.handSeat = p.Seat
	p.startingChips = p.Chips
}

// commit moves chips from the stack into the player's bets.
func (p *Player) commit(amount int) {
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
}
