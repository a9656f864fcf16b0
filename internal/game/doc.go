// Package game implements the Three Six Nine Hold'em table engine.
//
// The main type is Table, which seats up to nine players and runs one
// no-limit Texas Hold'em hand at a time: button and blind rotation, dealing,
// betting rounds, side pots, showdown and payout. Every entry point locks the
// table, so a Table may be shared between a human client, bot drivers and the
// decision timer.
//
// Basic usage:
//
//	table, err := game.NewTable(game.Config{SmallBlind: 100, BigBlind: 200, ActionTimeout: 30 * time.Second})
//	table.AddPlayer(game.NewPlayer("alice", "Alice", 20000), game.AnySeat)
//	table.AddPlayer(game.NewPlayer("bob", "Bob", 20000), game.AnySeat)
//	err = table.StartNewHand()
//	state := table.State(game.Spectator)
//	err = table.Act(state.CurrentPlayer, game.Call, 0)
package game
