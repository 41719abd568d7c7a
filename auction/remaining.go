package auction

import (
	"github.com/sirupsen/logrus"

	"github.com/mogul-productions/go-mogies-auction/journal"
)

// MintRemaining claims the caller's share of the supply left unsold
// when the sale closed. The leftover pool is split evenly over the
// auction buyers in queue order; the first pool-mod-buyers slots take
// one extra item. Each buyer claims exactly once.
func (e *Engine) MintRemaining(c Caller) (*Receipt, error) {
	if err := e.guardDirect(c); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rules.Schedule.IsClosed(e.now()) {
		return nil, ErrTooEarly
	}
	e.freezeRemaining()

	rec, ok := e.state.records[c.Sender]
	if !ok {
		return nil, ErrNothingToMint
	}
	if e.state.remainingClaimed.Has(rec.Seq) {
		return nil, ErrAlreadyClaimed
	}
	share := e.state.entitlement(rec.Seq)
	if share == 0 {
		return nil, ErrNothingToMint
	}

	firstID, err := e.items.Mint(c.Sender, uint32(share))
	if err != nil {
		return nil, err
	}
	e.state.remainingClaimed.Mark(rec.Seq)
	e.state.distributed += share

	e.log.WithFields(logrus.Fields{
		"buyer": c.Sender.Hex(),
		"seq":   rec.Seq,
		"share": share,
	}).Info("remaining supply claimed")

	e.journalize(journal.Event{
		Kind:     journal.KindRemainingMint,
		Address:  c.Sender.Hex(),
		Quantity: uint32(share),
	})

	return &Receipt{FirstID: firstID, Quantity: uint32(share)}, nil
}

// freezeRemaining fixes the leftover pool and queue size at the first
// post-close claim, so later admin mints cannot change anyone's share.
// The engine mutex is held.
func (e *Engine) freezeRemaining() {
	if e.state.frozen {
		return
	}
	e.state.frozen = true
	e.state.queueSize = uint32(len(e.state.queue))
	minted := e.items.TotalMinted()
	if total := e.rules.Collection.TotalSupply; total > minted {
		e.state.remainingPool = total - minted
	}
	e.log.WithFields(logrus.Fields{
		"pool":   e.state.remainingPool,
		"buyers": e.state.queueSize,
	}).Info("remaining supply frozen")
}
