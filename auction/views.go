package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mogul-productions/go-mogies-auction/allowlist"
	"github.com/mogul-productions/go-mogies-auction/sale"
)

// CurrentPhase reports the sale phase at the engine clock.
func (e *Engine) CurrentPhase() sale.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rules.Schedule.CurrentPhase(e.now())
}

// Price returns the current unit price and tier for a currency. The
// price clock starts at the auction start and keeps falling to the
// floor after the window closes.
func (e *Engine) Price(cur sale.Currency) (*big.Int, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := e.now().Sub(e.rules.Schedule.AuctionStart)
	pricing := e.rules.Pricing(cur)
	return pricing.PriceAt(elapsed), pricing.TierAt(elapsed)
}

// SettledPrice returns the lowest unit price paid so far in a currency.
func (e *Engine) SettledPrice(cur sale.Currency) *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.state.settled[cur])
}

// IsAllowlisted checks a presale membership proof against the current
// root.
func (e *Engine) IsAllowlisted(addr common.Address, proof []common.Hash) (bool, error) {
	e.mu.Lock()
	root := e.root
	e.mu.Unlock()
	return allowlist.Verify(root, proof, addr)
}

// AllowlistRoot returns the published presale root.
func (e *Engine) AllowlistRoot() common.Hash {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// PoolMinted reports how many items a pool has issued.
func (e *Engine) PoolMinted(p Pool) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p < 0 || p >= poolCount {
		return 0
	}
	return e.state.minted[p]
}

// TotalMinted reports the collection-wide mint count.
func (e *Engine) TotalMinted() uint64 {
	return e.items.TotalMinted()
}

// Proceeds returns the ETH collected and not yet withdrawn.
func (e *Engine) Proceeds() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.state.proceedsEth)
}

// QueuePosition returns the caller's slot in the distribution queue.
// The second result is false for addresses that never bought in the
// auction.
func (e *Engine) QueuePosition(addr common.Address) (uint32, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.state.records[addr]
	if !ok {
		return 0, false
	}
	return rec.Seq, true
}

// Remaining reports the leftover-supply pool and the queue it will be
// split over. Before the sale closes and freezes, it projects from the
// live counts.
func (e *Engine) Remaining() (pool uint64, buyers uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining()
}

func (e *Engine) remaining() (uint64, uint32) {
	if e.state.frozen {
		return e.state.remainingPool, e.state.queueSize
	}
	var pool uint64
	if total, minted := e.rules.Collection.TotalSupply, e.items.TotalMinted(); total > minted {
		pool = total - minted
	}
	return pool, uint32(len(e.state.queue))
}

// ClaimedRemaining counts the queue members that already took their
// leftover share.
func (e *Engine) ClaimedRemaining() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return uint32(e.state.remainingClaimed.Count())
}

// RemainingEntitlement reports the share of leftover supply an address
// can claim, zero if it is not in the queue or has already claimed.
func (e *Engine) RemainingEntitlement(addr common.Address) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.state.records[addr]
	if !ok {
		return 0
	}
	if e.state.remainingClaimed.Has(rec.Seq) {
		return 0
	}
	if e.state.frozen {
		return e.state.entitlement(rec.Seq)
	}
	pool, buyers := e.remaining()
	if buyers == 0 {
		return 0
	}
	share := pool / uint64(buyers)
	if uint64(rec.Seq) < pool%uint64(buyers) {
		share++
	}
	return share
}

// HasClaimedRemaining reports whether an address already took its
// leftover share.
func (e *Engine) HasClaimedRemaining(addr common.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.state.records[addr]
	return ok && e.state.remainingClaimed.Has(rec.Seq)
}

// HasClaimedRebate reports whether an address already took its rebate.
func (e *Engine) HasClaimedRebate(addr common.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.state.records[addr]
	return ok && e.state.rebateClaimed.Has(rec.Seq)
}

// BuyerList returns one page of the auction buyer queue, in purchase
// order. Pages are MaxBatch addresses long; pages past the end are
// empty.
func (e *Engine) BuyerList(page int) []common.Address {
	e.mu.Lock()
	defer e.mu.Unlock()

	size := int(e.rules.Collection.MaxBatch)
	if page < 0 {
		return nil
	}
	from := page * size
	if from >= len(e.state.queue) {
		return nil
	}
	to := from + size
	if to > len(e.state.queue) {
		to = len(e.state.queue)
	}
	out := make([]common.Address, to-from)
	copy(out, e.state.queue[from:to])
	return out
}

// Rules returns a deep copy of the active sale rules.
func (e *Engine) Rules() sale.Rules {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rules.Copy()
}
