package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/mogul-productions/go-mogies-auction/journal"
	"github.com/mogul-productions/go-mogies-auction/sale"
)

// EarlyMint assigns items from the early pool before the auction opens.
func (e *Engine) EarlyMint(c Caller, to common.Address, qty uint32) (*Receipt, error) {
	if err := e.guardOwner(c); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if start := e.rules.Schedule.AuctionStart; start != 0 && e.now() >= start {
		return nil, ErrSaleStarted
	}
	return e.adminMint(to, PoolEarly, qty, e.rules.Collection.EarlySupply, journal.KindEarlyMint)
}

// DevMint assigns items from the dev pool. It is not time-gated.
func (e *Engine) DevMint(c Caller, to common.Address, qty uint32) (*Receipt, error) {
	if err := e.guardOwner(c); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.adminMint(to, PoolDev, qty, e.rules.Collection.DevSupply, journal.KindDevMint)
}

// AdminFinalMint sweeps unsold supply after the sale has closed. It
// freezes the buyer distribution first, so the sweep can never eat
// into a share an auction buyer is still entitled to claim.
func (e *Engine) AdminFinalMint(c Caller, to common.Address, qty uint32) (*Receipt, error) {
	if err := e.guardOwner(c); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rules.Schedule.IsClosed(e.now()) {
		return nil, ErrTooEarly
	}
	e.freezeRemaining()

	if qty == 0 {
		return nil, ErrBadQuantity
	}
	if uint64(qty) > e.sweepHeadroom() {
		return nil, ErrSupplyExceeded
	}

	firstID, err := e.items.Mint(to, qty)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"to": to.Hex(), "qty": qty}).Info("final sweep mint")
	e.journalize(journal.Event{
		Kind:     journal.KindAdminMint,
		Address:  to.Hex(),
		Quantity: qty,
	})
	return &Receipt{FirstID: firstID, Quantity: qty}, nil
}

// Withdraw moves the accumulated proceeds to the given address: the
// ETH total is returned for the caller to settle, and the sale
// account's whole STARS balance is transferred on the ledger.
func (e *Engine) Withdraw(c Caller, to common.Address) (eth *big.Int, stars *big.Int, err error) {
	if err := e.guardOwner(c); err != nil {
		return nil, nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	eth = new(big.Int).Set(e.state.proceedsEth)
	e.state.proceedsEth.SetUint64(0)

	stars = e.stars.BalanceOf(e.account)
	if stars.Sign() > 0 {
		if err := e.stars.Transfer(e.account, to, stars); err != nil {
			// Roll the ETH total back so a retry sees it again.
			e.state.proceedsEth.Set(eth)
			return nil, nil, err
		}
	}

	e.log.WithFields(logrus.Fields{
		"to":    to.Hex(),
		"eth":   eth.String(),
		"stars": stars.String(),
	}).Info("proceeds withdrawn")

	e.journalize(journal.Event{
		Kind:     journal.KindWithdraw,
		Address:  to.Hex(),
		Currency: sale.Eth.String(),
		Amount:   journal.WeiString(eth),
	})
	e.journalize(journal.Event{
		Kind:     journal.KindWithdraw,
		Address:  to.Hex(),
		Currency: sale.Stars.String(),
		Amount:   journal.WeiString(stars),
	})
	return eth, stars, nil
}

// BatchSetTimes replaces all six window boundaries at once. Times may
// be moved at any point; the public-sale switch is left alone.
func (e *Engine) BatchSetTimes(c Caller, s sale.ScheduleRules) error {
	if err := e.guardOwner(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s.HasPublicSale = e.rules.Schedule.HasPublicSale
	e.rules.Schedule = s
	return nil
}

// SetAuctionTimes moves the auction window.
func (e *Engine) SetAuctionTimes(c Caller, start, end sale.Timestamp) error {
	if err := e.guardOwner(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules.Schedule.AuctionStart = start
	e.rules.Schedule.AuctionEnd = end
	return nil
}

// SetAllowlistTimes moves the presale window.
func (e *Engine) SetAllowlistTimes(c Caller, start, end sale.Timestamp) error {
	if err := e.guardOwner(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules.Schedule.AllowlistStart = start
	e.rules.Schedule.AllowlistEnd = end
	return nil
}

// SetPublicTimes moves the public window.
func (e *Engine) SetPublicTimes(c Caller, start, end sale.Timestamp) error {
	if err := e.guardOwner(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules.Schedule.PublicStart = start
	e.rules.Schedule.PublicEnd = end
	return nil
}

// SetPublicSale flips the public-sale switch.
func (e *Engine) SetPublicSale(c Caller, enabled bool) error {
	if err := e.guardOwner(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules.Schedule.HasPublicSale = enabled
	return nil
}

// SetAllowlistRoot publishes a new presale Merkle root.
func (e *Engine) SetAllowlistRoot(c Caller, root common.Hash) error {
	if err := e.guardOwner(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.root = root
	return nil
}

// SetEthPricing replaces the ETH price curve. Pricing is immutable
// once the auction has opened; the settled price baseline derives
// from it.
func (e *Engine) SetEthPricing(c Caller, p sale.PricingRules) error {
	return e.setPricing(c, sale.Eth, p)
}

// SetStarsPricing replaces the STARS price curve, under the same lock.
func (e *Engine) SetStarsPricing(c Caller, p sale.PricingRules) error {
	return e.setPricing(c, sale.Stars, p)
}

func (e *Engine) setPricing(c Caller, cur sale.Currency, p sale.PricingRules) error {
	if err := e.guardOwner(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guardUnopened(); err != nil {
		return err
	}
	next := e.rules
	switch cur {
	case sale.Eth:
		next.Eth = p
	case sale.Stars:
		next.Stars = p
	}
	if err := next.Validate(); err != nil {
		return err
	}
	e.rules = next
	e.state.settled[cur].Set(p.StartPrice)
	return nil
}

// SetRates replaces the USD conversion rates, only before the auction
// opens.
func (e *Engine) SetRates(c Caller, r sale.RateRules) error {
	if err := e.guardOwner(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guardUnopened(); err != nil {
		return err
	}
	next := e.rules
	next.Rates = r
	if err := next.Validate(); err != nil {
		return err
	}
	e.rules = next
	return nil
}

// guardUnopened rejects configuration changes once the auction window
// has opened. The engine mutex is held.
func (e *Engine) guardUnopened() error {
	if start := e.rules.Schedule.AuctionStart; start != 0 && e.now() >= start {
		return ErrSaleLocked
	}
	return nil
}

// sweepHeadroom returns the supply an owner mint may take: the unminted
// rest of the collection, minus the shares still reserved for a frozen
// distribution queue. An empty queue reserves nothing. The engine mutex
// is held.
func (e *Engine) sweepHeadroom() uint64 {
	unminted := e.rules.Collection.TotalSupply - e.items.TotalMinted()
	var reserved uint64
	if e.state.queueSize > 0 {
		reserved = e.state.remainingPool - e.state.distributed
	}
	return unminted - min64(reserved, unminted)
}

// adminMint shares the owner mint path for the budgeted pools. The
// engine mutex is held.
func (e *Engine) adminMint(to common.Address, pool Pool, qty uint32, budget uint64, kind string) (*Receipt, error) {
	if qty == 0 {
		return nil, ErrBadQuantity
	}
	if e.state.minted[pool]+uint64(qty) > budget {
		return nil, ErrSupplyExceeded
	}
	// Once the post-close distribution is frozen, its unclaimed shares
	// stay off limits even for a pool with budget left.
	if e.state.frozen && uint64(qty) > e.sweepHeadroom() {
		return nil, ErrSupplyExceeded
	}
	firstID, err := e.items.Mint(to, qty)
	if err != nil {
		return nil, err
	}
	e.state.minted[pool] += uint64(qty)

	e.log.WithFields(logrus.Fields{
		"pool": pool.String(),
		"to":   to.Hex(),
		"qty":  qty,
	}).Info("admin mint")

	e.journalize(journal.Event{
		Kind:     kind,
		Address:  to.Hex(),
		Quantity: qty,
	})
	return &Receipt{FirstID: firstID, Quantity: qty}, nil
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
