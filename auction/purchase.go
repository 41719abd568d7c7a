package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/mogul-productions/go-mogies-auction/allowlist"
	"github.com/mogul-productions/go-mogies-auction/journal"
	"github.com/mogul-productions/go-mogies-auction/sale"
)

// Receipt reports what a purchase produced. Refund is the overpaid ETH
// returned to the buyer; it is always zero for STARS purchases, which
// pull the exact cost.
type Receipt struct {
	FirstID   uint64
	Quantity  uint32
	Currency  sale.Currency
	Tier      uint64
	UnitPrice *big.Int
	Cost      *big.Int
	Refund    *big.Int
}

// AuctionMint purchases qty items at the current step price. For ETH
// the attached value must cover the cost and the excess is refunded;
// for STARS the cost is pulled from the buyer's approved balance.
func (e *Engine) AuctionMint(c Caller, qty uint32, cur sale.Currency, value *big.Int) (*Receipt, error) {
	if err := e.guardDirect(c); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if !e.rules.Schedule.InAuctionWindow(now) {
		return nil, e.windowError(now, e.rules.Schedule.AuctionStart)
	}
	if e.state.minted[PoolAuction]+uint64(qty) > e.rules.Collection.AuctionSupply {
		return nil, ErrSupplyExceeded
	}

	r, err := e.buy(c.Sender, PoolAuction, qty, cur, value, journal.KindAuctionMint)
	if err != nil {
		return nil, err
	}

	// Auction buyers join the distribution queue and move the settled
	// price; presale and public buyers do neither.
	rec := e.state.record(c.Sender)
	if rec.TotalQuantity == 0 {
		rec.FirstTier = uint32(r.Tier)
		rec.FirstPrice = new(big.Int).Set(r.UnitPrice)
		rec.FirstCurrency = cur
		rec.FirstQuantity = qty
	}
	rec.TotalQuantity += qty
	e.state.settleDown(cur, r.UnitPrice)

	return r, nil
}

// AllowlistMint purchases during the presale window. The buyer must
// prove membership in the published Merkle allow list.
func (e *Engine) AllowlistMint(c Caller, qty uint32, cur sale.Currency, value *big.Int, proof []common.Hash) (*Receipt, error) {
	if err := e.guardDirect(c); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if !e.rules.Schedule.InAllowlistWindow(now) {
		return nil, e.windowError(now, e.rules.Schedule.AllowlistStart)
	}
	ok, err := allowlist.Verify(e.root, proof, c.Sender)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAllowlisted
	}
	if err := e.checkPublicBudget(qty); err != nil {
		return nil, err
	}

	return e.buy(c.Sender, PoolAllowlist, qty, cur, value, journal.KindAllowlistMint)
}

// PublicSaleMint purchases during the public window, if the owner has
// enabled one. It shares the presale supply budget.
func (e *Engine) PublicSaleMint(c Caller, qty uint32, cur sale.Currency, value *big.Int) (*Receipt, error) {
	if err := e.guardDirect(c); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if !e.rules.Schedule.InPublicWindow(now) {
		// A public sale the owner never enabled has not started, no
		// matter where the clock sits relative to its window.
		if !e.rules.Schedule.HasPublicSale {
			return nil, ErrSaleNotStarted
		}
		return nil, e.windowError(now, e.rules.Schedule.PublicStart)
	}
	if err := e.checkPublicBudget(qty); err != nil {
		return nil, err
	}

	return e.buy(c.Sender, PoolPublic, qty, cur, value, journal.KindPublicMint)
}

// windowError distinguishes a purchase made too soon from one made too
// late. An unscheduled window counts as not started.
func (e *Engine) windowError(now, start sale.Timestamp) error {
	if start == 0 || now < start {
		return ErrSaleNotStarted
	}
	return ErrSaleEnded
}

// checkPublicBudget enforces the supply pool shared by the allowlist
// and public phases.
func (e *Engine) checkPublicBudget(qty uint32) error {
	used := e.state.minted[PoolAllowlist] + e.state.minted[PoolPublic]
	if used+uint64(qty) > e.rules.Collection.PublicSupply() {
		return ErrSupplyExceeded
	}
	return nil
}

// buy is the shared purchase path: price the batch off the auction
// clock, move payment, then mint. Only the pool budgets bound the
// quantity; a buyer may take a whole pool in one call. The engine
// mutex is held.
func (e *Engine) buy(buyer common.Address, pool Pool, qty uint32, cur sale.Currency, value *big.Int, kind string) (*Receipt, error) {
	if qty == 0 {
		return nil, ErrBadQuantity
	}

	// The price clock keeps running after the auction window ends, so
	// presale and public purchases pay the floor price.
	elapsed := e.now().Sub(e.rules.Schedule.AuctionStart)
	pricing := e.rules.Pricing(cur)
	tier := pricing.TierAt(elapsed)
	unit := pricing.PriceAtTier(tier)
	cost := new(big.Int).Mul(unit, big.NewInt(int64(qty)))

	refund := new(big.Int)
	switch cur {
	case sale.Eth:
		if value == nil {
			value = new(big.Int)
		}
		if value.Cmp(cost) < 0 {
			return nil, ErrInsufficientPayment
		}
		refund.Sub(value, cost)
		e.state.proceedsEth.Add(e.state.proceedsEth, cost)
	case sale.Stars:
		if err := e.stars.TransferFrom(e.account, buyer, e.account, cost); err != nil {
			return nil, err
		}
	}

	firstID, err := e.items.Mint(buyer, qty)
	if err != nil {
		// Payment has moved; a pool budget that overruns the physical
		// supply is a configuration bug, surface it loudly.
		e.log.WithError(err).WithFields(logrus.Fields{
			"pool":  pool.String(),
			"buyer": buyer.Hex(),
			"qty":   qty,
		}).Error("mint failed after payment")
		return nil, err
	}
	e.state.minted[pool] += uint64(qty)

	e.log.WithFields(logrus.Fields{
		"pool":  pool.String(),
		"buyer": buyer.Hex(),
		"qty":   qty,
		"cur":   cur.String(),
		"tier":  tier,
		"unit":  unit.String(),
	}).Info("purchase")

	e.journalize(journal.Event{
		Kind:      kind,
		Address:   buyer.Hex(),
		Quantity:  qty,
		Currency:  cur.String(),
		UnitPrice: journal.WeiString(unit),
		Amount:    journal.WeiString(cost),
		Tier:      uint32(tier),
	})

	return &Receipt{
		FirstID:   firstID,
		Quantity:  qty,
		Currency:  cur,
		Tier:      tier,
		UnitPrice: unit,
		Cost:      cost,
		Refund:    refund,
	}, nil
}
