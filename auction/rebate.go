package auction

import (
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/mogul-productions/go-mogies-auction/journal"
	"github.com/mogul-productions/go-mogies-auction/sale"
)

const bpsDenominator = 10000

// Rebate pays an auction buyer the difference between the price of
// their first purchase and the settled price for that currency, scaled
// by the quantity of that first purchase. ETH differences are converted
// to STARS at the configured rates and boosted by the tier multiplier;
// STARS differences are paid back one to one. The payout always lands
// in STARS, drawn from the sale account.
func (e *Engine) Rebate(c Caller) (*big.Int, error) {
	if err := e.guardDirect(c); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rules.Schedule.IsClosed(e.now()) {
		return nil, ErrTooEarly
	}
	rec, ok := e.state.records[c.Sender]
	if !ok {
		return nil, ErrNothingToRebate
	}
	if e.state.rebateClaimed.Has(rec.Seq) {
		return nil, ErrRebateClaimed
	}

	diff := new(big.Int).Sub(rec.FirstPrice, e.state.settled[rec.FirstCurrency])
	if diff.Sign() <= 0 {
		// The buyer paid the settled price; leave the claim flag clear
		// so a later settled-price correction could still pay out.
		return nil, ErrNothingToRebate
	}

	amount := e.rebateAmount(rec, diff)
	if err := e.stars.Transfer(e.account, c.Sender, amount); err != nil {
		return nil, err
	}
	e.state.rebateClaimed.Mark(rec.Seq)

	e.log.WithFields(logrus.Fields{
		"buyer":  c.Sender.Hex(),
		"cur":    rec.FirstCurrency.String(),
		"tier":   rec.FirstTier,
		"amount": amount.String(),
	}).Info("rebate paid")

	e.journalize(journal.Event{
		Kind:     journal.KindRebate,
		Address:  c.Sender.Hex(),
		Quantity: rec.FirstQuantity,
		Currency: rec.FirstCurrency.String(),
		Amount:   journal.WeiString(amount),
		Tier:     rec.FirstTier,
	})

	return amount, nil
}

// rebateAmount converts the per-item price difference into the STARS
// payout for the buyer's first batch.
func (e *Engine) rebateAmount(rec *purchaseRecord, diff *big.Int) *big.Int {
	amount := new(big.Int).Mul(diff, big.NewInt(int64(rec.FirstQuantity)))
	if rec.FirstCurrency == sale.Stars {
		return amount
	}
	amount.Mul(amount, e.rules.Rates.EthUSD)
	amount.Div(amount, e.rules.Rates.StarsUSD)
	amount.Mul(amount, new(big.Int).SetUint64(rebateMultiplier(rec.FirstTier)))
	amount.Div(amount, big.NewInt(bpsDenominator))
	return amount
}

// rebateMultiplier returns the basis-point boost for a first purchase
// in the given tier.
func rebateMultiplier(tier uint32) uint64 {
	if int(tier) >= len(sale.RebateMultiplierBps) {
		tier = uint32(len(sale.RebateMultiplierBps)) - 1
	}
	return sale.RebateMultiplierBps[tier]
}
