// Package sale defines the configuration rules and pure time/price logic for
// the Mogies Dutch auction.
//
// This package provides:
//   - Collection supply budgets (early/dev/auction/public pools)
//   - The sale schedule (auction, allowlist and public windows)
//   - Linear step-pricing parameters for both payment currencies
//   - Currency conversion rates and rebate multipliers
//   - The phase clock deriving the current sale phase from the schedule
//   - The step-price engine computing the unit price from elapsed time
//
// The Rules type is the central configuration structure consumed by the
// auction engine. Rules are immutable once the auction window has opened,
// except for schedule fields which the owner may adjust at any time.
package sale

import (
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Payment currencies accepted by the sale.
const (
	// Eth is the primary currency; payment is attached to the purchase call
	// and any excess over the step price is refunded.
	Eth Currency = iota

	// Stars is the secondary currency; payment is pulled from the buyer's
	// token balance through the secondary-currency ledger.
	Stars
)

// Currency identifies one of the two payment currencies.
type Currency uint8

func (c Currency) String() string {
	switch c {
	case Eth:
		return "eth"
	case Stars:
		return "stars"
	default:
		return "unknown"
	}
}

// Rebate multipliers in basis points, indexed by the tier of the buyer's
// first auction purchase. Tiers beyond the table fall back to the last entry.
var RebateMultiplierBps = [3]uint64{15000, 13000, 10000}

// CollectionRules fixes the supply budgets of the collection. The four named
// pools are disjoint; the public pool is implicit and shared between the
// allowlist and public sale phases.
type CollectionRules struct {
	// TotalSupply is the fixed collection size. No mint path may push the
	// total minted count past it.
	TotalSupply uint64

	// EarlySupply is reserved for owner pre-mints before the auction opens.
	EarlySupply uint64

	// DevSupply is reserved for team mints.
	DevSupply uint64

	// AuctionSupply caps purchases made during the auction window.
	AuctionSupply uint64

	// MaxBatch is the page length of buyer-list views. Purchases are
	// bounded by the pool budgets only.
	MaxBatch uint32
}

// PublicSupply returns the implicit budget shared by the allowlist and
// public sale phases: TotalSupply minus the three named pools.
func (c CollectionRules) PublicSupply() uint64 {
	named := c.EarlySupply + c.DevSupply + c.AuctionSupply
	if named >= c.TotalSupply {
		return 0
	}
	return c.TotalSupply - named
}

// ScheduleRules holds the sale time windows. Windows are half-open
// [start, end) and may overlap; each purchase path checks only its own
// window, overlap handling is the owner's responsibility.
type ScheduleRules struct {
	AuctionStart   Timestamp `json:"auctionStart"`
	AuctionEnd     Timestamp `json:"auctionEnd"`
	AllowlistStart Timestamp `json:"allowlistStart"`
	AllowlistEnd   Timestamp `json:"allowlistEnd"`
	PublicStart    Timestamp `json:"publicStart"`
	PublicEnd      Timestamp `json:"publicEnd"`

	// HasPublicSale gates the public window independently of its times.
	HasPublicSale bool `json:"hasPublicSale"`
}

// PricingRules parameterizes the linear step-price function for one currency.
// The price starts at StartPrice and decreases by PriceStep every StepInterval
// seconds until it reaches EndPrice, where it stays.
type PricingRules struct {
	StartPrice *big.Int
	EndPrice   *big.Int
	PriceStep  *big.Int

	// StepInterval is the duration of one pricing tier, in seconds.
	StepInterval uint64
}

// NumTiers derives the tier count from the price range and step:
// (StartPrice-EndPrice)/PriceStep + 1.
func (p PricingRules) NumTiers() uint64 {
	diff := new(big.Int).Sub(p.StartPrice, p.EndPrice)
	n := new(big.Int).Div(diff, p.PriceStep)
	return n.Uint64() + 1
}

func (p PricingRules) validate() error {
	if p.StartPrice == nil || p.EndPrice == nil || p.PriceStep == nil {
		return errors.New("pricing: nil price parameter")
	}
	if p.StartPrice.Sign() <= 0 || p.EndPrice.Sign() < 0 {
		return errors.New("pricing: prices must be positive")
	}
	if p.StartPrice.Cmp(p.EndPrice) <= 0 {
		return errors.New("pricing: start price must exceed end price")
	}
	if p.PriceStep.Sign() <= 0 {
		return errors.New("pricing: price step must be positive")
	}
	if p.StepInterval == 0 {
		return errors.New("pricing: step interval must be positive")
	}
	diff := new(big.Int).Sub(p.StartPrice, p.EndPrice)
	if new(big.Int).Mod(diff, p.PriceStep).Sign() != 0 {
		return errors.New("pricing: price range must be a whole number of steps")
	}
	return nil
}

// RateRules converts between the two currencies through a common value unit
// (USD, 18 decimals). Used only by the rebate engine for ETH purchases.
type RateRules struct {
	EthUSD   *big.Int
	StarsUSD *big.Int
}

func (r RateRules) validate() error {
	if r.EthUSD == nil || r.StarsUSD == nil {
		return errors.New("rates: nil rate")
	}
	if r.EthUSD.Sign() <= 0 || r.StarsUSD.Sign() <= 0 {
		return errors.New("rates: rates must be positive")
	}
	return nil
}

// Rules bundles every configuration parameter of one sale instance.
type Rules struct {
	// Name identifies the preset ("mainnet", "fake") in logs and dumps.
	Name string

	Collection CollectionRules
	Schedule   ScheduleRules
	Eth        PricingRules
	Stars      PricingRules
	Rates      RateRules
}

// Validate checks internal consistency of the rules. It is called by the
// engine at construction and after every pricing-parameter update.
func (r Rules) Validate() error {
	c := r.Collection
	if c.TotalSupply == 0 {
		return errors.New("collection: total supply must be positive")
	}
	if c.EarlySupply+c.DevSupply+c.AuctionSupply > c.TotalSupply {
		return errors.New("collection: named pools exceed total supply")
	}
	if c.MaxBatch == 0 {
		return errors.New("collection: max batch must be positive")
	}
	if err := r.Eth.validate(); err != nil {
		return err
	}
	if err := r.Stars.validate(); err != nil {
		return err
	}
	return r.Rates.validate()
}

// Copy returns a deep copy; the engine hands copies out of its views so the
// caller cannot alias internal big.Int state.
func (r Rules) Copy() Rules {
	cp := r
	cp.Eth = r.Eth.copy()
	cp.Stars = r.Stars.copy()
	cp.Rates = RateRules{
		EthUSD:   new(big.Int).Set(r.Rates.EthUSD),
		StarsUSD: new(big.Int).Set(r.Rates.StarsUSD),
	}
	return cp
}

func (p PricingRules) copy() PricingRules {
	return PricingRules{
		StartPrice:   new(big.Int).Set(p.StartPrice),
		EndPrice:     new(big.Int).Set(p.EndPrice),
		PriceStep:    new(big.Int).Set(p.PriceStep),
		StepInterval: p.StepInterval,
	}
}

// pricingRulesJSON mirrors PricingRules with hex-encoded big integers so
// rules survive a JSON round trip (config dumps, snapshots).
type pricingRulesJSON struct {
	StartPrice   *hexutil.Big `json:"startPrice"`
	EndPrice     *hexutil.Big `json:"endPrice"`
	PriceStep    *hexutil.Big `json:"priceStep"`
	StepInterval uint64       `json:"stepInterval"`
}

// MarshalJSON implements json.Marshaler.
func (p PricingRules) MarshalJSON() ([]byte, error) {
	return json.Marshal(pricingRulesJSON{
		StartPrice:   (*hexutil.Big)(p.StartPrice),
		EndPrice:     (*hexutil.Big)(p.EndPrice),
		PriceStep:    (*hexutil.Big)(p.PriceStep),
		StepInterval: p.StepInterval,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PricingRules) UnmarshalJSON(data []byte) error {
	var dec pricingRulesJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	p.StartPrice = (*big.Int)(dec.StartPrice)
	p.EndPrice = (*big.Int)(dec.EndPrice)
	p.PriceStep = (*big.Int)(dec.PriceStep)
	p.StepInterval = dec.StepInterval
	return nil
}

type rateRulesJSON struct {
	EthUSD   *hexutil.Big `json:"ethUSD"`
	StarsUSD *hexutil.Big `json:"starsUSD"`
}

// MarshalJSON implements json.Marshaler.
func (r RateRules) MarshalJSON() ([]byte, error) {
	return json.Marshal(rateRulesJSON{
		EthUSD:   (*hexutil.Big)(r.EthUSD),
		StarsUSD: (*hexutil.Big)(r.StarsUSD),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RateRules) UnmarshalJSON(data []byte) error {
	var dec rateRulesJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	r.EthUSD = (*big.Int)(dec.EthUSD)
	r.StarsUSD = (*big.Int)(dec.StarsUSD)
	return nil
}
