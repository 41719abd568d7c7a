package sale

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/params"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

// deciEther returns n * 0.1 ETH in wei. The mainnet price table uses one
// decimal place, so tenths are the coarsest unit that represents it exactly.
func deciEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether/10))
}

func milliEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether/1000))
}

const day = uint64(24 * 60 * 60)

// MainnetRules returns the production sale parameters: 1923 items, a 5-day
// 5-tier auction decaying 1.0 -> 0.2 ETH (74862 -> 14972.4 STARS) in daily
// steps, followed by a 4-day allowlist window and a 4-day public window.
// Schedule timestamps are zero; the owner sets them before launch.
func MainnetRules() Rules {
	return Rules{
		Name: "mainnet",
		Collection: CollectionRules{
			TotalSupply:   1923,
			EarlySupply:   0,
			DevSupply:     50,
			AuctionSupply: 1585,
			MaxBatch:      10,
		},
		Eth: PricingRules{
			StartPrice:   ether(1),
			EndPrice:     deciEther(2),
			PriceStep:    deciEther(2),
			StepInterval: day,
		},
		Stars: PricingRules{
			StartPrice:   deciEther(748620),
			EndPrice:     deciEther(149724),
			PriceStep:    deciEther(149724),
			StepInterval: day,
		},
		Rates: RateRules{
			EthUSD:   ether(3000),
			StarsUSD: milliEther(50),
		},
	}
}

// FakeRules returns a small, fully scheduled configuration for tests and
// local development. The auction opens at start and the same relative
// schedule as mainnet applies: 5 auction days, then allowlist, then public.
func FakeRules(start Timestamp) Rules {
	r := MainnetRules()
	r.Name = "fake"
	r.Collection = CollectionRules{
		TotalSupply:   40,
		EarlySupply:   4,
		DevSupply:     4,
		AuctionSupply: 24,
		MaxBatch:      10,
	}
	r.Schedule = ScheduleRules{
		AuctionStart:   start,
		AuctionEnd:     start.Add(5 * 24 * time.Hour),
		AllowlistStart: start.Add(5*24*time.Hour + 15*time.Minute),
		AllowlistEnd:   start.Add(9*24*time.Hour + 15*time.Minute),
		PublicStart:    start.Add(9*24*time.Hour + 30*time.Minute),
		PublicEnd:      start.Add(13*24*time.Hour + 30*time.Minute),
		HasPublicSale:  false,
	}
	return r
}
