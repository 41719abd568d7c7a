package auction

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/mogul-productions/go-mogies-auction/sale"
)

func TestEarlyMintWindow(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	// Closed once the auction has opened.
	_, err := f.eng.EarlyMint(Direct(owner), owner, 1)
	require.ErrorIs(err, ErrSaleStarted)

	f.now = saleStart - 1
	r, err := f.eng.EarlyMint(Direct(owner), buyer1, 2)
	require.NoError(err)
	require.Equal(uint32(2), r.Quantity)
	require.Equal(uint64(2), f.eng.PoolMinted(PoolEarly))

	_, err = f.eng.EarlyMint(Direct(owner), buyer1, 3)
	require.ErrorIs(err, ErrSupplyExceeded)

	_, err = f.eng.EarlyMint(Direct(buyer1), buyer1, 1)
	require.ErrorIs(err, ErrNotOwner)
}

func TestDevMintBudget(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	// Dev mints are not time-gated.
	f.advance(3 * 24 * time.Hour)
	_, err := f.eng.DevMint(Direct(owner), buyer1, 4)
	require.NoError(err)
	require.Equal(uint64(4), f.eng.PoolMinted(PoolDev))

	_, err = f.eng.DevMint(Direct(owner), buyer1, 1)
	require.ErrorIs(err, ErrSupplyExceeded)

	_, err = f.eng.DevMint(Direct(buyer1), buyer1, 1)
	require.ErrorIs(err, ErrNotOwner)
}

func TestDevMintRespectsFrozenShares(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	f.buyEth(buyer1, 1)
	f.buyEth(buyer2, 1)
	f.closeSale()

	// The first claim freezes 38 leftover items over two buyers, 19
	// each. The whole dev budget is still unminted, but spending it now
	// would eat buyer2's share.
	r, err := f.eng.MintRemaining(Direct(buyer1))
	require.NoError(err)
	require.Equal(uint32(19), r.Quantity)

	_, err = f.eng.DevMint(Direct(owner), buyer3, 4)
	require.ErrorIs(err, ErrSupplyExceeded)

	r, err = f.eng.MintRemaining(Direct(buyer2))
	require.NoError(err)
	require.Equal(uint32(19), r.Quantity)
	require.Equal(uint64(40), f.eng.TotalMinted())
}

func TestWithdraw(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	f.buyEth(buyer1, 2)
	f.buyStars(buyer2, 1)

	starsPrice := f.stars.BalanceOf(treasury)

	eth, stars, err := f.eng.Withdraw(Direct(owner), owner)
	require.NoError(err)
	require.Equal(ether(2), eth)
	require.Equal(starsPrice, stars)
	require.Equal(starsPrice, f.stars.BalanceOf(owner))

	// Emptied out; a second withdraw moves nothing.
	eth, stars, err = f.eng.Withdraw(Direct(owner), owner)
	require.NoError(err)
	require.Equal(int64(0), eth.Int64())
	require.Equal(int64(0), stars.Int64())

	_, _, err = f.eng.Withdraw(Direct(buyer1), buyer1)
	require.ErrorIs(err, ErrNotOwner)
}

func TestPricingLockedAfterOpen(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	p := f.eng.Rules().Eth
	err := f.eng.SetEthPricing(Direct(owner), p)
	require.ErrorIs(err, ErrSaleLocked)
	err = f.eng.SetStarsPricing(Direct(owner), f.eng.Rules().Stars)
	require.ErrorIs(err, ErrSaleLocked)
	err = f.eng.SetRates(Direct(owner), f.eng.Rules().Rates)
	require.ErrorIs(err, ErrSaleLocked)
}

func TestPricingSettersBeforeOpen(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	f.now = saleStart - 60

	p := sale.PricingRules{
		StartPrice:   ether(2),
		EndPrice:     deciEther(4),
		PriceStep:    deciEther(4),
		StepInterval: 24 * 60 * 60,
	}
	require.NoError(f.eng.SetEthPricing(Direct(owner), p))

	// The settled baseline follows the new opening price.
	require.Equal(ether(2), f.eng.SettledPrice(sale.Eth))
	require.Equal(ether(2), f.eng.Rules().Eth.StartPrice)

	// Invalid curves are rejected whole.
	p.EndPrice = ether(3)
	require.Error(f.eng.SetEthPricing(Direct(owner), p))
	require.Equal(ether(2), f.eng.Rules().Eth.StartPrice)

	require.Error(f.eng.SetRates(Direct(owner), sale.RateRules{}))
}

func TestScheduleSetters(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	// Move the whole schedule into the past so the sale is already over.
	s := f.eng.Rules().Schedule
	s.AuctionStart = 100
	s.AuctionEnd = 200
	s.AllowlistStart = 200
	s.AllowlistEnd = 300
	s.PublicStart = 300
	s.PublicEnd = 400

	require.NoError(f.eng.BatchSetTimes(Direct(owner), s))
	require.Equal(sale.Closed, f.eng.CurrentPhase())

	// Reopening takes moving the closing boundaries too; a closed sale
	// outranks a reopened auction window.
	require.NoError(f.eng.SetAuctionTimes(Direct(owner), f.now, f.now.Add(time.Hour)))
	require.Equal(sale.Closed, f.eng.CurrentPhase())

	require.NoError(f.eng.SetAllowlistTimes(Direct(owner), f.now, f.now.Add(2*time.Hour)))
	require.NoError(f.eng.SetPublicTimes(Direct(owner), f.now, f.now.Add(3*time.Hour)))
	require.Equal(sale.Auction, f.eng.CurrentPhase())

	require.ErrorIs(f.eng.BatchSetTimes(Direct(buyer1), s), ErrNotOwner)
	require.ErrorIs(f.eng.SetAllowlistTimes(Direct(buyer1), 0, 0), ErrNotOwner)
	require.ErrorIs(f.eng.SetPublicTimes(Direct(buyer1), 0, 0), ErrNotOwner)
	require.ErrorIs(f.eng.SetPublicSale(Direct(buyer1), true), ErrNotOwner)
	require.ErrorIs(f.eng.SetAllowlistRoot(Direct(buyer1), common.Hash{}), ErrNotOwner)
}

func TestRootRotation(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	proofs := f.presaleTree(buyer1, buyer2)
	ok, err := f.eng.IsAllowlisted(buyer1, proofs[buyer1])
	require.NoError(err)
	require.True(ok)

	// Rotating the root invalidates old proofs.
	f.presaleTree(buyer3, buyer4)
	ok, err = f.eng.IsAllowlisted(buyer1, proofs[buyer1])
	require.NoError(err)
	require.False(ok)
}
