package auction

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/mogul-productions/go-mogies-auction/sale"
)

// eightBuyerSale runs a full sale: the early and dev pools are filled,
// eight auction buyers take 14 of the 24 auction items, and the presale
// sells out its 8. That leaves 10 unsold items over an 8-slot queue, so
// the first two slots are entitled to 2 and the rest to 1.
func eightBuyerSale(t *testing.T) (*fixture, []common.Address) {
	f := newFixture(t)

	f.now = saleStart - 1
	_, err := f.eng.EarlyMint(Direct(owner), owner, 4)
	require.NoError(t, err)
	_, err = f.eng.DevMint(Direct(owner), owner, 4)
	require.NoError(t, err)

	f.now = saleStart
	buyers := []common.Address{buyer1, buyer2, buyer3, buyer4, buyer5, buyer6, buyer7, buyer8}
	quantities := []uint32{4, 3, 2, 1, 1, 1, 1, 1}
	for i, b := range buyers {
		f.buyEth(b, quantities[i])
	}

	proofs := f.presaleTree(outsider)
	f.now = saleStart.Add(6 * 24 * time.Hour)
	_, err = f.eng.AllowlistMint(Direct(outsider), 8, sale.Eth, ether(2), proofs[outsider])
	require.NoError(t, err)

	require.Equal(t, uint64(30), f.eng.TotalMinted())
	return f, buyers
}

func TestMintRemainingShares(t *testing.T) {
	require := require.New(t)
	f, buyers := eightBuyerSale(t)
	f.closeSale()

	pool, queue := f.eng.Remaining()
	require.Equal(uint64(10), pool)
	require.Equal(uint32(8), queue)

	// 10 over 8 slots: seq 0 and 1 take 2 each, the rest take 1. The
	// claim order does not change anyone's share.
	wantShares := []uint64{2, 2, 1, 1, 1, 1, 1, 1}
	order := []int{5, 0, 7, 2, 1, 3, 6, 4}

	for _, i := range order {
		require.Equal(wantShares[i], f.eng.RemainingEntitlement(buyers[i]))
		r, err := f.eng.MintRemaining(Direct(buyers[i]))
		require.NoError(err)
		require.Equal(uint32(wantShares[i]), r.Quantity)
	}

	require.Equal(uint64(40), f.eng.TotalMinted())
	require.Equal(uint32(8), f.eng.ClaimedRemaining())
}

func TestMintRemainingClaimOnce(t *testing.T) {
	require := require.New(t)
	f, buyers := eightBuyerSale(t)
	f.closeSale()

	_, err := f.eng.MintRemaining(Direct(buyers[0]))
	require.NoError(err)
	require.True(f.eng.HasClaimedRemaining(buyers[0]))
	require.Equal(uint64(0), f.eng.RemainingEntitlement(buyers[0]))

	_, err = f.eng.MintRemaining(Direct(buyers[0]))
	require.ErrorIs(err, ErrAlreadyClaimed)
}

func TestMintRemainingOutsiders(t *testing.T) {
	require := require.New(t)
	f, _ := eightBuyerSale(t)
	f.closeSale()

	_, err := f.eng.MintRemaining(Direct(common.HexToAddress("0xdead")))
	require.ErrorIs(err, ErrNothingToMint)

	// The presale buyer is not an auction buyer.
	_, err = f.eng.MintRemaining(Direct(outsider))
	require.ErrorIs(err, ErrNothingToMint)
}

func TestMintRemainingBeforeClose(t *testing.T) {
	require := require.New(t)
	f, buyers := eightBuyerSale(t)

	_, err := f.eng.MintRemaining(Direct(buyers[0]))
	require.ErrorIs(err, ErrTooEarly)
}

func TestMintRemainingUnevenSplit(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	// Sell out the auction and presale; only the untouched early and
	// dev pools are left over.
	f.buyEth(buyer1, 10)
	f.buyEth(buyer2, 10)
	f.buyEth(buyer3, 4)

	proofs := f.presaleTree(outsider)
	f.now = saleStart.Add(6 * 24 * time.Hour)
	_, err := f.eng.AllowlistMint(Direct(outsider), 8, sale.Eth, ether(2), proofs[outsider])
	require.NoError(err)

	f.closeSale()
	_, err = f.eng.EarlyMint(Direct(owner), owner, 4) // early window long gone
	require.ErrorIs(err, ErrSaleStarted)

	// 8 items remain (the untouched early and dev pools) over 3 slots:
	// shares 3, 3, 2.
	require.Equal(uint64(3), f.eng.RemainingEntitlement(buyer1))
	require.Equal(uint64(2), f.eng.RemainingEntitlement(buyer3))

	for _, b := range []common.Address{buyer1, buyer2, buyer3} {
		_, err := f.eng.MintRemaining(Direct(b))
		require.NoError(err)
	}
	require.Equal(uint64(40), f.eng.TotalMinted())
}

func TestFreezeProtectsShares(t *testing.T) {
	require := require.New(t)
	f, buyers := eightBuyerSale(t)
	f.closeSale()

	// First claim freezes the pool at 10 over 8.
	_, err := f.eng.MintRemaining(Direct(buyers[0]))
	require.NoError(err)

	// The sweep cannot touch the 8 items still owed to the queue.
	_, err = f.eng.AdminFinalMint(Direct(owner), owner, 1)
	require.ErrorIs(err, ErrSupplyExceeded)

	for _, b := range buyers[1:] {
		_, err := f.eng.MintRemaining(Direct(b))
		require.NoError(err)
	}
	require.Equal(uint64(40), f.eng.TotalMinted())
}

func TestAdminFinalMintSweepsUnclaimed(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	// Nobody buys at all: no queue, the whole 40 is sweepable.
	f.closeSale()

	_, err := f.eng.AdminFinalMint(Direct(owner), owner, 0)
	require.ErrorIs(err, ErrBadQuantity)

	r, err := f.eng.AdminFinalMint(Direct(owner), owner, 40)
	require.NoError(err)
	require.Equal(uint32(40), r.Quantity)

	_, err = f.eng.AdminFinalMint(Direct(owner), owner, 1)
	require.ErrorIs(err, ErrSupplyExceeded)
}

func TestAdminFinalMintBeforeClose(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	_, err := f.eng.AdminFinalMint(Direct(owner), owner, 1)
	require.ErrorIs(err, ErrTooEarly)

	_, err = f.eng.AdminFinalMint(Direct(buyer1), buyer1, 1)
	require.ErrorIs(err, ErrNotOwner)
}
