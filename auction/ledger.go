package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mogul-productions/go-mogies-auction/sale"
	"github.com/mogul-productions/go-mogies-auction/utils/bits"
)

// Pool identifies one of the fixed mint budgets.
type Pool int

const (
	PoolEarly Pool = iota
	PoolDev
	PoolAuction
	PoolAllowlist
	PoolPublic

	poolCount
)

func (p Pool) String() string {
	switch p {
	case PoolEarly:
		return "early"
	case PoolDev:
		return "dev"
	case PoolAuction:
		return "auction"
	case PoolAllowlist:
		return "allowlist"
	case PoolPublic:
		return "public"
	}
	return "unknown"
}

// purchaseRecord tracks one buyer's auction-phase activity. The First*
// fields are frozen at the buyer's first auction purchase; they drive
// the rebate and the remaining-supply entitlement.
type purchaseRecord struct {
	Seq           uint32
	FirstTier     uint32
	FirstPrice    *big.Int
	FirstCurrency sale.Currency
	FirstQuantity uint32
	TotalQuantity uint32
}

// ledgerState is the mutable sale state guarded by the engine mutex.
type ledgerState struct {
	minted  [poolCount]uint64
	queue   []common.Address
	records map[common.Address]*purchaseRecord

	remainingClaimed bits.Set
	rebateClaimed    bits.Set

	// Lowest unit price paid during the auction phase, per currency,
	// initialized to the tier-0 price. Never increases.
	settled [2]*big.Int

	proceedsEth *big.Int

	// Remaining-supply distribution parameters, frozen at the first
	// post-close claim so late admin mints cannot skew shares.
	frozen        bool
	remainingPool uint64
	queueSize     uint32
	distributed   uint64
}

func newLedgerState(rules sale.Rules) ledgerState {
	return ledgerState{
		records: make(map[common.Address]*purchaseRecord),
		settled: [2]*big.Int{
			new(big.Int).Set(rules.Eth.StartPrice),
			new(big.Int).Set(rules.Stars.StartPrice),
		},
		proceedsEth: new(big.Int),
	}
}

// record returns the buyer's purchase record, creating it with the next
// queue slot on first use.
func (s *ledgerState) record(buyer common.Address) *purchaseRecord {
	r, ok := s.records[buyer]
	if !ok {
		r = &purchaseRecord{Seq: uint32(len(s.queue))}
		s.records[buyer] = r
		s.queue = append(s.queue, buyer)
	}
	return r
}

// settleDown lowers the settled price for a currency if the paid unit
// price undercuts it.
func (s *ledgerState) settleDown(c sale.Currency, paid *big.Int) {
	if paid.Cmp(s.settled[c]) < 0 {
		s.settled[c].Set(paid)
	}
}

// entitlement computes the remaining-supply share owed to queue slot
// seq after the pool has been frozen: an even split of the pool over
// the queue, with the first pool%size slots taking the odd items.
func (s *ledgerState) entitlement(seq uint32) uint64 {
	if s.queueSize == 0 {
		return 0
	}
	share := s.remainingPool / uint64(s.queueSize)
	if uint64(seq) < s.remainingPool%uint64(s.queueSize) {
		share++
	}
	return share
}
