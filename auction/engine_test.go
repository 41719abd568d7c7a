package auction

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mogul-productions/go-mogies-auction/allowlist"
	"github.com/mogul-productions/go-mogies-auction/items"
	"github.com/mogul-productions/go-mogies-auction/sale"
	"github.com/mogul-productions/go-mogies-auction/token"
)

const saleStart = sale.Timestamp(1_000_000)

var (
	owner    = common.HexToAddress("0x0000000000000000000000000000000000000001")
	treasury = common.HexToAddress("0x0000000000000000000000000000000000000002")

	buyer1 = common.HexToAddress("0x0000000000000000000000000000000000000011")
	buyer2 = common.HexToAddress("0x0000000000000000000000000000000000000012")
	buyer3 = common.HexToAddress("0x0000000000000000000000000000000000000013")
	buyer4 = common.HexToAddress("0x0000000000000000000000000000000000000014")
	buyer5 = common.HexToAddress("0x0000000000000000000000000000000000000015")
	buyer6 = common.HexToAddress("0x0000000000000000000000000000000000000016")
	buyer7 = common.HexToAddress("0x0000000000000000000000000000000000000017")
	buyer8 = common.HexToAddress("0x0000000000000000000000000000000000000018")

	outsider = common.HexToAddress("0x0000000000000000000000000000000000000099")
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

// deciEther returns n tenths of an ETH in wei.
func deciEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether/10))
}

// fixture wires an engine to in-memory collaborators and a manual clock.
type fixture struct {
	t     *testing.T
	now   sale.Timestamp
	eng   *Engine
	stars *token.Mem
	coll  *items.Mem
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	f := &fixture{t: t, now: saleStart}

	rules := sale.FakeRules(saleStart)
	f.stars = token.NewMem(nil)
	f.coll = items.NewMem(rules.Collection.TotalSupply)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	opts = append([]Option{
		WithClock(func() sale.Timestamp { return f.now }),
		WithLogger(log),
	}, opts...)

	eng, err := New(rules, owner, treasury, f.stars, f.coll, opts...)
	require.NoError(t, err)
	f.eng = eng
	return f
}

// advance moves the clock forward.
func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// closeSale jumps past every window.
func (f *fixture) closeSale() {
	f.now = saleStart.Add(14 * 24 * time.Hour)
}

// fundStars credits and approves STARS so the holder can buy.
func (f *fixture) fundStars(holder common.Address, amount *big.Int) {
	f.stars.Mint(holder, amount)
	require.NoError(f.t, f.stars.Approve(holder, treasury, amount))
}

// buyEth performs an exact-payment ETH auction purchase.
func (f *fixture) buyEth(buyer common.Address, qty uint32) *Receipt {
	price, _ := f.eng.Price(sale.Eth)
	cost := new(big.Int).Mul(price, big.NewInt(int64(qty)))
	r, err := f.eng.AuctionMint(Direct(buyer), qty, sale.Eth, cost)
	require.NoError(f.t, err)
	return r
}

// buyStars performs a STARS auction purchase, funding the buyer first.
func (f *fixture) buyStars(buyer common.Address, qty uint32) *Receipt {
	price, _ := f.eng.Price(sale.Stars)
	cost := new(big.Int).Mul(price, big.NewInt(int64(qty)))
	f.fundStars(buyer, cost)
	r, err := f.eng.AuctionMint(Direct(buyer), qty, sale.Stars, nil)
	require.NoError(f.t, err)
	return r
}

// presaleTree builds a sorted-pair Merkle tree over the members and
// publishes its root, returning each member's proof.
func (f *fixture) presaleTree(members ...common.Address) map[common.Address][]common.Hash {
	leaves := make([]common.Hash, len(members))
	for i, m := range members {
		leaves[i] = allowlist.Leaf(m)
	}

	proofs := make([][]common.Hash, len(leaves))
	idx := make([]int, len(leaves))
	for i := range idx {
		idx[i] = i
	}
	level := append([]common.Hash(nil), leaves...)
	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, hashPairForTest(level[i], level[i+1]))
		}
		for leaf, pos := range idx {
			if sibling := pos ^ 1; sibling < len(level) {
				proofs[leaf] = append(proofs[leaf], level[sibling])
			}
			idx[leaf] = pos / 2
		}
		level = next
	}

	require.NoError(f.t, f.eng.SetAllowlistRoot(Direct(owner), level[0]))

	byAddr := make(map[common.Address][]common.Hash, len(members))
	for i, m := range members {
		byAddr[m] = proofs[i]
	}
	return byAddr
}

func hashPairForTest(a, b common.Hash) common.Hash {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a.Bytes(), b.Bytes())
}

func TestNewRejectsInvalidRules(t *testing.T) {
	rules := sale.FakeRules(saleStart)
	rules.Eth.StartPrice = nil
	_, err := New(rules, owner, treasury, token.NewMem(nil), items.NewMem(10))
	require.Error(t, err)
}

func TestDirectCaller(t *testing.T) {
	c := Direct(buyer1)
	require.Equal(t, buyer1, c.Origin)
	require.Equal(t, buyer1, c.Sender)
}
