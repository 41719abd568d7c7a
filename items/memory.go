package items

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Mem is an in-memory Collection. Owners are stored densely by id since
// ids are assigned sequentially from 1.
type Mem struct {
	mu     sync.Mutex
	max    uint64
	owners []common.Address // owners[i] holds id i+1
	held   map[common.Address]uint64
}

func NewMem(maxSupply uint64) *Mem {
	return &Mem{
		max:  maxSupply,
		held: make(map[common.Address]uint64),
	}
}

func (m *Mem) Mint(to common.Address, qty uint32) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uint64(len(m.owners))+uint64(qty) > m.max {
		return 0, ErrSoldOut
	}
	firstID := uint64(len(m.owners)) + 1
	for i := uint32(0); i < qty; i++ {
		m.owners = append(m.owners, to)
	}
	m.held[to] += uint64(qty)
	return firstID, nil
}

func (m *Mem) TotalMinted() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.owners))
}

func (m *Mem) MaxSupply() uint64 {
	return m.max
}

func (m *Mem) OwnerOf(id uint64) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > uint64(len(m.owners)) {
		return common.Address{}, ErrUnknownToken
	}
	return m.owners[id-1], nil
}

func (m *Mem) BalanceOf(owner common.Address) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[owner]
}
