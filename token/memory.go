package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Mem is an in-memory Ledger. Balances are seeded from a genesis map at
// construction, the way a fake-net genesis seeds its accounts.
type Mem struct {
	mu        sync.Mutex
	balances  map[common.Address]*big.Int
	allowance map[common.Address]map[common.Address]*big.Int
}

// NewMem creates a ledger holding the given genesis balances.
func NewMem(genesis map[common.Address]*big.Int) *Mem {
	m := &Mem{
		balances:  make(map[common.Address]*big.Int, len(genesis)),
		allowance: make(map[common.Address]map[common.Address]*big.Int),
	}
	for addr, amount := range genesis {
		m.balances[addr] = new(big.Int).Set(amount)
	}
	return m
}

func (m *Mem) BalanceOf(owner common.Address) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(big.Int).Set(m.balance(owner))
}

func (m *Mem) Allowance(owner, spender common.Address) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.allowance[owner][spender]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

func (m *Mem) Approve(owner, spender common.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.allowance[owner] == nil {
		m.allowance[owner] = make(map[common.Address]*big.Int)
	}
	m.allowance[owner][spender] = new(big.Int).Set(amount)
	return nil
}

func (m *Mem) Transfer(from, to common.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.move(from, to, amount)
}

func (m *Mem) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.allowance[from][spender]
	if !ok || a.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := m.move(from, to, amount); err != nil {
		return err
	}
	a.Sub(a, amount)
	return nil
}

// Mint credits fresh tokens to an account. Used by tests and by the
// rebate pool funding path.
func (m *Mem) Mint(to common.Address, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance(to).Add(m.balance(to), amount)
}

func (m *Mem) balance(owner common.Address) *big.Int {
	b, ok := m.balances[owner]
	if !ok {
		b = new(big.Int)
		m.balances[owner] = b
	}
	return b
}

func (m *Mem) move(from, to common.Address, amount *big.Int) error {
	src := m.balance(from)
	if src.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	src.Sub(src, amount)
	dst := m.balance(to)
	dst.Add(dst, amount)
	return nil
}
