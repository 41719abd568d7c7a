// Package token defines the fungible token ledger the sale charges
// STARS payments against.
package token

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

// Ledger is the ERC20-shaped surface the sale engine needs. Amounts are
// in the token's smallest unit.
type Ledger interface {
	BalanceOf(owner common.Address) *big.Int
	Allowance(owner, spender common.Address) *big.Int
	Approve(owner, spender common.Address, amount *big.Int) error
	Transfer(from, to common.Address, amount *big.Int) error
	TransferFrom(spender, from, to common.Address, amount *big.Int) error
}
