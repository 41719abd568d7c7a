// Package items tracks ownership of the fixed-supply collection the
// sale distributes.
package items

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrSoldOut      = errors.New("purchase would exceed max supply")
	ErrUnknownToken = errors.New("unknown token id")
)

// Collection mints sequentially-numbered items up to a fixed cap.
// Token ids start at 1 and a batch mint assigns a contiguous range.
type Collection interface {
	// Mint assigns qty fresh ids to the recipient and returns the first
	// id of the batch.
	Mint(to common.Address, qty uint32) (firstID uint64, err error)
	// TotalMinted reports how many items exist so far.
	TotalMinted() uint64
	// MaxSupply reports the fixed cap.
	MaxSupply() uint64
	// OwnerOf resolves an id minted earlier.
	OwnerOf(id uint64) (common.Address, error)
	// BalanceOf counts the items held by an address.
	BalanceOf(owner common.Address) uint64
}
