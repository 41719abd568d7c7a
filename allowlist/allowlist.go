// Package allowlist verifies Merkle membership proofs for the presale.
//
// The tree is built off-system (merkletreejs with keccak256 leaves and
// sorted pairs); this package only recomputes the root from a leaf and a
// sibling path and compares it against the published root.
package allowlist

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrZeroAddress is returned when a proof is checked for the zero address.
// The zero-address leaf is a degenerate hash input and is always rejected.
var ErrZeroAddress = errors.New("zero address not on allow list")

// Leaf computes the tree leaf for an address: keccak256 of the raw 20 bytes.
func Leaf(addr common.Address) common.Hash {
	return crypto.Keccak256Hash(addr.Bytes())
}

// hashPair combines two nodes in canonical (sorted) order, so the prover
// does not need to encode left/right direction bits.
func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a.Bytes(), b.Bytes())
}

// Verify recomputes the Merkle root from the address leaf and the proof
// path and compares it to root. It fails closed: a zero address is an
// error, an empty root never verifies.
func Verify(root common.Hash, proof []common.Hash, addr common.Address) (bool, error) {
	if addr == (common.Address{}) {
		return false, ErrZeroAddress
	}
	if root == (common.Hash{}) {
		return false, nil
	}
	node := Leaf(addr)
	for _, sibling := range proof {
		node = hashPair(node, sibling)
	}
	return node == root, nil
}

// ParseProof decodes a comma-separated list of 0x-prefixed 32-byte hex
// hashes, the wire form used by the query surface.
func ParseProof(raw string) ([]common.Hash, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	proof := make([]common.Hash, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		b := common.FromHex(part)
		if len(b) != common.HashLength {
			return nil, errors.New("malformed proof element: " + part)
		}
		proof = append(proof, common.BytesToHash(b))
	}
	return proof, nil
}
