package auction

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/mogul-productions/go-mogies-auction/sale"
	"github.com/mogul-productions/go-mogies-auction/utils/bits"
)

// Snapshot is the JSON form of the engine state, for shutdown and
// restart. It covers the sale ledger and rules; the item collection
// and the token ledger persist on their own.
type Snapshot struct {
	Rules sale.Rules  `json:"rules"`
	Root  common.Hash `json:"allowlistRoot"`

	Minted [poolCount]uint64 `json:"minted"`
	Queue  []common.Address  `json:"queue"`
	Buyers []snapshotRecord  `json:"buyers"`

	RemainingClaimed hexutil.Bytes `json:"remainingClaimed"`
	RebateClaimed    hexutil.Bytes `json:"rebateClaimed"`

	SettledEth   *hexutil.Big `json:"settledEth"`
	SettledStars *hexutil.Big `json:"settledStars"`
	ProceedsEth  *hexutil.Big `json:"proceedsEth"`

	Frozen        bool   `json:"frozen"`
	RemainingPool uint64 `json:"remainingPool"`
	QueueSize     uint32 `json:"queueSize"`
	Distributed   uint64 `json:"distributed"`
}

type snapshotRecord struct {
	Address       common.Address `json:"address"`
	Seq           uint32         `json:"seq"`
	FirstTier     uint32         `json:"firstTier"`
	FirstPrice    *hexutil.Big   `json:"firstPrice"`
	FirstCurrency sale.Currency  `json:"firstCurrency"`
	FirstQuantity uint32         `json:"firstQuantity"`
	TotalQuantity uint32         `json:"totalQuantity"`
}

// Snapshot captures the engine state as JSON.
func (e *Engine) Snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Rules:            e.rules.Copy(),
		Root:             e.root,
		Minted:           e.state.minted,
		Queue:            append([]common.Address(nil), e.state.queue...),
		RemainingClaimed: append([]byte(nil), e.state.remainingClaimed.Bytes...),
		RebateClaimed:    append([]byte(nil), e.state.rebateClaimed.Bytes...),
		SettledEth:       (*hexutil.Big)(new(big.Int).Set(e.state.settled[sale.Eth])),
		SettledStars:     (*hexutil.Big)(new(big.Int).Set(e.state.settled[sale.Stars])),
		ProceedsEth:      (*hexutil.Big)(new(big.Int).Set(e.state.proceedsEth)),
		Frozen:           e.state.frozen,
		RemainingPool:    e.state.remainingPool,
		QueueSize:        e.state.queueSize,
		Distributed:      e.state.distributed,
	}
	// Records marshal in queue order so snapshots diff cleanly.
	for _, addr := range e.state.queue {
		rec := e.state.records[addr]
		snap.Buyers = append(snap.Buyers, snapshotRecord{
			Address:       addr,
			Seq:           rec.Seq,
			FirstTier:     rec.FirstTier,
			FirstPrice:    (*hexutil.Big)(new(big.Int).Set(rec.FirstPrice)),
			FirstCurrency: rec.FirstCurrency,
			FirstQuantity: rec.FirstQuantity,
			TotalQuantity: rec.TotalQuantity,
		})
	}
	return json.MarshalIndent(snap, "", "\t")
}

// Restore replaces the engine state from a snapshot taken earlier.
// The collaborators (items, token ledger) must already hold their
// matching state.
func (e *Engine) Restore(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	if err := snap.Rules.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules = snap.Rules
	e.root = snap.Root

	st := newLedgerState(snap.Rules)
	st.minted = snap.Minted
	st.queue = append([]common.Address(nil), snap.Queue...)
	st.remainingClaimed = bits.Set{Bytes: append([]byte(nil), snap.RemainingClaimed...)}
	st.rebateClaimed = bits.Set{Bytes: append([]byte(nil), snap.RebateClaimed...)}
	if snap.SettledEth != nil {
		st.settled[sale.Eth].Set((*big.Int)(snap.SettledEth))
	}
	if snap.SettledStars != nil {
		st.settled[sale.Stars].Set((*big.Int)(snap.SettledStars))
	}
	if snap.ProceedsEth != nil {
		st.proceedsEth.Set((*big.Int)(snap.ProceedsEth))
	}
	st.frozen = snap.Frozen
	st.remainingPool = snap.RemainingPool
	st.queueSize = snap.QueueSize
	st.distributed = snap.Distributed

	for _, rec := range snap.Buyers {
		first := new(big.Int)
		if rec.FirstPrice != nil {
			first.Set((*big.Int)(rec.FirstPrice))
		}
		st.records[rec.Address] = &purchaseRecord{
			Seq:           rec.Seq,
			FirstTier:     rec.FirstTier,
			FirstPrice:    first,
			FirstCurrency: rec.FirstCurrency,
			FirstQuantity: rec.FirstQuantity,
			TotalQuantity: rec.TotalQuantity,
		}
	}

	e.state = st
	return nil
}
