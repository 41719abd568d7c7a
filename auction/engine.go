// Package auction implements the fixed-supply multi-phase sale: a
// stepped-price auction in two currencies, an allow-listed presale, a
// fair distribution of leftover supply over the auction buyers, and a
// rebate that equalizes every auction buyer down to the settled price.
package auction

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/mogul-productions/go-mogies-auction/items"
	"github.com/mogul-productions/go-mogies-auction/journal"
	"github.com/mogul-productions/go-mogies-auction/sale"
	"github.com/mogul-productions/go-mogies-auction/token"
)

// Caller identifies who is invoking an operation. Origin is the
// transaction originator, Sender the immediate caller; buyer-facing
// operations reject calls where the two differ.
type Caller struct {
	Origin common.Address
	Sender common.Address
}

// Direct builds a Caller for a plain, un-relayed invocation.
func Direct(addr common.Address) Caller {
	return Caller{Origin: addr, Sender: addr}
}

// Engine runs one sale. All exported methods are safe for concurrent
// use.
type Engine struct {
	mu sync.Mutex

	rules   sale.Rules
	owner   common.Address
	account common.Address // holds proceeds and the rebate float
	root    common.Hash

	stars token.Ledger
	items items.Collection

	now  func() sale.Timestamp
	log  logrus.Ext1FieldLogger
	jrnl *journal.Journal

	state ledgerState
}

// Option tweaks an Engine at construction.
type Option func(*Engine)

// WithLogger replaces the default logger.
func WithLogger(log logrus.Ext1FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock replaces the wall clock, for tests and replays.
func WithClock(now func() sale.Timestamp) Option {
	return func(e *Engine) { e.now = now }
}

// WithJournal attaches a persistent event journal.
func WithJournal(j *journal.Journal) Option {
	return func(e *Engine) { e.jrnl = j }
}

// WithAllowlistRoot sets the presale Merkle root at construction.
func WithAllowlistRoot(root common.Hash) Option {
	return func(e *Engine) { e.root = root }
}

// New builds an Engine for the given rules. The owner address gates
// the admin operations; the account address holds STARS proceeds and
// pays rebates.
func New(rules sale.Rules, owner, account common.Address, stars token.Ledger, coll items.Collection, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		rules:   rules,
		owner:   owner,
		account: account,
		stars:   stars,
		items:   coll,
		now:     sale.Now,
		log:     logrus.New(),
		state:   newLedgerState(rules),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) guardDirect(c Caller) error {
	if c.Sender != c.Origin {
		return ErrRelayedCall
	}
	return nil
}

func (e *Engine) guardOwner(c Caller) error {
	if c.Sender != e.owner {
		return ErrNotOwner
	}
	return nil
}

// journalize appends an event if a journal is attached. Journal
// failures are logged, not propagated: the sale state has already
// moved.
func (e *Engine) journalize(ev journal.Event) {
	if e.jrnl == nil {
		return
	}
	ev.Timestamp = uint64(e.now())
	if err := e.jrnl.Append(ev); err != nil {
		e.log.WithError(err).WithField("kind", ev.Kind).Error("journal append failed")
	}
}
