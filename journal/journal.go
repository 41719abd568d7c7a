// Package journal persists an append-only record of sale events to
// SQLite, for reconciliation and audit after the sale closes.
package journal

import (
	"database/sql"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	_ "github.com/mattn/go-sqlite3"
)

// Event kinds, one per state-changing sale operation.
const (
	KindAuctionMint   = "auction_mint"
	KindAllowlistMint = "allowlist_mint"
	KindPublicMint    = "public_mint"
	KindEarlyMint     = "early_mint"
	KindDevMint       = "dev_mint"
	KindRemainingMint = "remaining_mint"
	KindAdminMint     = "admin_final_mint"
	KindRebate        = "rebate"
	KindWithdraw      = "withdraw"
)

// Event is a single journal row. UnitPrice and Amount are decimal wei
// strings; Amount is the total value moved by the event.
type Event struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Address   string `json:"address"`
	Quantity  uint32 `json:"quantity"`
	Currency  string `json:"currency"`
	UnitPrice string `json:"unit_price"`
	Amount    string `json:"amount"`
	Tier      uint32 `json:"tier"`
	Timestamp uint64 `json:"timestamp"`
}

// Journal handles the SQLite event log.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path. Pass ":memory:"
// for an ephemeral journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return j, nil
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		address TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT '',
		unit_price TEXT NOT NULL DEFAULT '0',
		amount TEXT NOT NULL DEFAULT '0',
		tier INTEGER NOT NULL DEFAULT 0,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_address ON events(address);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append writes one event. Nil prices are recorded as zero.
func (j *Journal) Append(e Event) error {
	_, err := j.db.Exec(
		`INSERT INTO events (kind, address, quantity, currency, unit_price, amount, tier, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Kind, e.Address, e.Quantity, e.Currency, e.UnitPrice, e.Amount, e.Tier, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append %s event: %w", e.Kind, err)
	}
	return nil
}

// Events returns all rows in insertion order.
func (j *Journal) Events() ([]Event, error) {
	return j.query(`SELECT id, kind, address, quantity, currency, unit_price, amount, tier, timestamp
		FROM events ORDER BY id`)
}

// EventsByAddress returns the rows touching one address, in insertion order.
func (j *Journal) EventsByAddress(addr common.Address) ([]Event, error) {
	return j.query(`SELECT id, kind, address, quantity, currency, unit_price, amount, tier, timestamp
		FROM events WHERE address = ? ORDER BY id`, addr.Hex())
}

func (j *Journal) query(q string, args ...interface{}) ([]Event, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		err := rows.Scan(&e.ID, &e.Kind, &e.Address, &e.Quantity, &e.Currency,
			&e.UnitPrice, &e.Amount, &e.Tier, &e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// WeiString renders a wei amount for storage. Nil is "0".
func WeiString(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}
