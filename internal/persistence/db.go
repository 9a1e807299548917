// Package persistence provides SQLite-based game state storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/polity/internal/finance"
	"github.com/talgya/polity/internal/policy"
	"github.com/talgya/polity/internal/social"
	"github.com/talgya/polity/internal/store"
)

// ErrNoState is returned by loaders when nothing was saved yet.
var ErrNoState = errors.New("no saved state")

// Meta keys.
const (
	MetaDay           = "last_day"
	MetaSeed          = "seed"
	MetaStoreVersion  = "store_version"
	MetaElectionLevel = "election_level"
	MetaLawID         = "law_id"
)

// DB wraps a SQLite connection for game state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path. ":memory:" works for tests.
func Open(path string) (*DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		dsn = path
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS actor_columns (
		grp TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (grp, actor_id)
	);

	CREATE TABLE IF NOT EXISTS parties (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS donations (
		id TEXT PRIMARY KEY,
		recipient_id TEXT NOT NULL,
		donor_id TEXT NOT NULL,
		donor_name TEXT NOT NULL,
		donor_type TEXT NOT NULL,
		amount REAL NOT NULL,
		day INTEGER NOT NULL,
		date TEXT NOT NULL,
		is_anonymous INTEGER NOT NULL,
		requires_disclosure INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS policy_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		state_json TEXT NOT NULL,
		recurring_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_columns_order ON actor_columns(grp, position);
	CREATE INDEX IF NOT EXISTS idx_donations_recipient ON donations(recipient_id, day);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}
	slog.Info("database migrated")
	return nil
}

// SaveSnapshot writes every attribute group of a snapshot (full replace).
func (db *DB) SaveSnapshot(s *store.Snapshot) error {
	cols := s.Columns()

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM actor_columns"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO actor_columns (grp, actor_id, position, payload)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range store.Groups {
		rows, err := cols.Group(g)
		if err != nil {
			return err
		}
		for i, r := range rows {
			payload, err := json.Marshal(r.Value)
			if err != nil {
				return fmt.Errorf("encode %s/%s: %w", g, r.ID, err)
			}
			if _, err := stmt.Exec(string(g), r.ID, i, string(payload)); err != nil {
				return fmt.Errorf("insert %s/%s: %w", g, r.ID, err)
			}
		}
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		MetaStoreVersion, strconv.FormatUint(cols.Version, 10)); err != nil {
		return err
	}

	return tx.Commit()
}

type columnRow struct {
	Group   string `db:"grp"`
	ActorID string `db:"actor_id"`
	Payload string `db:"payload"`
}

type rawRow struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

// LoadSnapshot rebuilds the saved snapshot, preserving row order and version.
func (db *DB) LoadSnapshot() (*store.Snapshot, error) {
	var rows []columnRow
	if err := db.conn.Select(&rows,
		"SELECT grp, actor_id, payload FROM actor_columns ORDER BY grp, position"); err != nil {
		return nil, fmt.Errorf("select columns: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoState
	}

	var version uint64
	if v, err := db.GetMeta(MetaStoreVersion); err == nil {
		version, _ = strconv.ParseUint(v, 10, 64)
	}

	doc := map[string]any{"version": version}
	grouped := map[string][]rawRow{}
	for _, r := range rows {
		grouped[r.Group] = append(grouped[r.Group], rawRow{ID: r.ActorID, Value: json.RawMessage(r.Payload)})
	}
	for g, rs := range grouped {
		doc[g] = rs
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("assemble columns: %w", err)
	}
	var cols store.Columns
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	return store.FromColumns(cols), nil
}

// SaveParties writes all parties (full replace).
func (db *DB) SaveParties(parties []*social.Party) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM parties"); err != nil {
		return err
	}
	for i, p := range parties {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode party %s: %w", p.ID, err)
		}
		if _, err := tx.Exec("INSERT INTO parties (id, position, name, payload) VALUES (?, ?, ?, ?)",
			p.ID, i, p.Name, string(payload)); err != nil {
			return fmt.Errorf("insert party %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// LoadParties returns the saved parties in their original order.
func (db *DB) LoadParties() ([]*social.Party, error) {
	var payloads []string
	if err := db.conn.Select(&payloads, "SELECT payload FROM parties ORDER BY position"); err != nil {
		return nil, fmt.Errorf("select parties: %w", err)
	}
	parties := make([]*social.Party, 0, len(payloads))
	for _, raw := range payloads {
		var p social.Party
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode party: %w", err)
		}
		parties = append(parties, &p)
	}
	return parties, nil
}

type donationRow struct {
	ID                 string  `db:"id"`
	RecipientID        string  `db:"recipient_id"`
	DonorID            string  `db:"donor_id"`
	DonorName          string  `db:"donor_name"`
	DonorType          string  `db:"donor_type"`
	Amount             float64 `db:"amount"`
	Day                int     `db:"day"`
	Date               string  `db:"date"`
	IsAnonymous        bool    `db:"is_anonymous"`
	RequiresDisclosure bool    `db:"requires_disclosure"`
}

// SaveDonations appends donations to the ledger. Already stored ids are kept.
func (db *DB) SaveDonations(donations []finance.Donation) error {
	if len(donations) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range donations {
		_, err := tx.NamedExec(`INSERT OR IGNORE INTO donations
			(id, recipient_id, donor_id, donor_name, donor_type, amount, day, date,
			 is_anonymous, requires_disclosure)
			VALUES (:id, :recipient_id, :donor_id, :donor_name, :donor_type, :amount, :day, :date,
			 :is_anonymous, :requires_disclosure)`,
			donationRow{
				ID:                 d.ID,
				RecipientID:        d.RecipientID,
				DonorID:            d.DonorID,
				DonorName:          d.DonorName,
				DonorType:          string(d.DonorType),
				Amount:             d.Amount,
				Day:                d.Day,
				Date:               d.Date.Format(time.RFC3339),
				IsAnonymous:        d.IsAnonymous,
				RequiresDisclosure: d.RequiresDisclosure,
			})
		if err != nil {
			return fmt.Errorf("insert donation %s: %w", d.ID, err)
		}
	}

	return tx.Commit()
}

// RecentDonations returns the latest donations to one recipient, newest day first and
// largest first within a day.
func (db *DB) RecentDonations(recipientID string, limit int) ([]finance.Donation, error) {
	var rows []donationRow
	err := db.conn.Select(&rows,
		`SELECT id, recipient_id, donor_id, donor_name, donor_type, amount, day, date,
			is_anonymous, requires_disclosure
		FROM donations WHERE recipient_id = ? ORDER BY day DESC, amount DESC LIMIT ?`,
		recipientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select donations: %w", err)
	}

	out := make([]finance.Donation, len(rows))
	for i, r := range rows {
		date, _ := time.Parse(time.RFC3339, r.Date)
		out[i] = finance.Donation{
			ID:                 r.ID,
			DonorID:            r.DonorID,
			DonorName:          r.DonorName,
			DonorType:          finance.DonorType(r.DonorType),
			RecipientID:        r.RecipientID,
			Amount:             r.Amount,
			Day:                r.Day,
			Date:               date,
			IsAnonymous:        r.IsAnonymous,
			RequiresDisclosure: r.RequiresDisclosure,
		}
	}
	return out, nil
}

// SavePolicyState stores jurisdiction statistics and the registered recurring effects.
func (db *DB) SavePolicyState(state *policy.State, recurring []policy.RawDescriptor) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode policy state: %w", err)
	}
	if recurring == nil {
		recurring = []policy.RawDescriptor{}
	}
	recurringJSON, err := json.Marshal(recurring)
	if err != nil {
		return fmt.Errorf("encode recurring effects: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO policy_state (id, state_json, recurring_json) VALUES (1, ?, ?)",
		string(stateJSON), string(recurringJSON),
	)
	return err
}

// LoadPolicyState returns the saved statistics and recurring effects. Numbers come back
// as float64.
func (db *DB) LoadPolicyState() (*policy.State, []policy.RawDescriptor, error) {
	var row struct {
		State     string `db:"state_json"`
		Recurring string `db:"recurring_json"`
	}
	err := db.conn.Get(&row, "SELECT state_json, recurring_json FROM policy_state WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNoState
	}
	if err != nil {
		return nil, nil, fmt.Errorf("select policy state: %w", err)
	}

	state := policy.NewState()
	if err := json.Unmarshal([]byte(row.State), state); err != nil {
		return nil, nil, fmt.Errorf("decode policy state: %w", err)
	}
	var recurring []policy.RawDescriptor
	if err := json.Unmarshal([]byte(row.Recurring), &recurring); err != nil {
		return nil, nil, fmt.Errorf("decode recurring effects: %w", err)
	}
	return state, recurring, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasWorldState reports whether a game was saved.
func (db *DB) HasWorldState() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM actor_columns WHERE grp = ?", string(store.GroupBase)); err != nil {
		return false
	}
	return n > 0
}
