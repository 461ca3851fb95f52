// Package store is the optional Postgres audit trail. The in-memory
// session stays authoritative; rows here are write-behind copies of
// recorded high hands and survive restarts for reporting only.
package store

import (
	"context"
	"embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"high-hand-board/server/session"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// InsertHighHand mirrors one recorded ledger entry.
func (db *DB) InsertHighHand(ctx context.Context, e session.Entry) error {
	var name any
	var rank any
	var cards any
	if e.Hand != nil {
		name = e.Hand.Name
		rank = int(e.Hand.Rank)
		cards = e.Hand.CardStrings()
	}
	_, err := db.Exec(ctx, `
        INSERT INTO high_hands(entry_id, recorded_at, player, description, amount, hand_name, hand_rank, cards)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, e.ID, e.At, e.Player, e.Description, e.Amount, name, rank, cards)
	return err
}

// DeleteHighHand removes the mirror rows for a deleted ledger entry.
func (db *DB) DeleteHighHand(ctx context.Context, entryID int64) error {
	_, err := db.Exec(ctx, `DELETE FROM high_hands WHERE entry_id = $1`, entryID)
	return err
}

type HighHand struct {
	ID          int64     `json:"id"`
	EntryID     int64     `json:"entry_id"`
	RecordedAt  time.Time `json:"recorded_at"`
	Player      string    `json:"player"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	HandName    *string   `json:"hand_name"`
	HandRank    *int      `json:"hand_rank"`
	Cards       []string  `json:"cards"`
}

// ListHighHands returns the most recent rows, newest first.
func (db *DB) ListHighHands(ctx context.Context, limit int) ([]HighHand, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	rows, err := db.Query(ctx, `
        SELECT id, entry_id, recorded_at, player, description, amount, hand_name, hand_rank, cards
          FROM high_hands
         ORDER BY id DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []HighHand{}
	for rows.Next() {
		var h HighHand
		if err := rows.Scan(&h.ID, &h.EntryID, &h.RecordedAt, &h.Player, &h.Description,
			&h.Amount, &h.HandName, &h.HandRank, &h.Cards); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// RankHistogram counts all-time recorded hands per hand rank.
func (db *DB) RankHistogram(ctx context.Context) (map[int]int, error) {
	rows, err := db.Query(ctx, `
        SELECT hand_rank, COUNT(*)::int
          FROM high_hands
         WHERE hand_rank IS NOT NULL
         GROUP BY hand_rank
         ORDER BY hand_rank
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int]int{}
	for rows.Next() {
		var rank, ct int
		if err := rows.Scan(&rank, &ct); err != nil {
			return nil, err
		}
		out[rank] = ct
	}
	return out, rows.Err()
}
