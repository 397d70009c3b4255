package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"lostfound/internal/domain"
	"lostfound/internal/ports"
)

// Collection names map to fixed tables; anything else is rejected so
// collection strings never reach SQL directly.
var tables = map[string]string{
	domain.ClaimCollection:     "claim_requests",
	domain.LostItemCollection:  "lost_items",
	domain.FoundItemCollection: "found_items",
}

func tableFor(collection string) (string, error) {
	t, ok := tables[collection]
	if !ok {
		return "", fmt.Errorf("unknown collection %q", collection)
	}
	return t, nil
}

// Get fetches one record by id. Returns ports.ErrNotFound when absent.
func (db *DB) Get(ctx context.Context, collection, id string) (domain.Record, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	var raw []byte
	err = db.Pool.QueryRow(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, table), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Set writes a whole record, creating or replacing it.
func (db *DB) Set(ctx context.Context, collection, id string, doc domain.Record) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	payload, stamps, err := marshalFields(doc)
	if err != nil {
		return err
	}
	expr := stampExpr("$2::jsonb", stamps)
	_, err = db.Pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES ($1, %s)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, table, expr), id, payload)
	return err
}

// Update merges fields into an existing record. domain.ServerTimestamp values
// are stamped with the database clock. Returns ports.ErrNotFound when the
// record does not exist.
func (db *DB) Update(ctx context.Context, collection, id string, fields domain.Record) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	payload, stamps, err := marshalFields(fields)
	if err != nil {
		return err
	}
	expr := stampExpr("doc || $2::jsonb", stamps)
	tag, err := db.Pool.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET doc = %s, updated_at = now() WHERE id = $1`, table, expr), id, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Query returns all records whose field equals value.
func (db *DB) Query(ctx context.Context, collection, field, value string) ([]domain.Record, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	rows, err := db.Pool.Query(ctx, fmt.Sprintf(
		`SELECT doc FROM %s WHERE doc ->> $1 = $2 ORDER BY created_at`, table), field, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec domain.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// marshalFields splits server-timestamp markers out of a record and marshals
// the rest. The returned keys are stamped in SQL.
func marshalFields(fields domain.Record) ([]byte, []string, error) {
	var stamps []string
	plain := make(domain.Record, len(fields))
	for k, v := range fields {
		if _, ok := v.(domain.ServerTimestamp); ok {
			stamps = append(stamps, k)
			continue
		}
		plain[k] = v
	}
	payload, err := json.Marshal(plain)
	if err != nil {
		return nil, nil, err
	}
	return payload, stamps, nil
}

// stampExpr wraps a jsonb expression in jsonb_set calls writing now() into
// each stamped key. Keys are interpolated into SQL and must not contain quotes.
func stampExpr(expr string, stamps []string) string {
	for _, key := range stamps {
		key = strings.ReplaceAll(key, "'", "")
		expr = fmt.Sprintf(`jsonb_set(%s, '{%s}', to_jsonb(now()))`, expr, key)
	}
	return expr
}
