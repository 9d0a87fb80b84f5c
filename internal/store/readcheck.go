package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ReadCheck is a zero-row query proving that a relation has the columns a backend reads.
type ReadCheck struct {
	Relation string
	Query    string
}

// CheckReads runs every check and reports the first relation that fails.
func CheckReads(ctx context.Context, db *sql.DB, checks []ReadCheck) error {
	for _, p := range checks {
		rows, err := db.QueryContext(ctx, p.Query)
		if err != nil {
			return fmt.Errorf("schema check %s: %w", p.Relation, err)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("schema check %s: %w", p.Relation, err)
		}
	}
	return nil
}
