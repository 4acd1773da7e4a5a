package store

import (
	"database/sql"
	"fmt"
)

// Principal represents one person's involvement in one title.
// Characters keeps the source's raw value (often a JSON array string).
type Principal struct {
	TConst     string
	NConst     string
	Ordering   int64
	Category   string
	Job        sql.NullString
	Characters sql.NullString
}

// Key returns the composite identity of the principal row
func (p *Principal) Key() string {
	return PrincipalKey(p.TConst, p.NConst, p.Ordering, p.Category)
}

// PrincipalKey builds the composite identity used for duplicate detection.
// tconst and nconst are plain alphanumeric identifiers, so "|" is a safe
// separator.
func PrincipalKey(tconst, nconst string, ordering int64, category string) string {
	return fmt.Sprintf("%s|%s|%d|%s", tconst, nconst, ordering, category)
}

// InsertPrincipalBatch inserts a batch of principals in a single
// transaction, ignoring rows that violate the composite uniqueness.
func (s *Store) InsertPrincipalBatch(batch []*Principal) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO principals (
			tconst, nconst, ordering, category, job, characters
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range batch {
		_, err := stmt.Exec(p.TConst, p.NConst, p.Ordering, p.Category, p.Job, p.Characters)
		if err != nil {
			return fmt.Errorf("failed to insert principal %s: %w", p.Key(), err)
		}
	}

	return tx.Commit()
}

// PrincipalKeys returns the composite identities of all persisted principals
func (s *Store) PrincipalKeys() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT tconst, nconst, ordering, category FROM principals")
	if err != nil {
		return nil, fmt.Errorf("failed to list principals: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var tconst, nconst, category string
		var ordering int64
		if err := rows.Scan(&tconst, &nconst, &ordering, &category); err != nil {
			return nil, fmt.Errorf("failed to scan principal: %w", err)
		}
		keys[PrincipalKey(tconst, nconst, ordering, category)] = struct{}{}
	}
	return keys, rows.Err()
}

// CountPrincipals returns the number of persisted principals
func (s *Store) CountPrincipals() (int64, error) {
	return s.count("principals")
}
