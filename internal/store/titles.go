package store

import (
	"database/sql"
	"fmt"
)

// Title represents one catalog title (movie, short, series episode...)
type Title struct {
	TConst         string
	TitleType      sql.NullString
	PrimaryTitle   string
	OriginalTitle  sql.NullString
	IsAdult        bool
	StartYear      sql.NullInt64
	EndYear        sql.NullInt64
	RuntimeMinutes sql.NullInt64
	Genres         sql.NullString
}

// InsertTitleBatch inserts a batch of titles in a single transaction,
// ignoring rows whose tconst already exists.
func (s *Store) InsertTitleBatch(batch []*Title) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO titles (
			tconst, title_type, primary_title, original_title, is_adult,
			start_year, end_year, runtime_minutes, genres
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range batch {
		adult := 0
		if t.IsAdult {
			adult = 1
		}
		_, err := stmt.Exec(
			t.TConst, t.TitleType, t.PrimaryTitle, t.OriginalTitle, adult,
			t.StartYear, t.EndYear, t.RuntimeMinutes, t.Genres,
		)
		if err != nil {
			return fmt.Errorf("failed to insert title %s: %w", t.TConst, err)
		}
	}

	return tx.Commit()
}

// TitleIDs returns the set of all persisted title identifiers
func (s *Store) TitleIDs() (map[string]struct{}, error) {
	return s.idSet("SELECT tconst FROM titles")
}

// CountTitles returns the number of persisted titles
func (s *Store) CountTitles() (int64, error) {
	return s.count("titles")
}

// GetTitle retrieves a title by identifier, or nil if absent
func (s *Store) GetTitle(tconst string) (*Title, error) {
	t := &Title{}
	var adult int
	err := s.db.QueryRow(`
		SELECT tconst, title_type, primary_title, original_title, is_adult,
		       start_year, end_year, runtime_minutes, genres
		FROM titles WHERE tconst = ?
	`, tconst).Scan(
		&t.TConst, &t.TitleType, &t.PrimaryTitle, &t.OriginalTitle, &adult,
		&t.StartYear, &t.EndYear, &t.RuntimeMinutes, &t.Genres,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get title: %w", err)
	}

	t.IsAdult = adult == 1
	return t, nil
}
