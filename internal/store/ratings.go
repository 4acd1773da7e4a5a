package store

import (
	"database/sql"
	"fmt"
)

// Rating represents the vote aggregate of one title
type Rating struct {
	TConst        string
	AverageRating sql.NullFloat64
	NumVotes      sql.NullInt64
}

// InsertRatingBatch inserts a batch of ratings in a single transaction,
// ignoring rows whose tconst already has a rating.
func (s *Store) InsertRatingBatch(batch []*Rating) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO ratings (tconst, average_rating, num_votes)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch {
		if _, err := stmt.Exec(r.TConst, r.AverageRating, r.NumVotes); err != nil {
			return fmt.Errorf("failed to insert rating %s: %w", r.TConst, err)
		}
	}

	return tx.Commit()
}

// RatingIDs returns the set of title identifiers that already have a rating
func (s *Store) RatingIDs() (map[string]struct{}, error) {
	return s.idSet("SELECT tconst FROM ratings")
}

// CountRatings returns the number of persisted ratings
func (s *Store) CountRatings() (int64, error) {
	return s.count("ratings")
}

// GetRating retrieves the rating of a title, or nil if absent
func (s *Store) GetRating(tconst string) (*Rating, error) {
	r := &Rating{}
	err := s.db.QueryRow(`
		SELECT tconst, average_rating, num_votes FROM ratings WHERE tconst = ?
	`, tconst).Scan(&r.TConst, &r.AverageRating, &r.NumVotes)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return r, nil
}
