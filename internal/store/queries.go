package store

import (
	"database/sql"
	"fmt"
)

// TitleSummary is one search result row
type TitleSummary struct {
	TConst        string
	PrimaryTitle  string
	StartYear     sql.NullInt64
	RuntimeMin    sql.NullInt64
	Genres        sql.NullString
	AverageRating sql.NullFloat64
	NumVotes      sql.NullInt64
}

// SearchTitles finds titles whose display name contains the query,
// case-insensitively, newest first. Rating columns are NULL for unrated
// titles.
func (s *Store) SearchTitles(query string, limit int) ([]*TitleSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT t.tconst, t.primary_title, t.start_year, t.runtime_minutes, t.genres,
		       r.average_rating, r.num_votes
		FROM titles t
		LEFT JOIN ratings r ON r.tconst = t.tconst
		WHERE t.primary_title LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY t.start_year DESC, t.tconst
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search titles: %w", err)
	}
	defer rows.Close()

	var results []*TitleSummary
	for rows.Next() {
		ts := &TitleSummary{}
		err := rows.Scan(
			&ts.TConst, &ts.PrimaryTitle, &ts.StartYear, &ts.RuntimeMin, &ts.Genres,
			&ts.AverageRating, &ts.NumVotes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, ts)
	}

	return results, rows.Err()
}

// CastMember is one principal joined with the person's display name
type CastMember struct {
	NConst      string
	PrimaryName string
	Category    string
	Characters  sql.NullString
	Ordering    int64
}

// TitleDetail is the full record behind the title detail view
type TitleDetail struct {
	Title     *Title
	Rating    *Rating
	Actors    []*CastMember
	Directors []*CastMember
}

// GetTitleDetail fetches a title with its rating and its actors and
// directors in credit order. Returns nil when the title does not exist.
func (s *Store) GetTitleDetail(tconst string) (*TitleDetail, error) {
	title, err := s.GetTitle(tconst)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, nil
	}

	rating, err := s.GetRating(tconst)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT p.nconst, pe.primary_name, p.category, p.characters, p.ordering
		FROM principals p
		JOIN persons pe ON pe.nconst = p.nconst
		WHERE p.tconst = ? AND p.category IN ('actor', 'actress', 'director')
		ORDER BY p.ordering
	`, tconst)
	if err != nil {
		return nil, fmt.Errorf("failed to query principals: %w", err)
	}
	defer rows.Close()

	detail := &TitleDetail{Title: title, Rating: rating}
	for rows.Next() {
		m := &CastMember{}
		if err := rows.Scan(&m.NConst, &m.PrimaryName, &m.Category, &m.Characters, &m.Ordering); err != nil {
			return nil, fmt.Errorf("failed to scan principal: %w", err)
		}
		if m.Category == "director" {
			detail.Directors = append(detail.Directors, m)
		} else {
			detail.Actors = append(detail.Actors, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return detail, nil
}

// RatedTitle pairs a display title with its vote count, for weighted
// query-set sampling.
type RatedTitle struct {
	PrimaryTitle string
	NumVotes     int64
}

// RatedTitles returns all titles that have a positive vote count
func (s *Store) RatedTitles() ([]*RatedTitle, error) {
	rows, err := s.db.Query(`
		SELECT t.primary_title, r.num_votes
		FROM ratings r
		JOIN titles t ON t.tconst = r.tconst
		WHERE r.num_votes IS NOT NULL AND r.num_votes > 0
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rated titles: %w", err)
	}
	defer rows.Close()

	var titles []*RatedTitle
	for rows.Next() {
		rt := &RatedTitle{}
		if err := rows.Scan(&rt.PrimaryTitle, &rt.NumVotes); err != nil {
			return nil, fmt.Errorf("failed to scan rated title: %w", err)
		}
		titles = append(titles, rt)
	}

	return titles, rows.Err()
}
