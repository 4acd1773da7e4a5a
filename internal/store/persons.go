package store

import (
	"database/sql"
	"fmt"
)

// Person represents one cast or crew member
type Person struct {
	NConst            string
	PrimaryName       string
	BirthYear         sql.NullInt64
	DeathYear         sql.NullInt64
	PrimaryProfession sql.NullString
}

// InsertPersonBatch inserts a batch of persons in a single transaction.
// Rows whose nconst already exists are silently ignored; the in-memory
// duplicate check upstream makes that rare, this is the storage-level net.
func (s *Store) InsertPersonBatch(batch []*Person) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO persons (
			nconst, primary_name, birth_year, death_year, primary_profession
		) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range batch {
		_, err := stmt.Exec(p.NConst, p.PrimaryName, p.BirthYear, p.DeathYear, p.PrimaryProfession)
		if err != nil {
			return fmt.Errorf("failed to insert person %s: %w", p.NConst, err)
		}
	}

	return tx.Commit()
}

// PersonIDs returns the set of all persisted person identifiers
func (s *Store) PersonIDs() (map[string]struct{}, error) {
	return s.idSet("SELECT nconst FROM persons")
}

// CountPersons returns the number of persisted persons
func (s *Store) CountPersons() (int64, error) {
	return s.count("persons")
}

// GetPerson retrieves a person by identifier, or nil if absent
func (s *Store) GetPerson(nconst string) (*Person, error) {
	p := &Person{}
	err := s.db.QueryRow(`
		SELECT nconst, primary_name, birth_year, death_year, primary_profession
		FROM persons WHERE nconst = ?
	`, nconst).Scan(&p.NConst, &p.PrimaryName, &p.BirthYear, &p.DeathYear, &p.PrimaryProfession)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	return p, nil
}
