package load

import (
	"database/sql"

	"github.com/franz/filmdex/internal/store"
	"github.com/franz/filmdex/internal/tsv"
)

// Default batch sizes per entity. Persons and principals are the heavy
// files; principals especially, so it gets the largest batch.
const (
	PersonBatchSize    = 20000
	TitleBatchSize     = 10000
	RatingBatchSize    = 10000
	PrincipalBatchSize = 50000
)

// Default source file names inside the data directory
const (
	PersonsFile    = "name.basics.tsv.gz"
	TitlesFile     = "title.basics.tsv.gz"
	RatingsFile    = "title.ratings.tsv.gz"
	PrincipalsFile = "title.principals.tsv.gz"
)

func nullStr(rec tsv.Record, attr string) sql.NullString {
	v := rec[attr]
	return sql.NullString{String: v.Str, Valid: v.Present}
}

func nullInt(rec tsv.Record, attr string) sql.NullInt64 {
	v := rec[attr]
	return sql.NullInt64{Int64: v.Int, Valid: v.Present}
}

func nullFloat(rec tsv.Record, attr string) sql.NullFloat64 {
	v := rec[attr]
	return sql.NullFloat64{Float64: v.Float, Valid: v.Present}
}

// idKey extracts a single-field string identity
func idKey(attr string) func(tsv.Record) (string, bool) {
	return func(rec tsv.Record) (string, bool) {
		v := rec[attr]
		return v.Str, v.Present
	}
}

// PersonEntity describes the name.basics load
func PersonEntity(st *store.Store) Entity[*store.Person] {
	return Entity[*store.Person]{
		Name:      "persons",
		FileName:  PersonsFile,
		BatchSize: PersonBatchSize,
		Fields: []tsv.Field{
			{Column: "nconst", Attr: "nconst", Kind: tsv.String, Identity: true},
			{Column: "primaryName", Attr: "primary_name", Kind: tsv.String, Required: true},
			{Column: "birthYear", Attr: "birth_year", Kind: tsv.Int},
			{Column: "deathYear", Attr: "death_year", Kind: tsv.Int},
			{Column: "primaryProfession", Attr: "primary_profession", Kind: tsv.String},
		},
		Key: idKey("nconst"),
		Build: func(rec tsv.Record) *store.Person {
			return &store.Person{
				NConst:            rec.Str("nconst"),
				PrimaryName:       rec.Str("primary_name"),
				BirthYear:         nullInt(rec, "birth_year"),
				DeathYear:         nullInt(rec, "death_year"),
				PrimaryProfession: nullStr(rec, "primary_profession"),
			}
		},
		Commit: st.InsertPersonBatch,
	}
}

// TitleEntity describes the title.basics load
func TitleEntity(st *store.Store) Entity[*store.Title] {
	return Entity[*store.Title]{
		Name:      "titles",
		FileName:  TitlesFile,
		BatchSize: TitleBatchSize,
		Fields: []tsv.Field{
			{Column: "tconst", Attr: "tconst", Kind: tsv.String, Identity: true},
			{Column: "titleType", Attr: "title_type", Kind: tsv.String},
			{Column: "primaryTitle", Attr: "primary_title", Kind: tsv.String, Required: true},
			{Column: "originalTitle", Attr: "original_title", Kind: tsv.String},
			{Column: "isAdult", Attr: "is_adult", Kind: tsv.Bool},
			{Column: "startYear", Attr: "start_year", Kind: tsv.Int},
			{Column: "endYear", Attr: "end_year", Kind: tsv.Int},
			{Column: "runtimeMinutes", Attr: "runtime_minutes", Kind: tsv.Int},
			{Column: "genres", Attr: "genres", Kind: tsv.String},
		},
		Key: idKey("tconst"),
		Build: func(rec tsv.Record) *store.Title {
			return &store.Title{
				TConst:         rec.Str("tconst"),
				TitleType:      nullStr(rec, "title_type"),
				PrimaryTitle:   rec.Str("primary_title"),
				OriginalTitle:  nullStr(rec, "original_title"),
				IsAdult:        rec["is_adult"].Bool,
				StartYear:      nullInt(rec, "start_year"),
				EndYear:        nullInt(rec, "end_year"),
				RuntimeMinutes: nullInt(rec, "runtime_minutes"),
				Genres:         nullStr(rec, "genres"),
			}
		},
		Commit: st.InsertTitleBatch,
	}
}

// RatingEntity describes the title.ratings load. A rating's identity is the
// tconst it describes; titles must already be persisted.
func RatingEntity(st *store.Store, titles *IDSet) Entity[*store.Rating] {
	return Entity[*store.Rating]{
		Name:      "ratings",
		FileName:  RatingsFile,
		BatchSize: RatingBatchSize,
		Fields: []tsv.Field{
			{Column: "tconst", Attr: "tconst", Kind: tsv.String, Identity: true},
			{Column: "averageRating", Attr: "average_rating", Kind: tsv.Float},
			{Column: "numVotes", Attr: "num_votes", Kind: tsv.Int},
		},
		Key: idKey("tconst"),
		Refs: []Ref{
			{Entity: "titles", Key: func(rec tsv.Record) string { return rec.Str("tconst") }, Set: titles},
		},
		Build: func(rec tsv.Record) *store.Rating {
			return &store.Rating{
				TConst:        rec.Str("tconst"),
				AverageRating: nullFloat(rec, "average_rating"),
				NumVotes:      nullInt(rec, "num_votes"),
			}
		},
		Commit: st.InsertRatingBatch,
	}
}

// PrincipalEntity describes the title.principals load. Identity is the
// composite (tconst, nconst, ordering, category); both referenced entities
// must already be persisted.
func PrincipalEntity(st *store.Store, titles, persons *IDSet) Entity[*store.Principal] {
	return Entity[*store.Principal]{
		Name:      "principals",
		FileName:  PrincipalsFile,
		BatchSize: PrincipalBatchSize,
		Fields: []tsv.Field{
			{Column: "tconst", Attr: "tconst", Kind: tsv.String, Identity: true},
			{Column: "ordering", Attr: "ordering", Kind: tsv.Int, Required: true},
			{Column: "nconst", Attr: "nconst", Kind: tsv.String, Identity: true},
			{Column: "category", Attr: "category", Kind: tsv.String, Required: true},
			{Column: "job", Attr: "job", Kind: tsv.String},
			{Column: "characters", Attr: "characters", Kind: tsv.String},
		},
		Key: func(rec tsv.Record) (string, bool) {
			if !rec.Present("ordering") || !rec.Present("category") {
				return "", false
			}
			key := store.PrincipalKey(rec.Str("tconst"), rec.Str("nconst"),
				rec["ordering"].Int, rec.Str("category"))
			return key, true
		},
		Refs: []Ref{
			{Entity: "titles", Key: func(rec tsv.Record) string { return rec.Str("tconst") }, Set: titles},
			{Entity: "persons", Key: func(rec tsv.Record) string { return rec.Str("nconst") }, Set: persons},
		},
		Build: func(rec tsv.Record) *store.Principal {
			return &store.Principal{
				TConst:     rec.Str("tconst"),
				NConst:     rec.Str("nconst"),
				Ordering:   rec["ordering"].Int,
				Category:   rec.Str("category"),
				Job:        nullStr(rec, "job"),
				Characters: nullStr(rec, "characters"),
			}
		},
		Commit: st.InsertPrincipalBatch,
	}
}
