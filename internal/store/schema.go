package store

// Schema v1 - the four catalog tables.
// Identifiers come straight from the source dumps (nconst/tconst); the
// loader owns all writes, so there are no updated_at style columns.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- People: cast and crew (name.basics)
CREATE TABLE IF NOT EXISTS persons (
  nconst TEXT PRIMARY KEY,
  primary_name TEXT NOT NULL,
  birth_year INTEGER,
  death_year INTEGER,
  primary_profession TEXT
);

-- Titles: movies, shorts, series... (title.basics)
CREATE TABLE IF NOT EXISTS titles (
  tconst TEXT PRIMARY KEY,
  title_type TEXT,
  primary_title TEXT NOT NULL,
  original_title TEXT,
  is_adult INTEGER NOT NULL DEFAULT 0,
  start_year INTEGER,
  end_year INTEGER,
  runtime_minutes INTEGER,
  genres TEXT
);

-- Ratings: at most one per title (title.ratings)
CREATE TABLE IF NOT EXISTS ratings (
  tconst TEXT PRIMARY KEY REFERENCES titles(tconst),
  average_rating REAL,
  num_votes INTEGER
);

-- Principals: one person's involvement in one title (title.principals)
CREATE TABLE IF NOT EXISTS principals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tconst TEXT NOT NULL REFERENCES titles(tconst),
  nconst TEXT NOT NULL REFERENCES persons(nconst),
  ordering INTEGER NOT NULL,
  category TEXT NOT NULL,
  job TEXT,
  characters TEXT,
  UNIQUE (tconst, nconst, ordering, category)
);
`

// Schema v2 - indexes for the read-side commands
const schemaV2 = `
CREATE INDEX IF NOT EXISTS idx_titles_primary_title ON titles(primary_title COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_principals_title_order ON principals(tconst, ordering);
CREATE INDEX IF NOT EXISTS idx_principals_person ON principals(nconst);
CREATE INDEX IF NOT EXISTS idx_ratings_votes ON ratings(num_votes);
`
