package domain

import "time"

// Core domain models used internally. The competitor entity is a shared
// reference: many companies may track the same competitor, and nothing in
// this package mutates it.

type Company struct {
	ID      string
	Name    string
	Domain  string
	Country string
}

type Competitor struct {
	ID         string
	Name       string
	Domain     string
	Country    string
	Headline   string
	Employees  int
	Funding    string
	Industries []string
}

// SnapshotRecord is a persisted snapshot row. Data holds the raw JSON
// payload as stored; decode it with ParseStoredSnapshot before use.
type SnapshotRecord struct {
	ID           string
	CompanyID    string
	CompetitorID string
	Data         []byte
	CreatedAt    time.Time
}
