package ports

import (
	"context"
	"errors"

	"vantage/internal/domain"
)

// ErrUnavailable is the tagged "no answer" result from the enrichment and
// interpretation ports: missing credentials, timeouts after retries, or
// unusable output. Callers decide whether to fall through to a
// deterministic strategy or surface the failure.
var ErrUnavailable = errors.New("provider unavailable")

// ProfileHint is the structured-data hint passed to the enrichment port so
// generated profiles stay anchored to known facts.
type ProfileHint struct {
	Employees  int      `json:"employees"`
	Funding    string   `json:"funding"`
	Country    string   `json:"country"`
	Industries []string `json:"industries"`
}

// Enricher produces a best-effort structured profile for one competitor.
// The returned payload is untyped and must pass through snapshot coercion
// before it is treated as a Snapshot.
type Enricher interface {
	GenerateProfile(ctx context.Context, company domain.Company, competitor domain.Competitor, hint ProfileHint, liveSearch bool) (map[string]any, error)
}

// CandidateSignal is an interpreter-proposed signal. Its Category is a
// proposal only; domain.CategoryFor is authoritative.
type CandidateSignal struct {
	SignalType  string            `json:"signal_type"`
	Category    string            `json:"category"`
	Severity    string            `json:"severity"`
	Message     string            `json:"message"`
	Details     string            `json:"details"`
	SourceURL   string            `json:"source_url"`
	RelatedNews []domain.NewsItem `json:"related_news"`
}

// Interpreter turns a delta into candidate signals.
type Interpreter interface {
	InterpretDelta(ctx context.Context, company domain.Company, competitor domain.Competitor, delta domain.Delta, liveSearch bool) ([]CandidateSignal, error)
}
