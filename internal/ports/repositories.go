package ports

import (
	"context"

	"vantage/internal/domain"
)

// CompanyRepository resolves tracked companies and their competitors.
type CompanyRepository interface {
	GetCompany(ctx context.Context, companyID string) (domain.Company, bool, error)
	ListCompetitors(ctx context.Context, companyID string) ([]domain.Competitor, error)
}

// SnapshotRepository stores append-only competitor snapshots. LoadLatest
// returns found=false when no snapshot exists for the pair yet.
type SnapshotRepository interface {
	LoadLatest(ctx context.Context, companyID, competitorID string) (domain.SnapshotRecord, bool, error)
	Save(ctx context.Context, companyID, competitorID string, snapshot domain.Snapshot) (domain.SnapshotRecord, error)
}

// CategoryCount is one unread bucket as stored, before category
// normalization.
type CategoryCount struct {
	Category string
	Count    int
}

// SignalRepository persists signals and their read state. List is ordered
// newest-first; category filters use the stored value verbatim.
type SignalRepository interface {
	SaveSignal(ctx context.Context, signal *domain.Signal) error
	ListSignals(ctx context.Context, companyID, category string) ([]domain.Signal, error)
	CountUnread(ctx context.Context, companyID string) ([]CategoryCount, error)
	MarkAllRead(ctx context.Context, companyID string) (int64, error)
}
