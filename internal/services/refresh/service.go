// Package refresh drives the per-company change-detection cycle:
// profile build -> diff -> snapshot save -> signal generation, one
// competitor at a time.
package refresh

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"vantage/internal/domain"
	"vantage/internal/ports"
	"vantage/internal/services/diff"
	"vantage/internal/services/profile"
	"vantage/internal/services/signals"
)

// ErrCompanyNotFound is returned when the refresh target does not exist.
var ErrCompanyNotFound = errors.New("company not found")

type Service struct {
	companies ports.CompanyRepository
	snapshots ports.SnapshotRepository
	builder   *profile.Service
	generator *signals.Generator
	feed      *signals.Feed
	log       *logrus.Logger
}

func New(companies ports.CompanyRepository, snapshots ports.SnapshotRepository, builder *profile.Service, generator *signals.Generator, feed *signals.Feed, log *logrus.Logger) *Service {
	return &Service{
		companies: companies,
		snapshots: snapshots,
		builder:   builder,
		generator: generator,
		feed:      feed,
		log:       log,
	}
}

// Failure records one competitor whose cycle could not complete. Failures
// never abort the remaining competitors.
type Failure struct {
	CompetitorID   string `json:"competitor_id"`
	CompetitorName string `json:"competitor_name"`
	Reason         string `json:"reason"`
}

// Result is the outcome of one refresh cycle. Signals holds the company's
// full competitor signal feed after the cycle, newest-first.
type Result struct {
	Signals  []domain.Signal `json:"signals"`
	Failures []Failure       `json:"failures"`
}

// Refresh runs the full cycle for every competitor of the company. Passive
// mode (force=false) prefers cached snapshots and absorbs provider
// failures; forced mode disables reuse, requires live-search-backed
// enrichment and interpretation, and reports per-competitor failures in
// the result instead of silently degrading.
func (s *Service) Refresh(ctx context.Context, companyID string, force bool) (Result, error) {
	company, found, err := s.companies.GetCompany(ctx, companyID)
	if err != nil {
		return Result{}, fmt.Errorf("get company: %w", err)
	}
	if !found {
		return Result{}, ErrCompanyNotFound
	}

	competitors, err := s.companies.ListCompetitors(ctx, companyID)
	if err != nil {
		return Result{}, fmt.Errorf("list competitors: %w", err)
	}

	result := Result{Failures: []Failure{}}
	for _, competitor := range competitors {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.refreshOne(ctx, company, competitor, force); err != nil {
			s.log.WithFields(logrus.Fields{
				"company":    company.Name,
				"competitor": competitor.Name,
				"forced":     force,
				"error":      err,
			}).Warn("competitor refresh failed")
			result.Failures = append(result.Failures, Failure{
				CompetitorID:   competitor.ID,
				CompetitorName: competitor.Name,
				Reason:         err.Error(),
			})
		}
	}

	feed, err := s.feed.List(ctx, companyID, "")
	if err != nil {
		return result, err
	}
	result.Signals = feed
	return result, nil
}

// refreshOne runs the state machine for a single competitor. The snapshot
// is always persisted once built, even when nothing meaningful changed, so
// drift does not accumulate against a stale baseline. Signals are only
// generated after the snapshot write succeeds.
func (s *Service) refreshOne(ctx context.Context, company domain.Company, competitor domain.Competitor, force bool) error {
	current, err := s.builder.Build(ctx, company, competitor, force)
	if err != nil {
		return err
	}

	previous, err := s.loadBaseline(ctx, company.ID, competitor.ID)
	if err != nil {
		return err
	}

	delta := diff.Compute(previous, current)

	if _, err := s.snapshots.Save(ctx, company.ID, competitor.ID, current); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if delta.IsInitial || !delta.Meaningful() {
		return nil
	}

	generated, err := s.generator.Generate(ctx, company, competitor, delta, force)
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"competitor": competitor.Name,
		"signals":    len(generated),
	}).Info("signals generated")
	return nil
}

func (s *Service) loadBaseline(ctx context.Context, companyID, competitorID string) (*domain.Snapshot, error) {
	rec, found, err := s.snapshots.LoadLatest(ctx, companyID, competitorID)
	if err != nil {
		return nil, fmt.Errorf("load baseline snapshot: %w", err)
	}
	if !found {
		return nil, nil
	}
	snap, ok := domain.ParseStoredSnapshot(rec.Data)
	if !ok {
		// An unreadable baseline is treated as no baseline at all.
		return nil, nil
	}
	return &snap, nil
}
