package profile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"vantage/internal/domain"
	"vantage/internal/ports"
)

// Service builds validated snapshots for single competitors. Profile
// sources are tried in a fixed order: cached snapshot reuse, AI enrichment,
// deterministic basic snapshot. Forced builds skip reuse and refuse the
// deterministic fallback so the caller can tell a fresh AI profile from
// recycled data.
type Service struct {
	snapshots ports.SnapshotRepository
	enricher  ports.Enricher
	reuseTTL  time.Duration
	log       *logrus.Logger
}

// New creates a profile builder. reuseTTL bounds how old a cached snapshot
// may be before it stops being reusable; zero means no age limit.
func New(snapshots ports.SnapshotRepository, enricher ports.Enricher, reuseTTL time.Duration, log *logrus.Logger) *Service {
	return &Service{snapshots: snapshots, enricher: enricher, reuseTTL: reuseTTL, log: log}
}

// Build produces a valid snapshot for one competitor. With force=false a
// reusable cached snapshot short-circuits enrichment entirely; enrichment
// failures degrade to a basic snapshot. With force=true enrichment runs
// with live search and its failure is returned to the caller.
func (s *Service) Build(ctx context.Context, company domain.Company, competitor domain.Competitor, force bool) (domain.Snapshot, error) {
	industries := sortedIndustries(competitor.Industries)

	if !force {
		if cached, ok, err := s.reuseCached(ctx, company, competitor, industries); err != nil {
			return domain.Snapshot{}, err
		} else if ok {
			return cached, nil
		}
	}

	hint := ports.ProfileHint{
		Employees:  competitor.Employees,
		Funding:    competitor.Funding,
		Country:    competitor.Country,
		Industries: industries,
	}

	raw, err := s.enrich(ctx, company, competitor, hint, force)
	switch {
	case err == nil:
		return domain.CoerceSnapshot(raw), nil
	case force:
		return domain.Snapshot{}, fmt.Errorf("enrich %s: %w", competitor.Name, err)
	default:
		s.log.WithFields(logrus.Fields{
			"competitor": competitor.Name,
			"error":      err,
		}).Warn("enrichment unavailable, building basic snapshot")
		return BasicSnapshot(competitor, industries), nil
	}
}

func (s *Service) enrich(ctx context.Context, company domain.Company, competitor domain.Competitor, hint ports.ProfileHint, liveSearch bool) (map[string]any, error) {
	if s.enricher == nil {
		return nil, ports.ErrUnavailable
	}
	return s.enricher.GenerateProfile(ctx, company, competitor, hint, liveSearch)
}

// reuseCached patches only the fast-moving scalar fields (industries,
// country, employee size) onto the latest stored snapshot. The slower
// AI-derived content is kept as-is, trading staleness for latency and
// provider cost.
func (s *Service) reuseCached(ctx context.Context, company domain.Company, competitor domain.Competitor, industries []string) (domain.Snapshot, bool, error) {
	rec, found, err := s.snapshots.LoadLatest(ctx, company.ID, competitor.ID)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("load latest snapshot: %w", err)
	}
	if !found {
		return domain.Snapshot{}, false, nil
	}
	if s.reuseTTL > 0 && time.Since(rec.CreatedAt) > s.reuseTTL {
		return domain.Snapshot{}, false, nil
	}
	snap, ok := domain.ParseStoredSnapshot(rec.Data)
	if !ok {
		return domain.Snapshot{}, false, nil
	}
	snap.Basic.Industries = industries
	snap.Basic.Country = competitor.Country
	snap.Organization.EmployeeSize = domain.SizeBucketFor(competitor.Employees)
	return snap, true, nil
}

// BasicSnapshot derives a minimal valid snapshot purely from stored
// competitor fields. All hiring scores are zero and all strategic lists
// empty.
func BasicSnapshot(competitor domain.Competitor, industries []string) domain.Snapshot {
	snap := domain.DefaultSnapshot()
	snap.Basic.Name = competitor.Name
	snap.Basic.Domain = competitor.Domain
	snap.Basic.Country = competitor.Country
	snap.Basic.Industries = industries
	snap.Basic.DescriptionSummary = truncate(competitor.Headline, 200)
	snap.Organization.EmployeeSize = domain.SizeBucketFor(competitor.Employees)
	if competitor.Country != "" {
		snap.Organization.Locations = []string{competitor.Country}
	}
	return snap
}

func sortedIndustries(industries []string) []string {
	out := make([]string, 0, len(industries))
	for _, ind := range industries {
		if ind != "" {
			out = append(out, ind)
		}
	}
	sort.Strings(out)
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
