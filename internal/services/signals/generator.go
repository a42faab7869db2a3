// Package signals turns meaningful deltas into persisted, categorized
// signals and serves the signal feed.
package signals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"vantage/internal/domain"
	"vantage/internal/ports"
)

// Generator converts deltas into signals. AI interpretation is tried first
// when available; the deterministic templates cover the common delta keys
// when it is not. Either way the category is forced from the signal type.
type Generator struct {
	store       ports.SignalRepository
	interpreter ports.Interpreter
	log         *logrus.Logger
}

func NewGenerator(store ports.SignalRepository, interpreter ports.Interpreter, log *logrus.Logger) *Generator {
	return &Generator{store: store, interpreter: interpreter, log: log}
}

// Generate produces and persists signals for one meaningful delta. It
// returns an empty slice for deltas with no meaningful change. With
// requireAI=true an unavailable interpreter is an error instead of a
// template fallback.
func (g *Generator) Generate(ctx context.Context, company domain.Company, competitor domain.Competitor, delta domain.Delta, requireAI bool) ([]domain.Signal, error) {
	if !delta.Meaningful() {
		return []domain.Signal{}, nil
	}

	candidates, err := g.interpret(ctx, company, competitor, delta, requireAI)
	if err != nil {
		if requireAI {
			return nil, fmt.Errorf("interpret delta for %s: %w", competitor.Name, err)
		}
		g.log.WithFields(logrus.Fields{
			"competitor": competitor.Name,
			"error":      err,
		}).Debug("interpreter unavailable, using template signals")
		candidates = templateSignals(competitor.Name, delta)
	}

	signals := make([]domain.Signal, 0, len(candidates))
	for _, cand := range candidates {
		sig := g.buildSignal(company, competitor, cand)
		if err := g.store.SaveSignal(ctx, &sig); err != nil {
			return signals, fmt.Errorf("save signal: %w", err)
		}
		signals = append(signals, sig)
	}
	return signals, nil
}

func (g *Generator) interpret(ctx context.Context, company domain.Company, competitor domain.Competitor, delta domain.Delta, liveSearch bool) ([]ports.CandidateSignal, error) {
	if g.interpreter == nil {
		return nil, ports.ErrUnavailable
	}
	candidates, err := g.interpreter.InterpretDelta(ctx, company, competitor, delta, liveSearch)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ports.ErrUnavailable
	}
	return candidates, nil
}

func (g *Generator) buildSignal(company domain.Company, competitor domain.Competitor, cand ports.CandidateSignal) domain.Signal {
	signalType := cand.SignalType
	if signalType == "" {
		signalType = domain.TypeStrategicChange
	}
	severity := cand.Severity
	if severity == "" {
		severity = domain.SeverityLow
	}
	message := cand.Message
	if message == "" {
		message = fmt.Sprintf("Change detected for %s", competitor.Name)
	}
	return domain.Signal{
		CompanyID:    company.ID,
		CompetitorID: competitor.ID,
		SignalType:   signalType,
		// The interpreter's proposed category is ignored on purpose.
		Category:    domain.CategoryFor(signalType),
		Severity:    severity,
		Message:     message,
		Details:     cand.Details,
		RelatedNews: domain.DedupNews(cand.RelatedNews),
		SourceURL:   cand.SourceURL,
		IsNew:       true,
	}
}

// IsUnavailable reports whether an error is the tagged no-answer result
// rather than a structural failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ports.ErrUnavailable)
}

// templateSignals is the deterministic interpretation strategy: a fixed
// mapping from delta keys to canned signal payloads. Delta keys without a
// template yield nothing here.
func templateSignals(competitorName string, delta domain.Delta) []ports.CandidateSignal {
	if competitorName == "" {
		competitorName = "Competitor"
	}
	var out []ports.CandidateSignal

	if ch := delta.EmployeeSizeChange; ch != nil {
		out = append(out, ports.CandidateSignal{
			SignalType: domain.TypeHeadcountChange,
			Severity:   domain.SeverityMedium,
			Message:    fmt.Sprintf("%s changed size from %s to %s", competitorName, ch.Old, ch.New),
			Details:    "Employee size bracket changed, indicating organizational growth or contraction.",
		})
	}

	if len(delta.NewIndustries) > 0 {
		out = append(out, ports.CandidateSignal{
			SignalType: domain.TypeIndustryShift,
			Severity:   domain.SeverityMedium,
			Message:    fmt.Sprintf("%s expanding into new industries", competitorName),
			Details:    fmt.Sprintf("Added industries: %s", strings.Join(delta.NewIndustries, ", ")),
		})
	}

	if growing := growingDepartments(delta.HiringFocusChange); len(growing) > 0 {
		out = append(out, ports.CandidateSignal{
			SignalType: domain.TypeHiringShift,
			Severity:   domain.SeverityMedium,
			Message:    fmt.Sprintf("%s increasing focus on %s", competitorName, strings.Join(topN(growing, 3), ", ")),
			Details:    "Hiring emphasis has shifted, suggesting strategic priorities.",
		})
	}

	if mc := delta.PrimaryMarketsChanged; mc != nil && len(mc.Added) > 0 {
		out = append(out, ports.CandidateSignal{
			SignalType: domain.TypeMarketExpansion,
			Severity:   domain.SeverityHigh,
			Message:    fmt.Sprintf("%s entering new markets: %s", competitorName, strings.Join(topN(mc.Added, 3), ", ")),
			Details:    "Market expansion detected, potential competitive threat.",
		})
	}

	return out
}

func growingDepartments(changes map[string]domain.ScoreChange) []string {
	var growing []string
	for dep, ch := range changes {
		if ch.Change > 0 {
			growing = append(growing, dep)
		}
	}
	sort.Strings(growing)
	return growing
}

func topN(vals []string, n int) []string {
	if len(vals) > n {
		return vals[:n]
	}
	return vals
}
