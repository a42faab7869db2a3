package signals

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/internal/domain"
	"vantage/internal/ports"
)

type fakeStore struct {
	signals []domain.Signal
	unread  []ports.CategoryCount
	marked  bool
}

func (f *fakeStore) SaveSignal(ctx context.Context, signal *domain.Signal) error {
	signal.ID = "sig-1"
	f.signals = append(f.signals, *signal)
	return nil
}

func (f *fakeStore) ListSignals(ctx context.Context, companyID, category string) ([]domain.Signal, error) {
	if category == "" {
		return f.signals, nil
	}
	var out []domain.Signal
	for _, sig := range f.signals {
		if sig.Category == category {
			out = append(out, sig)
		}
	}
	return out, nil
}

func (f *fakeStore) CountUnread(ctx context.Context, companyID string) ([]ports.CategoryCount, error) {
	return f.unread, nil
}

func (f *fakeStore) MarkAllRead(ctx context.Context, companyID string) (int64, error) {
	if f.marked {
		return 0, nil
	}
	f.marked = true
	var n int64
	for i := range f.signals {
		if f.signals[i].IsNew {
			f.signals[i].IsNew = false
			n++
		}
	}
	return n, nil
}

type fakeInterpreter struct {
	candidates []ports.CandidateSignal
	err        error
	calls      int
}

func (f *fakeInterpreter) InterpretDelta(ctx context.Context, company domain.Company, competitor domain.Competitor, delta domain.Delta, liveSearch bool) ([]ports.CandidateSignal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func headcountDelta() domain.Delta {
	return domain.Delta{
		EmployeeSizeChange: &domain.ValueChange{Old: "11-50", New: "51-200"},
	}
}

var (
	testCompany    = domain.Company{ID: "co-1", Name: "Base"}
	testCompetitor = domain.Competitor{ID: "comp-1", Name: "Acme"}
)

func TestGenerateNothingWithoutMeaningfulDelta(t *testing.T) {
	store := &fakeStore{}
	interp := &fakeInterpreter{candidates: []ports.CandidateSignal{{SignalType: "product_launch"}}}
	gen := NewGenerator(store, interp, quietLogger())

	for _, delta := range []domain.Delta{{}, {IsInitial: true}} {
		signals, err := gen.Generate(context.Background(), testCompany, testCompetitor, delta, false)
		require.NoError(t, err)
		assert.Empty(t, signals)
	}
	assert.Zero(t, interp.calls)
	assert.Empty(t, store.signals)
}

func TestGenerateForcesCategoryFromSignalType(t *testing.T) {
	store := &fakeStore{}
	interp := &fakeInterpreter{candidates: []ports.CandidateSignal{
		{SignalType: domain.TypeHeadcountChange, Category: "product", Severity: "high", Message: "Grew fast"},
		{SignalType: domain.TypeFundingRound, Category: "hiring", Severity: "high", Message: "Raised"},
		{SignalType: domain.TypeProductLaunch, Category: "funding", Severity: "low", Message: "Shipped"},
	}}
	gen := NewGenerator(store, interp, quietLogger())

	signals, err := gen.Generate(context.Background(), testCompany, testCompetitor, headcountDelta(), false)
	require.NoError(t, err)
	require.Len(t, signals, 3)

	assert.Equal(t, domain.CategoryHiring, signals[0].Category)
	assert.Equal(t, domain.CategoryFunding, signals[1].Category)
	assert.Equal(t, domain.CategoryProduct, signals[2].Category)
	for _, sig := range signals {
		assert.True(t, sig.IsNew)
		assert.Equal(t, "co-1", sig.CompanyID)
		assert.Equal(t, "comp-1", sig.CompetitorID)
	}
	assert.Len(t, store.signals, 3)
}

func TestGenerateFillsCandidateDefaults(t *testing.T) {
	store := &fakeStore{}
	interp := &fakeInterpreter{candidates: []ports.CandidateSignal{{}}}
	gen := NewGenerator(store, interp, quietLogger())

	signals, err := gen.Generate(context.Background(), testCompany, testCompetitor, headcountDelta(), false)
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, domain.TypeStrategicChange, signals[0].SignalType)
	assert.Equal(t, domain.CategoryProduct, signals[0].Category)
	assert.Equal(t, domain.SeverityLow, signals[0].Severity)
	assert.Equal(t, "Change detected for Acme", signals[0].Message)
}

func TestGenerateTemplateFallback(t *testing.T) {
	store := &fakeStore{}
	interp := &fakeInterpreter{err: ports.ErrUnavailable}
	gen := NewGenerator(store, interp, quietLogger())

	delta := domain.Delta{
		EmployeeSizeChange: &domain.ValueChange{Old: "11-50", New: "51-200"},
		NewIndustries:      []string{"lending"},
		HiringFocusChange: map[string]domain.ScoreChange{
			"engineering": {Old: 2, New: 5, Change: 3},
			"sales":       {Old: 3, New: 1, Change: -2},
		},
		PrimaryMarketsChanged: &domain.SetChange{Added: []string{"US"}, Removed: []string{}},
	}

	signals, err := gen.Generate(context.Background(), testCompany, testCompetitor, delta, false)
	require.NoError(t, err)
	require.Len(t, signals, 4)

	byType := map[string]domain.Signal{}
	for _, sig := range signals {
		byType[sig.SignalType] = sig
	}

	hc := byType[domain.TypeHeadcountChange]
	assert.Equal(t, domain.CategoryHiring, hc.Category)
	assert.Equal(t, domain.SeverityMedium, hc.Severity)
	assert.Equal(t, "Acme changed size from 11-50 to 51-200", hc.Message)

	ind := byType[domain.TypeIndustryShift]
	assert.Equal(t, domain.CategoryProduct, ind.Category)
	assert.Contains(t, ind.Details, "lending")

	hs := byType[domain.TypeHiringShift]
	assert.Equal(t, domain.CategoryHiring, hs.Category)
	assert.Contains(t, hs.Message, "engineering")
	assert.NotContains(t, hs.Message, "sales", "shrinking departments are not reported")

	mx := byType[domain.TypeMarketExpansion]
	assert.Equal(t, domain.SeverityHigh, mx.Severity)
	assert.Contains(t, mx.Message, "US")
}

func TestGenerateTemplateSkipsMarketRemovalsOnly(t *testing.T) {
	store := &fakeStore{}
	gen := NewGenerator(store, nil, quietLogger())

	delta := domain.Delta{
		PrimaryMarketsChanged: &domain.SetChange{Added: []string{}, Removed: []string{"LATAM"}},
	}
	signals, err := gen.Generate(context.Background(), testCompany, testCompetitor, delta, false)
	require.NoError(t, err)
	assert.Empty(t, signals)
}

func TestGenerateRequireAIReturnsError(t *testing.T) {
	store := &fakeStore{}
	interp := &fakeInterpreter{err: ports.ErrUnavailable}
	gen := NewGenerator(store, interp, quietLogger())

	_, err := gen.Generate(context.Background(), testCompany, testCompetitor, headcountDelta(), true)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Empty(t, store.signals)
}

func TestGenerateEmptyInterpretationIsUnavailable(t *testing.T) {
	store := &fakeStore{}
	interp := &fakeInterpreter{candidates: nil}
	gen := NewGenerator(store, interp, quietLogger())

	// Passive mode: empty interpretation falls back to templates.
	signals, err := gen.Generate(context.Background(), testCompany, testCompetitor, headcountDelta(), false)
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, domain.TypeHeadcountChange, signals[0].SignalType)

	// Forced mode: same condition is an error.
	_, err = gen.Generate(context.Background(), testCompany, testCompetitor, headcountDelta(), true)
	assert.True(t, IsUnavailable(err))
}

func TestGenerateDedupsRelatedNews(t *testing.T) {
	store := &fakeStore{}
	interp := &fakeInterpreter{candidates: []ports.CandidateSignal{{
		SignalType: domain.TypeFundingRound,
		Message:    "Raised Series B",
		RelatedNews: []domain.NewsItem{
			{Title: "A", URL: "https://n.example/1"},
			{Title: "B", URL: "https://n.example/1"},
			{Title: "C", URL: ""},
		},
	}}}
	gen := NewGenerator(store, interp, quietLogger())

	signals, err := gen.Generate(context.Background(), testCompany, testCompetitor, headcountDelta(), false)
	require.NoError(t, err)
	require.Len(t, signals, 1)
	require.Len(t, signals[0].RelatedNews, 1)
	assert.Equal(t, "A", signals[0].RelatedNews[0].Title)
}
