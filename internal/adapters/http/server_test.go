package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/internal/domain"
	"vantage/internal/ports"
	"vantage/internal/services/profile"
	"vantage/internal/services/refresh"
	"vantage/internal/services/signals"
)

type memCompanies struct {
	company     domain.Company
	competitors []domain.Competitor
}

func (m *memCompanies) GetCompany(ctx context.Context, companyID string) (domain.Company, bool, error) {
	if companyID != m.company.ID {
		return domain.Company{}, false, nil
	}
	return m.company, true, nil
}

func (m *memCompanies) ListCompetitors(ctx context.Context, companyID string) ([]domain.Competitor, error) {
	return m.competitors, nil
}

type memSnapshots struct {
	latest map[string]domain.SnapshotRecord
}

func (m *memSnapshots) LoadLatest(ctx context.Context, companyID, competitorID string) (domain.SnapshotRecord, bool, error) {
	rec, ok := m.latest[companyID+"/"+competitorID]
	return rec, ok, nil
}

func (m *memSnapshots) Save(ctx context.Context, companyID, competitorID string, snapshot domain.Snapshot) (domain.SnapshotRecord, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return domain.SnapshotRecord{}, err
	}
	rec := domain.SnapshotRecord{ID: "rec", Data: data, CreatedAt: time.Now()}
	if m.latest == nil {
		m.latest = map[string]domain.SnapshotRecord{}
	}
	m.latest[companyID+"/"+competitorID] = rec
	return rec, nil
}

type memSignals struct {
	signals []domain.Signal
}

func (m *memSignals) SaveSignal(ctx context.Context, signal *domain.Signal) error {
	signal.CreatedAt = time.Now()
	m.signals = append(m.signals, *signal)
	return nil
}

func (m *memSignals) ListSignals(ctx context.Context, companyID, category string) ([]domain.Signal, error) {
	var out []domain.Signal
	for _, sig := range m.signals {
		if category == "" || sig.Category == category {
			out = append(out, sig)
		}
	}
	return out, nil
}

func (m *memSignals) CountUnread(ctx context.Context, companyID string) ([]ports.CategoryCount, error) {
	byCat := map[string]int{}
	for _, sig := range m.signals {
		if sig.IsNew {
			byCat[sig.Category]++
		}
	}
	var out []ports.CategoryCount
	for cat, n := range byCat {
		out = append(out, ports.CategoryCount{Category: cat, Count: n})
	}
	return out, nil
}

func (m *memSignals) MarkAllRead(ctx context.Context, companyID string) (int64, error) {
	var n int64
	for i := range m.signals {
		if m.signals[i].IsNew {
			m.signals[i].IsNew = false
			n++
		}
	}
	return n, nil
}

type memJobs struct {
	enqueued []ports.RefreshJob
}

func (m *memJobs) Enqueue(ctx context.Context, companyID string, force bool) (string, error) {
	job := ports.RefreshJob{ID: "job-1", CompanyID: companyID, Force: force}
	m.enqueued = append(m.enqueued, job)
	return job.ID, nil
}

func (m *memJobs) ClaimNext(ctx context.Context) (ports.RefreshJob, bool, error) {
	return ports.RefreshJob{}, false, nil
}

func (m *memJobs) MarkCompleted(ctx context.Context, jobID string) error { return nil }

func (m *memJobs) MarkFailed(ctx context.Context, jobID string, reason string) error { return nil }

func newTestServer(t *testing.T, store *memSignals, jobs *memJobs) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	companies := &memCompanies{
		company: domain.Company{ID: "co-1", Name: "Base"},
		competitors: []domain.Competitor{
			{ID: "comp-1", Name: "Acme", Country: "NL", Employees: 40},
		},
	}
	snapshots := &memSnapshots{}
	builder := profile.New(snapshots, nil, 0, log)
	generator := signals.NewGenerator(store, nil, log)
	feed := signals.NewFeed(store)
	refresher := refresh.New(companies, snapshots, builder, generator, feed, log)

	srv := httptest.NewServer(New(refresher, feed, jobs, log).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &memSignals{}, &memJobs{})
	var body map[string]string
	resp := getJSON(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRefreshEndpoint(t *testing.T) {
	srv := newTestServer(t, &memSignals{}, &memJobs{})

	var body struct {
		Signals  []domain.Signal   `json:"signals"`
		Failures []refresh.Failure `json:"failures"`
	}
	resp := postJSON(t, srv.URL+"/companies/co-1/refresh", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body.Signals)
	assert.Empty(t, body.Failures)
}

func TestRefreshUnknownCompanyIs404(t *testing.T) {
	srv := newTestServer(t, &memSignals{}, &memJobs{})
	resp := postJSON(t, srv.URL+"/companies/nope/refresh", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRefreshAsyncQueuesJob(t *testing.T) {
	jobs := &memJobs{}
	srv := newTestServer(t, &memSignals{}, jobs)

	var body map[string]string
	resp := postJSON(t, srv.URL+"/companies/co-1/refresh?async=true&force=true", &body)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "job-1", body["job_id"])

	require.Len(t, jobs.enqueued, 1)
	assert.Equal(t, "co-1", jobs.enqueued[0].CompanyID)
	assert.True(t, jobs.enqueued[0].Force)
}

func TestSignalFeedEndpoints(t *testing.T) {
	store := &memSignals{signals: []domain.Signal{
		{ID: "1", Category: domain.CategoryHiring, Message: "Grew", IsNew: true},
		{ID: "2", Category: domain.CategoryFunding, Message: "Raised", IsNew: true,
			RelatedNews: []domain.NewsItem{{Title: "Round", URL: "https://n.example/r"}}},
	}}
	srv := newTestServer(t, store, &memJobs{})

	var list struct {
		Signals []domain.Signal `json:"signals"`
	}
	resp := getJSON(t, srv.URL+"/companies/co-1/signals?category=hiring", &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Signals, 1)
	assert.Equal(t, "Grew", list.Signals[0].Message)

	var counts signals.UnreadCounts
	getJSON(t, srv.URL+"/companies/co-1/signals/unread", &counts)
	assert.Equal(t, 1, counts.Hiring)
	assert.Equal(t, 1, counts.Funding)
	assert.Equal(t, 2, counts.Total)

	var marked map[string]int64
	postJSON(t, srv.URL+"/companies/co-1/signals/read", &marked)
	assert.Equal(t, int64(2), marked["marked"])

	var news struct {
		News []signals.NewsEntry `json:"news"`
	}
	getJSON(t, srv.URL+"/companies/co-1/news", &news)
	require.Len(t, news.News, 1)
	assert.Equal(t, "Round", news.News[0].Title)
}
