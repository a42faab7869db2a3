package signals

import (
	"context"
	"fmt"
	"sort"

	"vantage/internal/domain"
	"vantage/internal/ports"
)

// Feed is the read side of the signal store: category-filtered listing,
// unread accounting, and read-state transitions.
type Feed struct {
	store ports.SignalRepository
}

func NewFeed(store ports.SignalRepository) *Feed {
	return &Feed{store: store}
}

// List returns a company's signals newest-first. An empty category returns
// everything; otherwise the category is normalized before filtering.
func (f *Feed) List(ctx context.Context, companyID, category string) ([]domain.Signal, error) {
	if category != "" {
		category = domain.NormalizeCategory(category)
	}
	signals, err := f.store.ListSignals(ctx, companyID, category)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	if signals == nil {
		signals = []domain.Signal{}
	}
	return signals, nil
}

// UnreadCounts holds unread totals partitioned by category. Stored signals
// whose category has drifted outside the enumeration count as product.
type UnreadCounts struct {
	Hiring  int `json:"hiring"`
	Product int `json:"product"`
	Funding int `json:"funding"`
	Total   int `json:"total"`
}

func (f *Feed) CountUnread(ctx context.Context, companyID string) (UnreadCounts, error) {
	rows, err := f.store.CountUnread(ctx, companyID)
	if err != nil {
		return UnreadCounts{}, fmt.Errorf("count unread: %w", err)
	}
	var counts UnreadCounts
	for _, row := range rows {
		switch domain.NormalizeCategory(row.Category) {
		case domain.CategoryHiring:
			counts.Hiring += row.Count
		case domain.CategoryFunding:
			counts.Funding += row.Count
		default:
			counts.Product += row.Count
		}
		counts.Total += row.Count
	}
	return counts, nil
}

// MarkAllRead flips every unread signal for the company to read. Calling
// it again is a no-op.
func (f *Feed) MarkAllRead(ctx context.Context, companyID string) (int64, error) {
	n, err := f.store.MarkAllRead(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("mark signals read: %w", err)
	}
	return n, nil
}

// GroupByCategory buckets signals into the three fixed categories.
func GroupByCategory(signals []domain.Signal) map[string][]domain.Signal {
	groups := make(map[string][]domain.Signal, len(domain.Categories))
	for _, cat := range domain.Categories {
		groups[cat] = []domain.Signal{}
	}
	for _, sig := range signals {
		cat := domain.NormalizeCategory(sig.Category)
		groups[cat] = append(groups[cat], sig)
	}
	return groups
}

// NewsEntry is one related-news article with the signal context it came
// from, for the aggregated news view.
type NewsEntry struct {
	domain.NewsItem
	CompetitorID  string `json:"competitor_id"`
	SignalMessage string `json:"signal_message"`
	Category      string `json:"category"`
	CreatedAt     string `json:"created_at"`
}

// CollectNews gathers related news across a company's signals, deduplicated
// by URL and ordered newest-first by signal creation time.
func (f *Feed) CollectNews(ctx context.Context, companyID string) ([]NewsEntry, error) {
	signals, err := f.List(ctx, companyID, "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	entries := []NewsEntry{}
	for _, sig := range signals {
		for _, item := range sig.RelatedNews {
			if item.URL == "" || seen[item.URL] {
				continue
			}
			seen[item.URL] = true
			if item.Title == "" {
				item.Title = item.URL
			}
			entries = append(entries, NewsEntry{
				NewsItem:      item,
				CompetitorID:  sig.CompetitorID,
				SignalMessage: sig.Message,
				Category:      domain.NormalizeCategory(sig.Category),
				CreatedAt:     sig.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt > entries[j].CreatedAt })
	return entries, nil
}
