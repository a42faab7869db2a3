package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Signal categories. Exactly three exist; anything else is normalized to
// CategoryProduct before counting or grouping.
const (
	CategoryHiring  = "hiring"
	CategoryProduct = "product"
	CategoryFunding = "funding"
)

// Categories in stable presentation order.
var Categories = []string{CategoryHiring, CategoryProduct, CategoryFunding}

// Signal types emitted by the generator or proposed by the interpreter.
const (
	TypeHeadcountChange = "headcount_change"
	TypeIndustryShift   = "industry_shift"
	TypeHiringShift     = "hiring_shift"
	TypeMarketExpansion = "market_expansion"
	TypeStrategicChange = "strategic_change"
	TypeProductLaunch   = "product_launch"
	TypeFundingRound    = "funding_round"
	TypeFundingChange   = "funding_change"
)

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// CategoryFor maps a signal type onto its category. The interpretation
// service also proposes a category, but it is not trusted for a field with
// only three valid values and strict downstream filtering semantics; this
// mapping always wins.
func CategoryFor(signalType string) string {
	switch strings.ToLower(signalType) {
	case TypeHeadcountChange, TypeHiringShift:
		return CategoryHiring
	case TypeFundingRound, TypeFundingChange:
		return CategoryFunding
	default:
		return CategoryProduct
	}
}

// NormalizeCategory folds any stored category value back into the fixed
// enumeration, defaulting to product.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, known := range Categories {
		if c == known {
			return known
		}
	}
	return CategoryProduct
}

// NewsItem is a related news article attached to a signal.
type NewsItem struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Summary    string `json:"summary"`
	SourceName string `json:"source_name"`
}

// Signal is a persisted alert derived from one meaningful delta. Only the
// IsNew read-state flag ever changes after creation.
type Signal struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	CompetitorID string     `json:"competitor_id"`
	SignalType   string     `json:"signal_type"`
	Category     string     `json:"category"`
	Severity     string     `json:"severity"`
	Message      string     `json:"message"`
	Details      string     `json:"details"`
	RelatedNews  []NewsItem `json:"related_news,omitempty"`
	SourceURL    string     `json:"source_url,omitempty"`
	IsNew        bool       `json:"is_new"`
	CreatedAt    time.Time  `json:"created_at"`
}

type detailsPayload struct {
	Text        string     `json:"text"`
	RelatedNews []NewsItem `json:"related_news"`
}

// EncodeDetails serializes the explanatory text together with related news.
// Signals without news keep plain text so simple rows stay readable.
func EncodeDetails(text string, news []NewsItem) string {
	if len(news) == 0 {
		return text
	}
	b, err := json.Marshal(detailsPayload{Text: text, RelatedNews: news})
	if err != nil {
		return text
	}
	return string(b)
}

// DecodeDetails splits a stored details value into text and related news.
// Plain-text values (the pre-news format) decode to text with no news.
func DecodeDetails(details string) (string, []NewsItem) {
	if details == "" {
		return "", nil
	}
	var payload detailsPayload
	if err := json.Unmarshal([]byte(details), &payload); err == nil && len(payload.RelatedNews) > 0 {
		return payload.Text, payload.RelatedNews
	}
	return details, nil
}

// DedupNews removes news items with empty or repeated URLs, preserving
// order. Titles fall back to the URL when missing.
func DedupNews(items []NewsItem) []NewsItem {
	seen := make(map[string]bool, len(items))
	out := make([]NewsItem, 0, len(items))
	for _, item := range items {
		if item.URL == "" || seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		if item.Title == "" {
			item.Title = item.URL
		}
		out = append(out, item)
	}
	return out
}
