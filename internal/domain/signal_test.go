package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		signalType string
		want       string
	}{
		{TypeHeadcountChange, CategoryHiring},
		{TypeHiringShift, CategoryHiring},
		{TypeFundingRound, CategoryFunding},
		{TypeFundingChange, CategoryFunding},
		{TypeIndustryShift, CategoryProduct},
		{TypeMarketExpansion, CategoryProduct},
		{TypeStrategicChange, CategoryProduct},
		{TypeProductLaunch, CategoryProduct},
		{"HEADCOUNT_CHANGE", CategoryHiring},
		{"something_novel", CategoryProduct},
		{"", CategoryProduct},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoryFor(tc.signalType), "type=%q", tc.signalType)
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryHiring, NormalizeCategory("hiring"))
	assert.Equal(t, CategoryHiring, NormalizeCategory(" Hiring "))
	assert.Equal(t, CategoryFunding, NormalizeCategory("FUNDING"))
	assert.Equal(t, CategoryProduct, NormalizeCategory("strategy"))
	assert.Equal(t, CategoryProduct, NormalizeCategory(""))
}

func TestDetailsRoundTrip(t *testing.T) {
	news := []NewsItem{
		{Title: "Acme raises Series B", URL: "https://news.example/acme-b", SourceName: "Example News"},
	}
	encoded := EncodeDetails("Raised a new round.", news)

	text, decoded := DecodeDetails(encoded)
	assert.Equal(t, "Raised a new round.", text)
	require.Len(t, decoded, 1)
	assert.Equal(t, news[0], decoded[0])
}

func TestDetailsPlainText(t *testing.T) {
	encoded := EncodeDetails("No related coverage.", nil)
	assert.Equal(t, "No related coverage.", encoded)

	text, news := DecodeDetails("legacy plain details")
	assert.Equal(t, "legacy plain details", text)
	assert.Nil(t, news)

	text, news = DecodeDetails("")
	assert.Empty(t, text)
	assert.Nil(t, news)
}

func TestDedupNews(t *testing.T) {
	items := []NewsItem{
		{Title: "First", URL: "https://a.example/1"},
		{Title: "Dup", URL: "https://a.example/1"},
		{Title: "No URL"},
		{URL: "https://b.example/2"},
	}
	out := DedupNews(items)
	require.Len(t, out, 2)
	assert.Equal(t, "First", out[0].Title)
	assert.Equal(t, "https://b.example/2", out[1].Title)
	assert.Equal(t, "https://b.example/2", out[1].URL)
}
