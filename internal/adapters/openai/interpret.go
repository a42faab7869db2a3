package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vantage/internal/domain"
	"vantage/internal/ports"
)

// InterpretDelta implements ports.Interpreter. With liveSearch the model
// may ground its signals in web results and attach related news; without
// it a plain JSON-mode completion interprets the delta from context alone.
func (c *Client) InterpretDelta(ctx context.Context, company domain.Company, competitor domain.Competitor, delta domain.Delta, liveSearch bool) ([]ports.CandidateSignal, error) {
	if !c.Configured() {
		return nil, ports.ErrUnavailable
	}

	var raw []byte
	var sources []string
	var err error
	if liveSearch {
		raw, sources, err = c.searchJSON(ctx, interpretPrompt(company, competitor, delta, true))
	} else {
		raw, err = c.completeJSON(ctx, interpretPrompt(company, competitor, delta, false), c.cfg.MaxTokens)
	}
	if err != nil {
		c.log.WithField("competitor", competitor.Name).Warnf("delta interpretation failed: %v", err)
		return nil, ports.ErrUnavailable
	}

	var payload struct {
		Signals []ports.CandidateSignal `json:"signals"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.log.WithField("competitor", competitor.Name).Warnf("unparsable interpretation payload: %v", err)
		return nil, ports.ErrUnavailable
	}

	for i := range payload.Signals {
		cand := &payload.Signals[i]
		// Backfill citation URLs when the model returned signals without
		// explicit sources.
		if cand.SourceURL == "" && len(sources) > 0 {
			cand.SourceURL = sources[0]
		}
		if len(cand.RelatedNews) == 0 && len(sources) > 0 {
			for _, url := range firstN(sources, 3) {
				cand.RelatedNews = append(cand.RelatedNews, domain.NewsItem{Title: url, URL: url})
			}
		}
	}
	return payload.Signals, nil
}

func firstN(urls []string, n int) []string {
	if len(urls) > n {
		return urls[:n]
	}
	return urls
}

const signalSchema = `{
  "signals": [
    {
      "signal_type": "headcount_change" | "industry_shift" | "hiring_shift" | "market_expansion" | "strategic_change" | "product_launch" | "funding_round",
      "category": "hiring" | "product" | "funding",
      "severity": "low" | "medium" | "high",
      "message": "Short UI-ready title about the competitor (~1 sentence)",
      "details": "2-4 sentence explanation of why this competitor change matters.",
      "source_url": "Optional URL to a supporting source (empty if not available)",
      "related_news": [{"title": "", "url": "", "summary": "", "source_name": ""}]
    }
  ]
}`

const categoryRules = `Signal type to category mapping (STRICT):
- headcount_change -> "hiring" (REQUIRED)
- hiring_shift -> "hiring" (REQUIRED)
- funding_round -> "funding" (REQUIRED)
- product_launch -> "product" (REQUIRED)
- market_expansion -> "product" (REQUIRED)
- industry_shift -> "product" (REQUIRED)
- strategic_change -> infer from context, prefer "product" if unclear`

func interpretPrompt(company domain.Company, competitor domain.Competitor, delta domain.Delta, liveSearch bool) string {
	deltaJSON, _ := json.Marshal(delta)
	changeDesc := describeDelta(competitor.Name, delta)

	var searchRules string
	if liveSearch {
		searchRules = fmt.Sprintf(`- Search the web for recent news (last 3-6 months) about %s related to these changes: %s
- Include 1-3 related_news entries per signal when relevant articles are found, with title, url, summary, and source_name.
- If no relevant news is found, return an empty related_news array.`, competitor.Name, changeDesc)
	} else {
		searchRules = `- Include an empty related_news array (web search is not available here).`
	}

	return fmt.Sprintf(`You are an analyst for a competitive intelligence tool.
You receive a "diff" describing changes in a COMPETITOR's organizational state.

Your task:
- Interpret the diff and decide which changes are meaningful for competitive analysis.
- Categorize each signal into one of three categories: hiring, product, or funding.
- Return them as an array of structured "signals".

INPUT:
- Your company is tracking this competitor: %s
- Competitor description: %s
- Change description: %s
- Diff (JSON): %s

OUTPUT FORMAT (MUST BE VALID JSON, NO MARKDOWN):

%s

%s

Rules:
- Focus on what this means COMPETITIVELY for the company watching this competitor.
- Severity should reflect potential competitive impact.
- Be specific about the competitor name in messages.
- ALWAYS assign the category from the mapping above; do not default everything to "product".
- Return an empty signals array if the changes are trivial.
%s`,
		competitor.Name,
		orNA(competitor.Headline),
		changeDesc,
		deltaJSON,
		signalSchema,
		categoryRules,
		searchRules,
	)
}

// describeDelta renders a compact human-readable change summary, used both
// in prompts and as a web search seed.
func describeDelta(competitorName string, delta domain.Delta) string {
	var changes []string
	if ch := delta.EmployeeSizeChange; ch != nil {
		changes = append(changes, fmt.Sprintf("headcount changed from %s to %s employees", ch.Old, ch.New))
	}
	if len(delta.NewIndustries) > 0 {
		changes = append(changes, "entered new industries: "+strings.Join(firstN(delta.NewIndustries, 3), ", "))
	}
	if len(delta.DroppedIndustries) > 0 {
		changes = append(changes, "exited industries: "+strings.Join(firstN(delta.DroppedIndustries, 3), ", "))
	}
	if len(delta.HiringFocusChange) > 0 {
		var increased []string
		for _, dep := range domain.Departments {
			if ch, ok := delta.HiringFocusChange[dep]; ok && ch.Change > 0 {
				increased = append(increased, dep)
			}
		}
		if len(increased) > 0 {
			changes = append(changes, "increased hiring focus in: "+strings.Join(firstN(increased, 3), ", "))
		}
	}
	if mc := delta.PrimaryMarketsChanged; mc != nil && len(mc.Added) > 0 {
		changes = append(changes, "expanded to new markets: "+strings.Join(firstN(mc.Added, 2), ", "))
	}
	if len(changes) == 0 {
		return competitorName + " organizational changes"
	}
	return competitorName + ": " + strings.Join(firstN(changes, 3), ", ")
}
