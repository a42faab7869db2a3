package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vantage/internal/domain"
	"vantage/internal/ports"
)

// GenerateProfile implements ports.Enricher. With liveSearch the
// web-search-augmented path is tried first; either way the result is the
// raw untyped payload, left to snapshot coercion downstream.
func (c *Client) GenerateProfile(ctx context.Context, company domain.Company, competitor domain.Competitor, hint ports.ProfileHint, liveSearch bool) (map[string]any, error) {
	if !c.Configured() {
		return nil, ports.ErrUnavailable
	}

	if liveSearch {
		raw, _, err := c.searchJSON(ctx, searchProfilePrompt(company, competitor, hint))
		if err == nil {
			if profile := decodeObject(raw); profile != nil {
				return profile, nil
			}
		} else {
			c.log.WithField("competitor", competitor.Name).Warnf("live-search profile failed: %v", err)
		}
	}

	raw, err := c.completeJSON(ctx, profilePrompt(company, competitor, hint), c.cfg.MaxTokens)
	if err != nil {
		c.log.WithField("competitor", competitor.Name).Warnf("profile generation failed: %v", err)
		return nil, ports.ErrUnavailable
	}
	profile := decodeObject(raw)
	if profile == nil {
		return nil, ports.ErrUnavailable
	}
	return profile, nil
}

func decodeObject(raw []byte) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

const profileSchema = `{
  "basic": {"name": "", "domain": "", "country": "", "industries": [], "description_summary": ""},
  "organization": {"employee_size": "unknown" | "1-10" | "11-50" | "51-200" | "201-500" | "501-1000" | "1000-5000" | "5000+", "locations": []},
  "hiring_focus": {"engineering": 0, "data": 0, "product": 0, "design": 0, "marketing": 0, "sales": 0, "operations": 0, "ai_ml_roles": 0},
  "strategic_profile": {"primary_markets": [], "product_themes": [], "target_segments": [], "notable_strengths": [], "risk_factors": []}
}`

func profilePrompt(company domain.Company, competitor domain.Competitor, hint ports.ProfileHint) string {
	hintJSON, _ := json.Marshal(hint)
	return fmt.Sprintf(`You are an expert in competitive intelligence. Generate a structured factual competitor profile using ONLY the information provided.
The output is stored as a snapshot and compared over time to detect changes.

IMPORTANT:
- Output MUST be valid JSON only.
- NEVER invent specific facts, numbers, names, products, or technologies not implied by the provided data.
- If uncertain, return "unknown" or empty arrays.
- Keep all fields present, never remove keys.

INPUT DATA:
- Competitor name: %s
- Description: %s
- Industries: %s
- Domain / Website: %s
- Structured data (JSON): %s
- User company for context: %s

RETURN STRICT JSON IN THIS EXACT FORMAT:

%s

RULES:
- Infer trends only if clearly implied by the input.
- Use number scores (0-5) in hiring_focus to indicate emphasis.
- Preserve structure exactly.
- If the input is very limited, return minimal but valid JSON.`,
		competitor.Name,
		orNA(competitor.Headline),
		orNA(strings.Join(hint.Industries, ", ")),
		orNA(competitor.Domain),
		hintJSON,
		company.Name,
		profileSchema,
	)
}

func searchProfilePrompt(company domain.Company, competitor domain.Competitor, hint ports.ProfileHint) string {
	industriesJSON, _ := json.Marshal(hint.Industries)
	return fmt.Sprintf(`Research the company %q (website: %s) and create a competitive intelligence profile.

Search the web for recent information about their products, funding, company size, key markets, notable strengths, and risks they face.

Based on your research, return a JSON profile in this exact format:

%s

Set basic.name to %q, basic.domain to %q, basic.country to %q and basic.industries to %s.
Context: this profile is for %s who is tracking %s as a competitor.

IMPORTANT: Return ONLY valid JSON, no markdown or explanation.`,
		competitor.Name,
		orNA(competitor.Domain),
		profileSchema,
		competitor.Name,
		competitor.Domain,
		competitor.Country,
		industriesJSON,
		company.Name,
		competitor.Name,
	)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
