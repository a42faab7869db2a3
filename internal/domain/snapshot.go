package domain

import "encoding/json"

// Snapshot is a structured competitor profile observed at one point in
// time. All four sections are always present; absence of a key is not a
// valid state. Snapshots are append-only and never mutated after storage.
type Snapshot struct {
	Basic            Basic            `json:"basic"`
	Organization     Organization     `json:"organization"`
	HiringFocus      map[string]int   `json:"hiring_focus"`
	StrategicProfile StrategicProfile `json:"strategic_profile"`
}

type Basic struct {
	Name               string   `json:"name"`
	Domain             string   `json:"domain"`
	Country            string   `json:"country"`
	Industries         []string `json:"industries"`
	DescriptionSummary string   `json:"description_summary"`
}

type Organization struct {
	EmployeeSize string   `json:"employee_size"`
	Locations    []string `json:"locations"`
}

type StrategicProfile struct {
	PrimaryMarkets   []string `json:"primary_markets"`
	ProductThemes    []string `json:"product_themes"`
	TargetSegments   []string `json:"target_segments"`
	NotableStrengths []string `json:"notable_strengths"`
	RiskFactors      []string `json:"risk_factors"`
}

// Departments is the fixed set of hiring-focus keys. Every snapshot carries
// exactly these, each scored 0-5.
var Departments = []string{
	"engineering", "data", "product", "design",
	"marketing", "sales", "operations", "ai_ml_roles",
}

// StrategicDiffFields are the strategic_profile lists compared by the diff
// engine. notable_strengths and risk_factors are stored but not diffed.
var StrategicDiffFields = []string{"primary_markets", "product_themes", "target_segments"}

const SizeUnknown = "unknown"

type sizeBucket struct {
	limit int
	label string
}

var sizeBuckets = []sizeBucket{
	{10, "1-10"},
	{50, "11-50"},
	{200, "51-200"},
	{500, "201-500"},
	{1000, "501-1000"},
	{5000, "1000-5000"},
}

// SizeBucketFor maps an absolute employee count onto the fixed size
// enumeration. Non-positive counts map to "unknown".
func SizeBucketFor(count int) string {
	if count <= 0 {
		return SizeUnknown
	}
	for _, b := range sizeBuckets {
		if count <= b.limit {
			return b.label
		}
	}
	return "5000+"
}

// DefaultSnapshot returns an empty snapshot with every declared key present
// and every list non-nil.
func DefaultSnapshot() Snapshot {
	hiring := make(map[string]int, len(Departments))
	for _, dep := range Departments {
		hiring[dep] = 0
	}
	return Snapshot{
		Basic: Basic{
			Industries: []string{},
		},
		Organization: Organization{
			EmployeeSize: SizeUnknown,
			Locations:    []string{},
		},
		HiringFocus: hiring,
		StrategicProfile: StrategicProfile{
			PrimaryMarkets:   []string{},
			ProductThemes:    []string{},
			TargetSegments:   []string{},
			NotableStrengths: []string{},
			RiskFactors:      []string{},
		},
	}
}

// ParseStoredSnapshot decodes a persisted snapshot payload. ok is false when
// the payload is unreadable or missing the basic/strategic_profile sections,
// which marks it as unusable for cache reuse and diff baselines.
func ParseStoredSnapshot(data []byte) (Snapshot, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultSnapshot(), false
	}
	if _, ok := raw["basic"].(map[string]any); !ok {
		return DefaultSnapshot(), false
	}
	if _, ok := raw["strategic_profile"].(map[string]any); !ok {
		return DefaultSnapshot(), false
	}
	return CoerceSnapshot(raw), true
}
