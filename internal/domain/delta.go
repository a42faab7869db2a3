package domain

// Delta describes the difference between two consecutive snapshots. It is
// transient: computed per refresh, fed to the signal generator, never
// persisted. The JSON tags define the wire shape sent to the interpretation
// service.
type Delta struct {
	IsInitial             bool                   `json:"is_initial,omitempty"`
	EmployeeSizeChange    *ValueChange           `json:"employee_size_change,omitempty"`
	NewIndustries         []string               `json:"new_industries,omitempty"`
	DroppedIndustries     []string               `json:"dropped_industries,omitempty"`
	CountryChanged        *ValueChange           `json:"country_changed,omitempty"`
	HiringFocusChange     map[string]ScoreChange `json:"hiring_focus_change,omitempty"`
	PrimaryMarketsChanged *SetChange             `json:"primary_markets_changed,omitempty"`
	ProductThemesChanged  *SetChange             `json:"product_themes_changed,omitempty"`
	TargetSegmentsChanged *SetChange             `json:"target_segments_changed,omitempty"`
}

type ValueChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type ScoreChange struct {
	Old    int `json:"old"`
	New    int `json:"new"`
	Change int `json:"change"`
}

type SetChange struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Meaningful reports whether the delta carries at least one change from the
// fixed allow-list. An initial observation is never meaningful: there is
// nothing to compare against.
func (d Delta) Meaningful() bool {
	if d.IsInitial {
		return false
	}
	return d.EmployeeSizeChange != nil ||
		len(d.NewIndustries) > 0 ||
		len(d.DroppedIndustries) > 0 ||
		d.CountryChanged != nil ||
		len(d.HiringFocusChange) > 0 ||
		d.PrimaryMarketsChanged != nil ||
		d.ProductThemesChanged != nil ||
		d.TargetSegmentsChanged != nil
}
