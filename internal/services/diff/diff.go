// Package diff computes structural deltas between consecutive competitor
// snapshots.
package diff

import (
	"sort"

	"vantage/internal/domain"
)

// Compute diffs a previous snapshot against a new one. A nil previous
// snapshot yields the initial-observation marker and nothing else.
func Compute(old *domain.Snapshot, current domain.Snapshot) domain.Delta {
	if old == nil {
		return domain.Delta{IsInitial: true}
	}

	var delta domain.Delta

	delta.EmployeeSizeChange = valueChange(old.Organization.EmployeeSize, current.Organization.EmployeeSize)

	added, removed := setDiff(old.Basic.Industries, current.Basic.Industries)
	delta.NewIndustries = added
	delta.DroppedIndustries = removed

	delta.CountryChanged = valueChange(old.Basic.Country, current.Basic.Country)
	delta.HiringFocusChange = hiringChanges(old.HiringFocus, current.HiringFocus)

	delta.PrimaryMarketsChanged = listChange(old.StrategicProfile.PrimaryMarkets, current.StrategicProfile.PrimaryMarkets)
	delta.ProductThemesChanged = listChange(old.StrategicProfile.ProductThemes, current.StrategicProfile.ProductThemes)
	delta.TargetSegmentsChanged = listChange(old.StrategicProfile.TargetSegments, current.StrategicProfile.TargetSegments)

	return delta
}

// valueChange reports a scalar change only when the old value was known.
// An empty or "unknown" baseline is not a change worth acting on.
func valueChange(oldVal, newVal string) *domain.ValueChange {
	if oldVal == "" || oldVal == domain.SizeUnknown || oldVal == newVal {
		return nil
	}
	return &domain.ValueChange{Old: oldVal, New: newVal}
}

func setDiff(oldVals, newVals []string) (added, removed []string) {
	oldSet := toSet(oldVals)
	newSet := toSet(newVals)
	for v := range newSet {
		if !oldSet[v] {
			added = append(added, v)
		}
	}
	for v := range oldSet {
		if !newSet[v] {
			removed = append(removed, v)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func hiringChanges(oldScores, newScores map[string]int) map[string]domain.ScoreChange {
	changes := make(map[string]domain.ScoreChange)
	for _, dep := range domain.Departments {
		oldScore, newScore := oldScores[dep], newScores[dep]
		if oldScore == newScore {
			continue
		}
		changes[dep] = domain.ScoreChange{Old: oldScore, New: newScore, Change: newScore - oldScore}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

func listChange(oldVals, newVals []string) *domain.SetChange {
	added, removed := setDiff(oldVals, newVals)
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}
	return &domain.SetChange{Added: emptyIfNil(added), Removed: emptyIfNil(removed)}
}

func emptyIfNil(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}

func toSet(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
