// internals/features/attendance/service/facet.go
package service

import (
	"fmt"
	"sort"
	"strings"

	model "presensiku_backend/internals/features/attendance/model"
)

/* =========================================================
   Facet aggregation engine
   Grouped percentage trees over an in-memory snapshot.
   Two passes: pass 1 computes observed-status stats per
   group; pass 2 sorts through a transient numeric lookup
   that defaults missing statuses to 0.0 and is never
   written into the output.
   ========================================================= */

type StatusStat struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

type FacetGroup struct {
	Value string                `json:"value"`
	Stats map[string]StatusStat `json:"stats"`
}

// FacetResult: facet field → ordered groups. Groups keep the order of the
// grouping pass; sorting is stable, so ties stay put.
type FacetResult map[string][]FacetGroup

// facetedSearch builds one group list per facet field. Facet fields are
// validated by the caller; the sort field is validated here against the
// statuses the snapshot actually contains.
func facetedSearch(records []model.AttendanceModel, facets []string, sortPair []string) (FacetResult, error) {
	// distinct statuses across the whole snapshot
	observed := map[string]struct{}{}
	for i := range records {
		if records[i].Attendance != "" {
			observed[records[i].Attendance] = struct{}{}
		}
	}

	if len(sortPair) == 2 {
		field := strings.TrimSuffix(sortPair[0], "_percentage")
		if _, ok := observed[field]; !ok &&
			field != string(model.AttendancePresent) &&
			field != string(model.AttendanceAbsent) {
			return nil, ErrInvalidFacetSortKey
		}
	}

	result := FacetResult{}
	for _, field := range facets {
		groups := buildGroups(records, field)
		if len(sortPair) == 2 {
			sortGroups(groups, strings.TrimSuffix(sortPair[0], "_percentage"), sortPair[1])
		}
		stripZeroStats(groups)
		result[field] = groups
	}
	return result, nil
}

func buildGroups(records []model.AttendanceModel, field string) []FacetGroup {
	index := map[string]int{}
	var groups []FacetGroup

	for i := range records {
		value := records[i].FieldValue(field)
		gi, ok := index[value]
		if !ok {
			gi = len(groups)
			index[value] = gi
			groups = append(groups, FacetGroup{Value: value, Stats: map[string]StatusStat{}})
		}
		status := records[i].Attendance
		st := groups[gi].Stats[status]
		st.Count++
		groups[gi].Stats[status] = st
	}

	for gi := range groups {
		total := 0
		for _, st := range groups[gi].Stats {
			total += st.Count
		}
		for status, st := range groups[gi].Stats {
			st.Percentage = fmt.Sprintf("%.2f", float64(st.Count)/float64(total)*100)
			groups[gi].Stats[status] = st
		}
	}
	return groups
}

// sortGroups orders by the numeric percentage of one status. The lookup
// defaults a status the group never saw to 0.0 so every group is comparable.
func sortGroups(groups []FacetGroup, status, order string) {
	value := func(g FacetGroup) float64 {
		st, ok := g.Stats[status]
		if !ok {
			return 0.0
		}
		total := 0
		for _, s := range g.Stats {
			total += s.Count
		}
		if total == 0 {
			return 0.0
		}
		return float64(st.Count) / float64(total) * 100
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if strings.EqualFold(order, "desc") {
			return value(groups[i]) > value(groups[j])
		}
		return value(groups[i]) < value(groups[j])
	})
}

// stripZeroStats drops entries whose formatted percentage reads "0.00".
// With observed-only stats that only happens when a tiny count rounds down
// in a huge group; the exposed tree never shows a zero percentage.
func stripZeroStats(groups []FacetGroup) {
	for gi := range groups {
		for status, st := range groups[gi].Stats {
			if st.Percentage == "0.00" {
				delete(groups[gi].Stats, status)
			}
		}
	}
}
