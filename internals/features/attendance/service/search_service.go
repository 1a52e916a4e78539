// internals/features/attendance/service/search_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	dto "presensiku_backend/internals/features/attendance/dto"
	model "presensiku_backend/internals/features/attendance/model"
	repo "presensiku_backend/internals/features/attendance/repository"
)

const defaultSearchLimit = 20

type SearchOutcome struct {
	// non-facet path
	List       []model.AttendanceModel
	TotalCount int

	// facet path
	Facets FacetResult
}

// SearchAttendance: plain filtered list with in-memory pagination, or a
// faceted percentage tree when facets are requested.
func (s *AttendanceService) SearchAttendance(
	ctx context.Context,
	tenantID uuid.UUID,
	in *dto.AttendanceSearchRequest,
) (*SearchOutcome, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	offset := 0
	if in.Page > 1 {
		offset = limit * (in.Page - 1)
	}

	conds, err := buildFilterConds(tenantID, in.Filters)
	if err != nil {
		return nil, err
	}

	// ── facet path ──
	if len(in.Facets) > 0 {
		for _, facet := range in.Facets {
			if _, ok := model.AttendanceColumns[facet]; !ok {
				return nil, badRequest("%s Invalid facet", facet)
			}
		}

		records, err := s.repo.Find(ctx, repo.Query{Conds: conds})
		if err != nil {
			return nil, err
		}
		tree, err := facetedSearch(records, in.Facets, in.Sort)
		if err != nil {
			return nil, err
		}
		return &SearchOutcome{Facets: tree}, nil
	}

	// ── plain list path ──
	q := repo.Query{Conds: conds}
	if len(in.Sort) == 2 {
		column, order := in.Sort[0], in.Sort[1]
		dbCol, ok := model.ColumnName[column]
		if !ok {
			return nil, badRequest("%s Invalid sort key provide column name", column)
		}
		q.OrderBy = dbCol
		q.Desc = strings.EqualFold(order, "desc")
	}

	records, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	page := records
	if offset < len(records) {
		end := offset + limit
		if end > len(records) {
			end = len(records)
		}
		page = records[offset:end]
	} else {
		page = []model.AttendanceModel{}
	}

	return &SearchOutcome{List: page, TotalCount: len(records)}, nil
}

// buildFilterConds turns the filter map into store predicates. attendanceDate
// matches value-or-null; fromDate/toDate together become a between on the
// date column; any other unknown key is a hard 400.
func buildFilterConds(tenantID uuid.UUID, filters map[string]any) ([]repo.Cond, error) {
	conds := []repo.Cond{repo.Eq("tenant_id", tenantID)}

	if len(filters) == 0 {
		return conds, nil
	}

	fromDate, hasFrom := filters["fromDate"]
	toDate, hasTo := filters["toDate"]
	rangeApplied := false

	for key, value := range filters {
		if key == "fromDate" || key == "toDate" {
			if hasFrom && hasTo {
				if !rangeApplied {
					conds = append(conds, repo.Between("attendance_date", fromDate, toDate))
					rangeApplied = true
				}
				continue
			}
			return nil, badRequest("Please Enter Valid Key to Search. Invalid Key entered Is %s", key)
		}

		dbCol, ok := model.ColumnName[key]
		if !ok {
			return nil, badRequest("Please Enter Valid Key to Search. Invalid Key entered Is %s", key)
		}
		if key == "attendanceDate" {
			conds = append(conds, repo.EqOrNull(dbCol, value))
			continue
		}
		conds = append(conds, repo.Eq(dbCol, normalizeFilterValue(value)))
	}

	return conds, nil
}

// normalizeFilterValue keeps status filters aligned with the lowercased
// write boundary.
func normalizeFilterValue(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}
