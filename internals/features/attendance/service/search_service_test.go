// internals/features/attendance/service/search_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "presensiku_backend/internals/features/attendance/dto"
	model "presensiku_backend/internals/features/attendance/model"
)

func seedSearchData(r *fakeRepo, tenantID uuid.UUID) {
	ctxID := uuid.New()
	for _, day := range []string{"2024-05-01", "2024-05-02", "2024-05-03"} {
		r.seed(model.AttendanceModel{
			TenantID:       tenantID,
			UserID:         uuid.New(),
			ContextID:      ctxID,
			AttendanceDate: mustDate(day),
			Attendance:     "present",
			Context:        "cohort",
		})
	}
	r.seed(model.AttendanceModel{
		TenantID:       tenantID,
		UserID:         uuid.New(),
		ContextID:      ctxID,
		AttendanceDate: mustDate("2024-05-02"),
		Attendance:     "absent",
		Context:        "cohort",
	})
}

func TestSearchAttendance_FilterByStatus(t *testing.T) {
	s, r, _ := newTestService()
	tenantID := uuid.New()
	seedSearchData(r, tenantID)

	out, err := s.SearchAttendance(context.Background(), tenantID, &dto.AttendanceSearchRequest{
		Filters: map[string]any{"attendance": "absent"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalCount)
	require.Len(t, out.List, 1)
	assert.Equal(t, "absent", out.List[0].Attendance)
}

func TestSearchAttendance_TenantIsolation(t *testing.T) {
	s, r, _ := newTestService()
	seedSearchData(r, uuid.New())

	out, err := s.SearchAttendance(context.Background(), uuid.New(), &dto.AttendanceSearchRequest{})
	require.NoError(t, err)
	assert.Zero(t, out.TotalCount)
	assert.Empty(t, out.List)
}

func TestSearchAttendance_DateRange(t *testing.T) {
	s, r, _ := newTestService()
	tenantID := uuid.New()
	seedSearchData(r, tenantID)

	out, err := s.SearchAttendance(context.Background(), tenantID, &dto.AttendanceSearchRequest{
		Filters: map[string]any{"fromDate": "2024-05-02", "toDate": "2024-05-03"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalCount)
}

func TestSearchAttendance_HalfOpenRangeIsInvalid(t *testing.T) {
	s, _, _ := newTestService()

	_, err := s.SearchAttendance(context.Background(), uuid.New(), &dto.AttendanceSearchRequest{
		Filters: map[string]any{"fromDate": "2024-05-02"},
	})
	require.Error(t, err)
	se, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, "Please Enter Valid Key to Search. Invalid Key entered Is fromDate", se.Message)
}

func TestSearchAttendance_UnknownFilterKey(t *testing.T) {
	s, _, _ := newTestService()

	_, err := s.SearchAttendance(context.Background(), uuid.New(), &dto.AttendanceSearchRequest{
		Filters: map[string]any{"bogus": "x"},
	})
	require.Error(t, err)
	se, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, se.Status)
	assert.Equal(t, "Please Enter Valid Key to Search. Invalid Key entered Is bogus", se.Message)
}

func TestSearchAttendance_Pagination(t *testing.T) {
	s, r, _ := newTestService()
	tenantID := uuid.New()
	seedSearchData(r, tenantID)

	out, err := s.SearchAttendance(context.Background(), tenantID, &dto.AttendanceSearchRequest{
		Limit: 2,
		Page:  2,
		Sort:  []string{"attendanceDate", "asc"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, out.TotalCount)
	assert.Len(t, out.List, 2, "page 2 of 4 rows at limit 2")
}

func TestSearchAttendance_PageBeyondEnd(t *testing.T) {
	s, r, _ := newTestService()
	tenantID := uuid.New()
	seedSearchData(r, tenantID)

	out, err := s.SearchAttendance(context.Background(), tenantID, &dto.AttendanceSearchRequest{
		Limit: 10,
		Page:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, out.TotalCount)
	assert.Empty(t, out.List)
}

func TestSearchAttendance_InvalidSortColumn(t *testing.T) {
	s, _, _ := newTestService()

	_, err := s.SearchAttendance(context.Background(), uuid.New(), &dto.AttendanceSearchRequest{
		Sort: []string{"nonsense", "asc"},
	})
	require.Error(t, err)
	se, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, "nonsense Invalid sort key provide column name", se.Message)
}

func TestSearchAttendance_FacetPath(t *testing.T) {
	s, r, _ := newTestService()
	tenantID := uuid.New()
	seedSearchData(r, tenantID)

	out, err := s.SearchAttendance(context.Background(), tenantID, &dto.AttendanceSearchRequest{
		Facets: []string{"attendanceDate"},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Facets)
	assert.Len(t, out.Facets["attendanceDate"], 3)
	assert.Empty(t, out.List, "facet path returns the tree, not a page")
}

func TestSearchAttendance_InvalidFacet(t *testing.T) {
	s, _, _ := newTestService()

	_, err := s.SearchAttendance(context.Background(), uuid.New(), &dto.AttendanceSearchRequest{
		Facets: []string{"nonsense"},
	})
	require.Error(t, err)
	se, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, "nonsense Invalid facet", se.Message)
}

func TestSearchAttendance_FacetWithFilters(t *testing.T) {
	s, r, _ := newTestService()
	tenantID := uuid.New()
	seedSearchData(r, tenantID)

	out, err := s.SearchAttendance(context.Background(), tenantID, &dto.AttendanceSearchRequest{
		Filters: map[string]any{"attendanceDate": "2024-05-02"},
		Facets:  []string{"attendance"},
	})
	require.NoError(t, err)
	groups := out.Facets["attendance"]
	require.Len(t, groups, 2)
	// grouping by the status column itself: each group is homogeneous
	for _, g := range groups {
		assert.Equal(t, 1, g.Stats[g.Value].Count)
		assert.Equal(t, "100.00", g.Stats[g.Value].Percentage)
	}
}
