// internals/features/attendance/service/service_test.go
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	model "presensiku_backend/internals/features/attendance/model"
	repo "presensiku_backend/internals/features/attendance/repository"
)

/* =========================================================
   In-memory repository + recording publisher for the
   engine tests. The fake evaluates the same predicate
   conditions the gorm adapter translates to SQL.
   ========================================================= */

type fakeRepo struct {
	mu      sync.Mutex
	records []model.AttendanceModel

	findErr   error
	deleteErr error
	saveErr   error
	// fail Find calls after the Nth (0 = disabled), to break only the
	// batched sync read
	failFindAfter int
	// per-user save failures, for partial bulk outcomes
	failUsers map[uuid.UUID]bool

	findCalls   int
	saveCalls   int
	deleteCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{failUsers: map[uuid.UUID]bool{}}
}

func (f *fakeRepo) seed(ms ...model.AttendanceModel) {
	for i := range ms {
		if ms[i].AttendanceID == uuid.Nil {
			ms[i].AttendanceID = uuid.New()
		}
		f.records = append(f.records, ms[i])
	}
}

func condValue(v any) string {
	switch t := v.(type) {
	case uuid.UUID:
		return t.String()
	case time.Time:
		return t.Format("2006-01-02")
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func fieldValue(m *model.AttendanceModel, column string) string {
	switch column {
	case "attendance_id":
		return m.AttendanceID.String()
	case "tenant_id":
		return m.TenantID.String()
	case "user_id":
		return m.UserID.String()
	case "context_id":
		return m.ContextID.String()
	case "attendance_date":
		return m.AttendanceDate.Format("2006-01-02")
	case "attendance":
		return m.Attendance
	case "context":
		return m.Context
	case "scope":
		return m.Scope
	default:
		return m.FieldValue(column)
	}
}

func matches(m *model.AttendanceModel, c repo.Cond) bool {
	fv := fieldValue(m, c.Column)
	switch c.Op {
	case repo.OpEq:
		return fv == condValue(c.Value)
	case repo.OpEqOrNull:
		return fv == "" || fv == condValue(c.Value)
	case repo.OpIn:
		switch vals := c.Value.(type) {
		case []uuid.UUID:
			for _, v := range vals {
				if fv == v.String() {
					return true
				}
			}
		case []time.Time:
			for _, v := range vals {
				if fv == v.Format("2006-01-02") {
					return true
				}
			}
		case []string:
			for _, v := range vals {
				if fv == v {
					return true
				}
			}
		}
		return false
	case repo.OpBetween:
		return fv >= condValue(c.Value) && fv <= condValue(c.Upper)
	}
	return false
}

func (f *fakeRepo) Find(_ context.Context, q repo.Query) ([]model.AttendanceModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.failFindAfter > 0 && f.findCalls > f.failFindAfter {
		return nil, fmt.Errorf("find failed on call %d", f.findCalls)
	}
	var out []model.AttendanceModel
	for i := range f.records {
		ok := true
		for _, c := range q.Conds {
			if !matches(&f.records[i], c) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, f.records[i])
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := fieldValue(&out[i], q.OrderBy), fieldValue(&out[j], q.OrderBy)
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}
	return out, nil
}

func (f *fakeRepo) FindOne(ctx context.Context, conds ...repo.Cond) (*model.AttendanceModel, error) {
	out, err := f.Find(ctx, repo.Query{Conds: conds})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (f *fakeRepo) Save(_ context.Context, m *model.AttendanceModel) (*model.AttendanceModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if f.failUsers[m.UserID] {
		return nil, fmt.Errorf("store rejected user %s", m.UserID)
	}
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
		f.records = append(f.records, *m)
		return m, nil
	}
	for i := range f.records {
		if f.records[i].AttendanceID == m.AttendanceID {
			f.records[i] = *m
			return m, nil
		}
	}
	f.records = append(f.records, *m)
	return m, nil
}

func (f *fakeRepo) SaveAll(ctx context.Context, ms []model.AttendanceModel) ([]model.AttendanceModel, error) {
	saved := make([]model.AttendanceModel, 0, len(ms))
	for i := range ms {
		m, err := f.Save(ctx, &ms[i])
		if err != nil {
			return nil, err
		}
		saved = append(saved, *m)
	}
	return saved, nil
}

func (f *fakeRepo) Delete(_ context.Context, conds ...repo.Cond) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var kept []model.AttendanceModel
	var affected int64
	for i := range f.records {
		ok := true
		for _, c := range conds {
			if !matches(&f.records[i], c) {
				ok = false
				break
			}
		}
		if ok {
			affected++
			continue
		}
		kept = append(kept, f.records[i])
	}
	f.records = kept
	return affected, nil
}

type published struct {
	EventType     string
	Payload       any
	CorrelationID string
}

type recordPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordPublisher) PublishAttendanceEvent(eventType string, payload any, correlationID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{EventType: eventType, Payload: payload, CorrelationID: correlationID})
}

func (p *recordPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

func newTestService() (*AttendanceService, *fakeRepo, *recordPublisher) {
	r := newFakeRepo()
	p := &recordPublisher{}
	s := NewAttendanceService(r, p)
	return s, r, p
}

// fixed clock so "today" comparisons are deterministic
func fixClock(s *AttendanceService, day string) {
	t, _ := time.Parse("2006-01-02", day)
	s.now = func() time.Time { return t }
}

func mustDate(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t
}

func strp(s string) *string { return &s }
