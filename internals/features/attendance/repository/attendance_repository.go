// internals/features/attendance/repository/attendance_repository.go
package repository

import (
	"context"

	model "presensiku_backend/internals/features/attendance/model"
)

/* =========================================================
   Predicate conditions
   Forms the engines need: equality, equal-or-null, in-set,
   between two bounds.
   ========================================================= */

type Op int

const (
	OpEq Op = iota
	OpEqOrNull
	OpIn
	OpBetween
)

type Cond struct {
	Column string // DB column name
	Op     Op
	Value  any
	Upper  any // OpBetween only
}

func Eq(column string, value any) Cond {
	return Cond{Column: column, Op: OpEq, Value: value}
}

func EqOrNull(column string, value any) Cond {
	return Cond{Column: column, Op: OpEqOrNull, Value: value}
}

func In(column string, values any) Cond {
	return Cond{Column: column, Op: OpIn, Value: values}
}

func Between(column string, lo, hi any) Cond {
	return Cond{Column: column, Op: OpBetween, Value: lo, Upper: hi}
}

// Query bundles conditions with an optional order-by for list reads.
type Query struct {
	Conds   []Cond
	OrderBy string // DB column; empty = store order
	Desc    bool
}

/* =========================================================
   Store adapter
   ========================================================= */

type AttendanceRepository interface {
	Find(ctx context.Context, q Query) ([]model.AttendanceModel, error)
	FindOne(ctx context.Context, conds ...Cond) (*model.AttendanceModel, error)
	Save(ctx context.Context, m *model.AttendanceModel) (*model.AttendanceModel, error)
	SaveAll(ctx context.Context, ms []model.AttendanceModel) ([]model.AttendanceModel, error)
	// Delete removes every row matching the conditions and reports the
	// affected count.
	Delete(ctx context.Context, conds ...Cond) (int64, error)
}
