// internals/features/attendance/repository/gorm_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	model "presensiku_backend/internals/features/attendance/model"
)

type GormAttendanceRepository struct {
	DB *gorm.DB
}

func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{DB: db}
}

func applyConds(tx *gorm.DB, conds []Cond) *gorm.DB {
	for _, c := range conds {
		switch c.Op {
		case OpEq:
			tx = tx.Where(fmt.Sprintf("%s = ?", c.Column), c.Value)
		case OpEqOrNull:
			tx = tx.Where(fmt.Sprintf("(%s = ? OR %s IS NULL)", c.Column, c.Column), c.Value)
		case OpIn:
			tx = tx.Where(fmt.Sprintf("%s IN ?", c.Column), c.Value)
		case OpBetween:
			tx = tx.Where(fmt.Sprintf("%s BETWEEN ? AND ?", c.Column), c.Value, c.Upper)
		}
	}
	return tx
}

func (r *GormAttendanceRepository) Find(ctx context.Context, q Query) ([]model.AttendanceModel, error) {
	tx := applyConds(r.DB.WithContext(ctx).Model(&model.AttendanceModel{}), q.Conds)
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", q.OrderBy, dir))
	}
	var rows []model.AttendanceModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormAttendanceRepository) FindOne(ctx context.Context, conds ...Cond) (*model.AttendanceModel, error) {
	tx := applyConds(r.DB.WithContext(ctx).Model(&model.AttendanceModel{}), conds)
	var row model.AttendanceModel
	if err := tx.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *GormAttendanceRepository) Save(ctx context.Context, m *model.AttendanceModel) (*model.AttendanceModel, error) {
	if err := r.DB.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *GormAttendanceRepository) SaveAll(ctx context.Context, ms []model.AttendanceModel) ([]model.AttendanceModel, error) {
	if len(ms) == 0 {
		return ms, nil
	}
	if err := r.DB.WithContext(ctx).Save(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *GormAttendanceRepository) Delete(ctx context.Context, conds ...Cond) (int64, error) {
	tx := applyConds(r.DB.WithContext(ctx), conds).Delete(&model.AttendanceModel{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
