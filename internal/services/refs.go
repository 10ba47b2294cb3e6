package services

import (
	"context"

	"gorm.io/gorm"

	"hospital-management-server/internal/models"
)

// exists reports whether a row of model with the given id is present.
func exists(ctx context.Context, db *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// requirePatient and requireDoctor check foreign references at creation time.
func requirePatient(ctx context.Context, db *gorm.DB, id uint) error {
	ok, err := exists(ctx, db, &models.Patient{}, id)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("patient_id", "patient %d does not exist", id)
	}
	return nil
}

func requireDoctor(ctx context.Context, db *gorm.DB, id uint) error {
	ok, err := exists(ctx, db, &models.Doctor{}, id)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("doctor_id", "doctor %d does not exist", id)
	}
	return nil
}

// countWhere counts rows of model matching column = id.
func countWhere(ctx context.Context, db *gorm.DB, model interface{}, column string, id uint) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).Where(column+" = ?", id).Count(&n).Error
	return n, err
}
