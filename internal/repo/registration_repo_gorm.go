package repo

import (
	"errors"

	"gorm.io/gorm"

	"vehicle-registry/internal/domain"
)

type RegistrationRepo struct{ db *gorm.DB }

func NewRegistrationRepo(db *gorm.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// Create 一次提交写入车辆、车主、登记三行，同一事务，保证无孤儿行。
func (r *RegistrationRepo) Create(reg *domain.VehicleRegistration) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if reg.Vehicle != nil {
			if err := tx.Create(reg.Vehicle).Error; err != nil {
				return err
			}
			reg.VehicleID = reg.Vehicle.ID
		}
		if reg.Owner != nil {
			if err := tx.Create(reg.Owner).Error; err != nil {
				return err
			}
			reg.OwnerID = reg.Owner.ID
		}
		return tx.Create(reg).Error
	})
}

func (r *RegistrationRepo) FindByID(id string) (*domain.VehicleRegistration, error) {
	var reg domain.VehicleRegistration
	err := r.db.
		Preload("Vehicle").
		Preload("Owner").
		Preload("User").
		First(&reg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepo) List(f domain.RegistrationFilter) ([]domain.VehicleRegistration, int64, error) {
	tx := r.db.Model(&domain.VehicleRegistration{})
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var regs []domain.VehicleRegistration
	err := tx.
		Preload("Vehicle").
		Preload("Owner").
		Preload("User").
		Order("submitted_at desc").
		Offset(f.Offset).Limit(limit).
		Find(&regs).Error
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

// UpdateStatus 条件更新：仅当行仍为 PENDING 时生效。并发审核时
// 竞争失败的一方 RowsAffected 为 0，由上层按状态冲突处理。
func (r *RegistrationRepo) UpdateStatus(reg *domain.VehicleRegistration) (bool, error) {
	res := r.db.Model(&domain.VehicleRegistration{}).
		Where("id = ? AND status = ?", reg.ID, domain.StatusPending).
		Updates(map[string]any{
			"status":              reg.Status,
			"reviewed_at":         reg.ReviewedAt,
			"rejection_reason":    reg.RejectionReason,
			"registration_number": reg.RegistrationNumber,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
