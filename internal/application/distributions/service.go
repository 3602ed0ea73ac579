package distributions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type DistributeInput struct {
	LotID            string
	MultiplierID     uint
	Quantity         float64
	DistributionDate time.Time
}

// DistributeResult carries both sides of a completed transfer.
type DistributeResult struct {
	Distribution *domain.DistributedLot `json:"distribution"`
	Lot          *domain.SeedLot        `json:"lot"`
}

// Distribute transfers a quantity from a seed lot to a multiplier as one
// atomic unit: the DistributedLot insert and the lot decrement commit
// together or not at all. A lot drained to zero transitions to DISTRIBUTED.
func (s *Service) Distribute(ctx context.Context, in DistributeInput) (*DistributeResult, error) {
	if in.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be a positive number of kg", "quantity")
	}
	date := in.DistributionDate
	if date.IsZero() {
		date = time.Now()
	}

	var result DistributeResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.SeedLot
		if err := tx.Where("id = ?", in.LotID).First(&lot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("lot", in.LotID)
			}
			return err
		}

		var multiplier domain.Multiplier
		if err := tx.Where("id = ?", in.MultiplierID).First(&multiplier).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("multiplier", in.MultiplierID)
			}
			return err
		}

		if in.Quantity > lot.Quantity {
			return apperrors.InsufficientStock(lot.ID, lot.Quantity, in.Quantity)
		}

		// Relative decrement guarded by the remaining quantity, so a
		// concurrent distribute that won the race cannot be overwritten.
		res := tx.Model(&domain.SeedLot{}).
			Where("id = ? AND quantity >= ?", lot.ID, in.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", in.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Where("id = ?", lot.ID).First(&lot).Error; err != nil {
				return err
			}
			return apperrors.InsufficientStock(lot.ID, lot.Quantity, in.Quantity)
		}

		if err := tx.Where("id = ?", lot.ID).First(&lot).Error; err != nil {
			return err
		}
		if lot.Quantity <= 0 && lot.Status != constants.LotDistributed {
			if err := tx.Model(&lot).Update("status", constants.LotDistributed).Error; err != nil {
				return err
			}
			lot.Status = constants.LotDistributed
		}

		eventBytes, _ := json.Marshal(map[string]interface{}{
			"quantity_before": lot.Quantity + in.Quantity,
			"quantity_after":  lot.Quantity,
			"multiplier":      multiplier.Name,
		})
		record := &domain.DistributedLot{
			LotID:            lot.ID,
			MultiplierID:     multiplier.ID,
			Quantity:         in.Quantity,
			DistributionDate: date,
			Event:            datatypes.JSON(eventBytes),
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		record.Multiplier = &multiplier
		result.Distribution = record
		result.Lot = &lot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type ListFilter struct {
	LotID        string
	MultiplierID *uint
}

func (s *Service) ListDistributions(ctx context.Context, f ListFilter) ([]domain.DistributedLot, error) {
	q := s.DB.WithContext(ctx).Model(&domain.DistributedLot{})
	if f.LotID != "" {
		q = q.Where("lot_id = ?", f.LotID)
	}
	if f.MultiplierID != nil {
		q = q.Where("multiplier_id = ?", *f.MultiplierID)
	}
	var list []domain.DistributedLot
	if err := q.Preload("Multiplier").Order("distribution_date DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
