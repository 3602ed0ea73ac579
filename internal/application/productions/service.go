package productions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateProductionInput struct {
	LotID           string
	ParcelID        uint
	MultiplierID    uint
	StartDate       time.Time
	SowingDate      *time.Time
	PlannedQuantity float64
	Notes           string
}

// CreateProduction plans a sowing cycle. The parcel must be AVAILABLE and
// flips to IN_USE in the same transaction as the insert.
func (s *Service) CreateProduction(ctx context.Context, in CreateProductionInput) (*domain.Production, error) {
	if in.StartDate.IsZero() {
		return nil, apperrors.Validation("start date is required", "start_date")
	}
	if in.PlannedQuantity < 0 {
		return nil, apperrors.Validation("planned quantity cannot be negative", "planned_quantity")
	}

	var production *domain.Production
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.SeedLot
		if err := tx.Where("id = ?", in.LotID).First(&lot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("lot", in.LotID)
			}
			return err
		}
		var parcel domain.Parcel
		if err := tx.Where("id = ?", in.ParcelID).First(&parcel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("parcel", in.ParcelID)
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

		// Guarded occupancy flip: only the request that finds the parcel
		// AVAILABLE gets to plan on it.
		res := tx.Model(&domain.Parcel{}).
			Where("id = ? AND status = ?", parcel.ID, constants.ParcelAvailable).
			Update("status", constants.ParcelInUse)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Where("id = ?", parcel.ID).First(&parcel).Error; err != nil {
				return err
			}
			return apperrors.Conflict(
				fmt.Sprintf("parcel %d is not available (status %s)", parcel.ID, parcel.Status),
				map[string]interface{}{"parcel_id": parcel.ID, "status": parcel.Status},
			)
		}

		production = &domain.Production{
			LotID:           lot.ID,
			ParcelID:        parcel.ID,
			MultiplierID:    multiplier.ID,
			StartDate:       in.StartDate,
			SowingDate:      in.SowingDate,
			PlannedQuantity: in.PlannedQuantity,
			Status:          constants.ProductionPlanned,
			Notes:           in.Notes,
		}
		return tx.Create(production).Error
	})
	if err != nil {
		return nil, err
	}
	return production, nil
}

func (s *Service) GetProduction(ctx context.Context, id uint) (*domain.Production, error) {
	var p domain.Production
	if err := s.DB.WithContext(ctx).Preload("Lot").Preload("Parcel").Preload("Multiplier").
		Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("production", id)
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) ListProductions(ctx context.Context, status string, lotID string) ([]domain.Production, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Production{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if lotID != "" {
		q = q.Where("lot_id = ?", lotID)
	}
	var list []domain.Production
	if err := q.Preload("Lot").Preload("Parcel").Order("start_date DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type UpdateProductionInput struct {
	SowingDate      *time.Time
	PlannedQuantity *float64
	Status          *string
	Notes           *string
}

// UpdateProduction applies partial updates. Completed productions are
// immutable; harvest completion goes through Harvest.
func (s *Service) UpdateProduction(ctx context.Context, id uint, in UpdateProductionInput) (*domain.Production, error) {
	p, err := s.GetProduction(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == constants.ProductionCompleted {
		return nil, apperrors.Conflict(
			fmt.Sprintf("production %d is already completed", id),
			map[string]interface{}{"production_id": id},
		)
	}

	updates := map[string]interface{}{}
	if in.SowingDate != nil {
		updates["sowing_date"] = *in.SowingDate
	}
	if in.PlannedQuantity != nil {
		if *in.PlannedQuantity < 0 {
			return nil, apperrors.Validation("planned quantity cannot be negative", "planned_quantity")
		}
		updates["planned_quantity"] = *in.PlannedQuantity
	}
	if in.Status != nil {
		switch *in.Status {
		case constants.ProductionPlanned, constants.ProductionInProgress, constants.ProductionCancelled:
			updates["status"] = *in.Status
		case constants.ProductionCompleted:
			return nil, apperrors.Validation("completion must go through the harvest operation", "status")
		default:
			return nil, apperrors.Validation(fmt.Sprintf("unknown production status %q", *in.Status), "status")
		}
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no valid changes provided", "")
	}

	if err := s.DB.WithContext(ctx).Model(&domain.Production{ID: p.ID}).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetProduction(ctx, id)
}

// Harvest completes a production: records harvest date and yield, adds the
// yield to the lot's quantity and rests the parcel. All three writes commit
// atomically; harvesting twice is a conflict.
func (s *Service) Harvest(ctx context.Context, productionID uint, harvestDate time.Time, yieldQuantity float64) (*domain.Production, error) {
	if yieldQuantity <= 0 {
		return nil, apperrors.Validation("yield quantity must be a positive number of kg", "yield_quantity")
	}
	if harvestDate.IsZero() {
		harvestDate = time.Now()
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Production
		if err := tx.Where("id = ?", productionID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("production", productionID)
			}
			return err
		}
		// Guarded transition: only one harvest can move the production to
		// COMPLETED, so a concurrent second call conflicts instead of
		// crediting the lot twice.
		res := tx.Model(&domain.Production{}).
			Where("id = ? AND status <> ?", productionID, constants.ProductionCompleted).
			Updates(map[string]interface{}{
				"harvest_date": harvestDate,
				"actual_yield": yieldQuantity,
				"status":       constants.ProductionCompleted,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict(
				fmt.Sprintf("production %d has already been harvested", productionID),
				map[string]interface{}{"production_id": productionID},
			)
		}

		if err := tx.Model(&domain.SeedLot{}).Where("id = ?", p.LotID).
			Update("quantity", gorm.Expr("quantity + ?", yieldQuantity)).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Parcel{}).Where("id = ?", p.ParcelID).
			Update("status", constants.ParcelResting).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduction(ctx, productionID)
}
