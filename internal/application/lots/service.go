package lots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seedtrace-backend/internal/application/policies/lineage"
	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Service struct {
	DB        *gorm.DB
	Rdb       *redis.Client
	CacheTTL  time.Duration
	QRBaseURL string
}

type CreateLotInput struct {
	VarietyID      uint
	Level          string
	Quantity       float64
	ProductionDate time.Time
	ExpiryDate     *time.Time
	Status         string
	BatchNumber    string
	Notes          string
	ParentLotID    *string
}

// CreateLot registers a new seed lot. ID generation, lineage validation and
// the insert run in one transaction so concurrent creations for the same
// (prefix, level, year) cannot collide.
func (s *Service) CreateLot(ctx context.Context, in CreateLotInput) (*domain.SeedLot, error) {
	if !constants.IsValidLevel(in.Level) {
		return nil, apperrors.Validation(fmt.Sprintf("unknown generation level %q", in.Level), "level")
	}
	if in.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be a positive number of kg", "quantity")
	}
	status := in.Status
	if status == "" {
		status = constants.LotPending
	}
	if !constants.IsValidLotStatus(status) {
		return nil, apperrors.Validation(fmt.Sprintf("unknown lot status %q", status), "status")
	}
	if in.ProductionDate.IsZero() {
		return nil, apperrors.Validation("production date is required", "production_date")
	}

	var lot *domain.SeedLot
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var variety domain.SeedVariety
		if err := tx.Where("id = ?", in.VarietyID).First(&variety).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("variety", in.VarietyID)
			}
			return err
		}

		if in.ParentLotID != nil {
			var parent domain.SeedLot
			if err := tx.Where("id = ?", *in.ParentLotID).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("parent lot", *in.ParentLotID)
				}
				return err
			}
			if err := lineage.CanCreateChild(&parent, in.Level, in.Quantity); err != nil {
				return err
			}
		}

		id, err := generateLotID(tx, variety, in.Level, in.ProductionDate.Year())
		if err != nil {
			return err
		}

		lot = &domain.SeedLot{
			ID:             id,
			VarietyID:      variety.ID,
			Level:          in.Level,
			Quantity:       in.Quantity,
			ProductionDate: in.ProductionDate,
			ExpiryDate:     in.ExpiryDate,
			Status:         status,
			BatchNumber:    in.BatchNumber,
			Notes:          in.Notes,
			ParentLotID:    in.ParentLotID,
			IsActive:       true,
		}
		lot.QRCode, err = qrPayload(s.QRBaseURL, lot, variety.Code)
		if err != nil {
			return err
		}

		if err := tx.Create(lot).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
				return apperrors.Conflict(fmt.Sprintf("lot ID %s already exists", id), map[string]interface{}{"lot_id": id})
			}
			return err
		}
		lot.Variety = &variety
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateGenealogyCache(ctx)
	return lot, nil
}

// GetLot returns one lot with its variety preloaded.
func (s *Service) GetLot(ctx context.Context, id string) (*domain.SeedLot, error) {
	var lot domain.SeedLot
	if err := s.DB.WithContext(ctx).Preload("Variety").Where("id = ?", id).First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("lot", id)
		}
		return nil, err
	}
	return &lot, nil
}

type ListLotsFilter struct {
	Level           string
	Status          string
	VarietyID       *uint
	IncludeInactive bool
	Page            int
	PageSize        int
}

// ListLots returns lots matching the filter, newest first, plus the total
// count for pagination metadata.
func (s *Service) ListLots(ctx context.Context, f ListLotsFilter) ([]domain.SeedLot, int64, error) {
	if f.Level != "" && !constants.IsValidLevel(f.Level) {
		return nil, 0, apperrors.Validation(fmt.Sprintf("unknown generation level %q", f.Level), "level")
	}
	if f.Status != "" && !constants.IsValidLotStatus(f.Status) {
		return nil, 0, apperrors.Validation(fmt.Sprintf("unknown lot status %q", f.Status), "status")
	}

	q := s.DB.WithContext(ctx).Model(&domain.SeedLot{})
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.VarietyID != nil {
		q = q.Where("variety_id = ?", *f.VarietyID)
	}
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var lotList []domain.SeedLot
	if err := q.Preload("Variety").Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&lotList).Error; err != nil {
		return nil, 0, err
	}
	return lotList, total, nil
}

type UpdateLotInput struct {
	Quantity    *float64
	Status      *string
	Notes       *string
	BatchNumber *string
	ExpiryDate  *time.Time
}

// UpdateLot applies partial updates. The lot ID, level, variety and parent
// link are immutable.
func (s *Service) UpdateLot(ctx context.Context, id string, in UpdateLotInput) (*domain.SeedLot, error) {
	var lot domain.SeedLot
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("lot", id)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, apperrors.Validation("quantity cannot be negative", "quantity")
		}
		updates["quantity"] = *in.Quantity
	}
	if in.Status != nil {
		if !constants.IsValidLotStatus(*in.Status) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown lot status %q", *in.Status), "status")
		}
		updates["status"] = *in.Status
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.BatchNumber != nil {
		updates["batch_number"] = *in.BatchNumber
	}
	if in.ExpiryDate != nil {
		updates["expiry_date"] = *in.ExpiryDate
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no valid changes provided", "")
	}

	if err := s.DB.WithContext(ctx).Model(&lot).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.invalidateGenealogyCache(ctx)
	return s.GetLot(ctx, id)
}

// DeleteLot removes a lot. Lots with dependent records (children, quality
// controls, productions, distributions) are deactivated instead so the
// traceability chain stays intact.
func (s *Service) DeleteLot(ctx context.Context, id string) (deactivated bool, err error) {
	var lot domain.SeedLot
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("lot", id)
		}
		return false, err
	}

	var deps int64
	for _, q := range []*gorm.DB{
		s.DB.WithContext(ctx).Model(&domain.SeedLot{}).Where("parent_lot_id = ?", id),
		s.DB.WithContext(ctx).Model(&domain.QualityControl{}).Where("lot_id = ?", id),
		s.DB.WithContext(ctx).Model(&domain.Production{}).Where("lot_id = ?", id),
		s.DB.WithContext(ctx).Model(&domain.DistributedLot{}).Where("lot_id = ?", id),
	} {
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return false, err
		}
		deps += n
	}

	if deps > 0 {
		if err := s.DB.WithContext(ctx).Model(&lot).Update("is_active", false).Error; err != nil {
			return false, err
		}
		s.invalidateGenealogyCache(ctx)
		return true, nil
	}

	if err := s.DB.WithContext(ctx).Delete(&lot).Error; err != nil {
		return false, err
	}
	s.invalidateGenealogyCache(ctx)
	return false, nil
}

// Stats aggregates lot counts by level and status plus the total quantity
// in stock, for dashboard reporting.
type Stats struct {
	TotalLots     int64              `json:"total_lots"`
	TotalQuantity float64            `json:"total_quantity"`
	ByLevel       map[string]int64   `json:"by_level"`
	ByStatus      map[string]int64   `json:"by_status"`
}

func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	out := &Stats{ByLevel: map[string]int64{}, ByStatus: map[string]int64{}}

	base := s.DB.WithContext(ctx).Model(&domain.SeedLot{}).Where("is_active = ?", true)
	if err := base.Count(&out.TotalLots).Error; err != nil {
		return nil, err
	}

	var totalQty *float64
	if err := s.DB.WithContext(ctx).Model(&domain.SeedLot{}).Where("is_active = ?", true).
		Select("SUM(quantity)").Scan(&totalQty).Error; err != nil {
		return nil, err
	}
	if totalQty != nil {
		out.TotalQuantity = *totalQty
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byLevel []bucket
	if err := s.DB.WithContext(ctx).Model(&domain.SeedLot{}).Where("is_active = ?", true).
		Select("level AS key, COUNT(*) AS count").Group("level").Scan(&byLevel).Error; err != nil {
		return nil, err
	}
	for _, b := range byLevel {
		out.ByLevel[b.Key] = b.Count
	}
	var byStatus []bucket
	if err := s.DB.WithContext(ctx).Model(&domain.SeedLot{}).Where("is_active = ?", true).
		Select("status AS key, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		out.ByStatus[b.Key] = b.Count
	}
	return out, nil
}
