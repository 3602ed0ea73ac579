package varieties

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"
	"seedtrace-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateVarietyInput struct {
	Code           string
	Name           string
	CropType       string
	Description    string
	MaturityDays   int
	YieldPotential *float64
	Origin         string
	ReleaseYear    *int
}

func (s *Service) CreateVariety(ctx context.Context, in CreateVarietyInput) (*domain.SeedVariety, error) {
	if !validation.IsValidVarietyCode(in.Code) {
		return nil, apperrors.Validation(fmt.Sprintf("invalid variety code %q", in.Code), "code")
	}
	if in.Name == "" {
		return nil, apperrors.Validation("variety name is required", "name")
	}
	if !constants.IsValidCropType(in.CropType) {
		return nil, apperrors.Validation(fmt.Sprintf("unknown crop type %q", in.CropType), "crop_type")
	}

	variety := &domain.SeedVariety{
		Code:           strings.ToUpper(in.Code),
		Name:           in.Name,
		CropType:       in.CropType,
		Description:    in.Description,
		MaturityDays:   in.MaturityDays,
		YieldPotential: in.YieldPotential,
		Origin:         in.Origin,
		ReleaseYear:    in.ReleaseYear,
		IsActive:       true,
	}
	if err := s.DB.WithContext(ctx).Create(variety).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, apperrors.Conflict(fmt.Sprintf("variety code %s already exists", variety.Code), map[string]interface{}{"code": variety.Code})
		}
		return nil, err
	}
	return variety, nil
}

// GetVariety resolves a variety by numeric ID or by code.
func (s *Service) GetVariety(ctx context.Context, idOrCode string) (*domain.SeedVariety, error) {
	var variety domain.SeedVariety
	q := s.DB.WithContext(ctx)
	if id, err := strconv.ParseUint(idOrCode, 10, 32); err == nil {
		q = q.Where("id = ?", uint(id))
	} else {
		q = q.Where("code = ?", strings.ToUpper(idOrCode))
	}
	if err := q.First(&variety).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("variety", idOrCode)
		}
		return nil, err
	}
	return &variety, nil
}

func (s *Service) ListVarieties(ctx context.Context, cropType string, includeInactive bool) ([]domain.SeedVariety, error) {
	q := s.DB.WithContext(ctx).Model(&domain.SeedVariety{})
	if cropType != "" {
		if !constants.IsValidCropType(cropType) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown crop type %q", cropType), "crop_type")
		}
		q = q.Where("crop_type = ?", cropType)
	}
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var list []domain.SeedVariety
	if err := q.Order("code ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type UpdateVarietyInput struct {
	Name           *string
	Description    *string
	MaturityDays   *int
	YieldPotential *float64
	Origin         *string
	IsActive       *bool
}

func (s *Service) UpdateVariety(ctx context.Context, idOrCode string, in UpdateVarietyInput) (*domain.SeedVariety, error) {
	variety, err := s.GetVariety(ctx, idOrCode)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperrors.Validation("variety name cannot be empty", "name")
		}
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.MaturityDays != nil {
		updates["maturity_days"] = *in.MaturityDays
	}
	if in.YieldPotential != nil {
		updates["yield_potential"] = *in.YieldPotential
	}
	if in.Origin != nil {
		updates["origin"] = *in.Origin
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no valid changes provided", "")
	}

	if err := s.DB.WithContext(ctx).Model(variety).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetVariety(ctx, strconv.FormatUint(uint64(variety.ID), 10))
}

// DeleteVariety soft-deletes a variety; varieties referenced by lots cannot
// be removed.
func (s *Service) DeleteVariety(ctx context.Context, idOrCode string) error {
	variety, err := s.GetVariety(ctx, idOrCode)
	if err != nil {
		return err
	}
	var lotCount int64
	if err := s.DB.WithContext(ctx).Model(&domain.SeedLot{}).Where("variety_id = ?", variety.ID).Count(&lotCount).Error; err != nil {
		return err
	}
	if lotCount > 0 {
		return apperrors.Conflict(
			fmt.Sprintf("variety %s has %d seed lots and cannot be deleted", variety.Code, lotCount),
			map[string]interface{}{"code": variety.Code, "lot_count": lotCount},
		)
	}
	return s.DB.WithContext(ctx).Delete(variety).Error
}
