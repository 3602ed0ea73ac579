package multipliers

import (
	"context"
	"errors"
	"fmt"
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

type CreateMultiplierInput struct {
	Name               string
	Address            string
	Latitude           *float64
	Longitude          *float64
	YearsExperience    int
	CertificationLevel string
	Specialization     string
	Phone              string
	Email              string
}

func (s *Service) CreateMultiplier(ctx context.Context, in CreateMultiplierInput) (*domain.Multiplier, error) {
	if in.Name == "" {
		return nil, apperrors.Validation("multiplier name is required", "name")
	}
	if in.Email != "" && !validation.IsValidEmail(in.Email) {
		return nil, apperrors.Validation(fmt.Sprintf("invalid email %q", in.Email), "email")
	}
	cert := in.CertificationLevel
	if cert == "" {
		cert = constants.CertBeginner
	}

	m := &domain.Multiplier{
		Name:               in.Name,
		Status:             constants.MultiplierActive,
		Address:            in.Address,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		YearsExperience:    in.YearsExperience,
		CertificationLevel: cert,
		Specialization:     in.Specialization,
		Phone:              in.Phone,
		Email:              in.Email,
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, apperrors.Conflict(fmt.Sprintf("multiplier with email %s already exists", in.Email), map[string]interface{}{"email": in.Email})
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) GetMultiplier(ctx context.Context, id uint) (*domain.Multiplier, error) {
	var m domain.Multiplier
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("multiplier", id)
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) ListMultipliers(ctx context.Context, status string) ([]domain.Multiplier, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Multiplier{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []domain.Multiplier
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type UpdateMultiplierInput struct {
	Name               *string
	Status             *string
	Address            *string
	YearsExperience    *int
	CertificationLevel *string
	Specialization     *string
	Phone              *string
	Email              *string
}

func (s *Service) UpdateMultiplier(ctx context.Context, id uint, in UpdateMultiplierInput) (*domain.Multiplier, error) {
	m, err := s.GetMultiplier(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperrors.Validation("multiplier name cannot be empty", "name")
		}
		updates["name"] = *in.Name
	}
	if in.Status != nil {
		if *in.Status != constants.MultiplierActive && *in.Status != constants.MultiplierInactive {
			return nil, apperrors.Validation(fmt.Sprintf("unknown multiplier status %q", *in.Status), "status")
		}
		updates["status"] = *in.Status
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.YearsExperience != nil {
		updates["years_experience"] = *in.YearsExperience
	}
	if in.CertificationLevel != nil {
		updates["certification_level"] = *in.CertificationLevel
	}
	if in.Specialization != nil {
		updates["specialization"] = *in.Specialization
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Email != nil {
		if !validation.IsValidEmail(*in.Email) {
			return nil, apperrors.Validation(fmt.Sprintf("invalid email %q", *in.Email), "email")
		}
		updates["email"] = *in.Email
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no valid changes provided", "")
	}

	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetMultiplier(ctx, id)
}

// DeleteMultiplier soft-deletes; multipliers with distribution history are
// deactivated instead so past transfers stay attributable.
func (s *Service) DeleteMultiplier(ctx context.Context, id uint) (deactivated bool, err error) {
	m, err := s.GetMultiplier(ctx, id)
	if err != nil {
		return false, err
	}
	var deps int64
	if err := s.DB.WithContext(ctx).Model(&domain.DistributedLot{}).Where("multiplier_id = ?", id).Count(&deps).Error; err != nil {
		return false, err
	}
	var prods int64
	if err := s.DB.WithContext(ctx).Model(&domain.Production{}).Where("multiplier_id = ?", id).Count(&prods).Error; err != nil {
		return false, err
	}
	if deps+prods > 0 {
		if err := s.DB.WithContext(ctx).Model(m).Update("status", constants.MultiplierInactive).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	return false, s.DB.WithContext(ctx).Delete(m).Error
}

// ListDistributedLots returns all transfers received by a multiplier.
func (s *Service) ListDistributedLots(ctx context.Context, id uint) ([]domain.DistributedLot, error) {
	if _, err := s.GetMultiplier(ctx, id); err != nil {
		return nil, err
	}
	var list []domain.DistributedLot
	if err := s.DB.WithContext(ctx).Preload("Lot").
		Where("multiplier_id = ?", id).Order("distribution_date DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
