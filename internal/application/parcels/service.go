package parcels

import (
	"context"
	"errors"
	"fmt"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateParcelInput struct {
	Name             string
	Area             float64
	Latitude         *float64
	Longitude        *float64
	SoilType         string
	IrrigationSystem string
	Address          string
	MultiplierID     *uint
}

func (s *Service) CreateParcel(ctx context.Context, in CreateParcelInput) (*domain.Parcel, error) {
	if in.Name == "" {
		return nil, apperrors.Validation("parcel name is required", "name")
	}
	if in.Area <= 0 {
		return nil, apperrors.Validation("parcel area must be a positive number of hectares", "area")
	}
	if in.MultiplierID != nil {
		var m domain.Multiplier
		if err := s.DB.WithContext(ctx).Where("id = ?", *in.MultiplierID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("multiplier", *in.MultiplierID)
			}
			return nil, err
		}
	}

	p := &domain.Parcel{
		Name:             in.Name,
		Area:             in.Area,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Status:           constants.ParcelAvailable,
		SoilType:         in.SoilType,
		IrrigationSystem: in.IrrigationSystem,
		Address:          in.Address,
		MultiplierID:     in.MultiplierID,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetParcel(ctx context.Context, id uint) (*domain.Parcel, error) {
	var p domain.Parcel
	if err := s.DB.WithContext(ctx).Preload("Multiplier").Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("parcel", id)
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) ListParcels(ctx context.Context, status string) ([]domain.Parcel, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Parcel{})
	if status != "" {
		if status != constants.ParcelAvailable && status != constants.ParcelInUse && status != constants.ParcelResting {
			return nil, apperrors.Validation(fmt.Sprintf("unknown parcel status %q", status), "status")
		}
		q = q.Where("status = ?", status)
	}
	var list []domain.Parcel
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type UpdateParcelInput struct {
	Name             *string
	Area             *float64
	Status           *string
	SoilType         *string
	IrrigationSystem *string
	Address          *string
	MultiplierID     *uint
}

func (s *Service) UpdateParcel(ctx context.Context, id uint, in UpdateParcelInput) (*domain.Parcel, error) {
	p, err := s.GetParcel(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperrors.Validation("parcel name cannot be empty", "name")
		}
		updates["name"] = *in.Name
	}
	if in.Area != nil {
		if *in.Area <= 0 {
			return nil, apperrors.Validation("parcel area must be a positive number of hectares", "area")
		}
		updates["area"] = *in.Area
	}
	if in.Status != nil {
		if *in.Status != constants.ParcelAvailable && *in.Status != constants.ParcelInUse && *in.Status != constants.ParcelResting {
			return nil, apperrors.Validation(fmt.Sprintf("unknown parcel status %q", *in.Status), "status")
		}
		updates["status"] = *in.Status
	}
	if in.SoilType != nil {
		updates["soil_type"] = *in.SoilType
	}
	if in.IrrigationSystem != nil {
		updates["irrigation_system"] = *in.IrrigationSystem
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.MultiplierID != nil {
		var m domain.Multiplier
		if err := s.DB.WithContext(ctx).Where("id = ?", *in.MultiplierID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("multiplier", *in.MultiplierID)
			}
			return nil, err
		}
		updates["multiplier_id"] = *in.MultiplierID
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no valid changes provided", "")
	}

	if err := s.DB.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetParcel(ctx, id)
}

// DeleteParcel refuses to remove a parcel that is currently in use.
func (s *Service) DeleteParcel(ctx context.Context, id uint) error {
	p, err := s.GetParcel(ctx, id)
	if err != nil {
		return err
	}
	if p.Status == constants.ParcelInUse {
		return apperrors.Conflict(
			fmt.Sprintf("parcel %d has a production in progress and cannot be deleted", id),
			map[string]interface{}{"parcel_id": id},
		)
	}
	return s.DB.WithContext(ctx).Delete(p).Error
}
