package qualitycontrols

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"
	"seedtrace-backend/internal/pkg/validation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateControlInput struct {
	LotID           string
	ControlDate     time.Time
	GerminationRate float64
	VarietyPurity   float64
	MoistureContent *float64
	Result          string
	Observations    string
	TestResults     datatypes.JSON
	Inspector       string
}

// CreateControl records an inspection and applies its verdict to the lot:
// PASS certifies it, FAIL rejects it. Record and status change commit
// together.
func (s *Service) CreateControl(ctx context.Context, in CreateControlInput) (*domain.QualityControl, error) {
	if !validation.IsValidPercentage(in.GerminationRate) {
		return nil, apperrors.Validation("germination rate must be between 0 and 100", "germination_rate")
	}
	if !validation.IsValidPercentage(in.VarietyPurity) {
		return nil, apperrors.Validation("variety purity must be between 0 and 100", "variety_purity")
	}
	if in.MoistureContent != nil && !validation.IsValidPercentage(*in.MoistureContent) {
		return nil, apperrors.Validation("moisture content must be between 0 and 100", "moisture_content")
	}
	if in.Result != constants.QCPass && in.Result != constants.QCFail {
		return nil, apperrors.Validation(fmt.Sprintf("unknown control result %q", in.Result), "result")
	}
	if in.ControlDate.IsZero() {
		in.ControlDate = time.Now()
	}

	var control *domain.QualityControl
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.SeedLot
		if err := tx.Where("id = ?", in.LotID).First(&lot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("lot", in.LotID)
			}
			return err
		}

		control = &domain.QualityControl{
			LotID:           lot.ID,
			ControlDate:     in.ControlDate,
			GerminationRate: in.GerminationRate,
			VarietyPurity:   in.VarietyPurity,
			MoistureContent: in.MoistureContent,
			Result:          in.Result,
			Observations:    in.Observations,
			TestResults:     in.TestResults,
			Inspector:       in.Inspector,
		}
		if err := tx.Create(control).Error; err != nil {
			return err
		}

		newStatus := constants.LotCertified
		if in.Result == constants.QCFail {
			newStatus = constants.LotRejected
		}
		return tx.Model(&lot).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}
	return control, nil
}

func (s *Service) GetControl(ctx context.Context, id uint) (*domain.QualityControl, error) {
	var qc domain.QualityControl
	if err := s.DB.WithContext(ctx).Preload("Lot").Where("id = ?", id).First(&qc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("quality control", id)
		}
		return nil, err
	}
	return &qc, nil
}

func (s *Service) ListControls(ctx context.Context, lotID, result string) ([]domain.QualityControl, error) {
	q := s.DB.WithContext(ctx).Model(&domain.QualityControl{})
	if lotID != "" {
		q = q.Where("lot_id = ?", lotID)
	}
	if result != "" {
		if result != constants.QCPass && result != constants.QCFail {
			return nil, apperrors.Validation(fmt.Sprintf("unknown control result %q", result), "result")
		}
		q = q.Where("result = ?", result)
	}
	var list []domain.QualityControl
	if err := q.Order("control_date DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
