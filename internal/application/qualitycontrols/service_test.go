package qualitycontrols

import (
	"context"
	"testing"
	"time"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupQCTest(t *testing.T) (*Service, *gorm.DB, domain.SeedLot) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SeedVariety{}, &domain.SeedLot{}, &domain.QualityControl{}))

	v := domain.SeedVariety{Code: "SAHEL108", Name: "Sahel 108", CropType: "RICE", IsActive: true}
	require.NoError(t, db.Create(&v).Error)
	lot := domain.SeedLot{
		ID: "SA-G1-2024-001", VarietyID: v.ID, Level: constants.LevelG1,
		Quantity: 100, ProductionDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status: constants.LotPending, IsActive: true,
	}
	require.NoError(t, db.Create(&lot).Error)
	return &Service{DB: db}, db, lot
}

func TestCreateControl_PassCertifiesLot(t *testing.T) {
	svc, db, lot := setupQCTest(t)

	qc, err := svc.CreateControl(context.Background(), CreateControlInput{
		LotID: lot.ID, GerminationRate: 92, VarietyPurity: 99,
		Result: constants.QCPass, Inspector: "A. Sow",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.QCPass, qc.Result)

	var got domain.SeedLot
	require.NoError(t, db.Where("id = ?", lot.ID).First(&got).Error)
	assert.Equal(t, constants.LotCertified, got.Status)
}

func TestCreateControl_FailRejectsLot(t *testing.T) {
	svc, db, lot := setupQCTest(t)

	_, err := svc.CreateControl(context.Background(), CreateControlInput{
		LotID: lot.ID, GerminationRate: 40, VarietyPurity: 80,
		Result: constants.QCFail,
	})
	require.NoError(t, err)

	var got domain.SeedLot
	require.NoError(t, db.Where("id = ?", lot.ID).First(&got).Error)
	assert.Equal(t, constants.LotRejected, got.Status)
}

func TestCreateControl_ValidatesPercentages(t *testing.T) {
	svc, _, lot := setupQCTest(t)

	_, err := svc.CreateControl(context.Background(), CreateControlInput{
		LotID: lot.ID, GerminationRate: 120, VarietyPurity: 99, Result: constants.QCPass,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.CreateControl(context.Background(), CreateControlInput{
		LotID: lot.ID, GerminationRate: 92, VarietyPurity: 99, Result: "MAYBE",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateControl_UnknownLot(t *testing.T) {
	svc, _, _ := setupQCTest(t)
	_, err := svc.CreateControl(context.Background(), CreateControlInput{
		LotID: "SA-G1-2024-999", GerminationRate: 92, VarietyPurity: 99, Result: constants.QCPass,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListControls_FiltersByResult(t *testing.T) {
	svc, _, lot := setupQCTest(t)

	for _, r := range []string{constants.QCPass, constants.QCFail, constants.QCPass} {
		_, err := svc.CreateControl(context.Background(), CreateControlInput{
			LotID: lot.ID, GerminationRate: 90, VarietyPurity: 98, Result: r,
		})
		require.NoError(t, err)
	}

	passed, err := svc.ListControls(context.Background(), lot.ID, constants.QCPass)
	require.NoError(t, err)
	assert.Len(t, passed, 2)

	_, err = svc.ListControls(context.Background(), "", "MAYBE")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
