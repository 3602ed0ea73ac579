package multipliers

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

func setupMultipliersTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.SeedVariety{}, &domain.SeedLot{}, &domain.Multiplier{},
		&domain.DistributedLot{}, &domain.Production{},
	))
	return &Service{DB: db}, db
}

func TestCreateMultiplier_DefaultsCertification(t *testing.T) {
	svc, _ := setupMultipliersTest(t)
	m, err := svc.CreateMultiplier(context.Background(), CreateMultiplierInput{
		Name: "GIE Ndiaye", Email: "gie.ndiaye@example.sn",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.MultiplierActive, m.Status)
	assert.Equal(t, constants.CertBeginner, m.CertificationLevel)
}

func TestCreateMultiplier_RejectsBadEmail(t *testing.T) {
	svc, _ := setupMultipliersTest(t)
	_, err := svc.CreateMultiplier(context.Background(), CreateMultiplierInput{
		Name: "GIE Ndiaye", Email: "not-an-email",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestDeleteMultiplier_DeactivatesWithHistory(t *testing.T) {
	svc, db := setupMultipliersTest(t)
	m, err := svc.CreateMultiplier(context.Background(), CreateMultiplierInput{Name: "GIE Ndiaye"})
	require.NoError(t, err)

	v := domain.SeedVariety{Code: "SAHEL108", Name: "Sahel 108", CropType: "RICE", IsActive: true}
	require.NoError(t, db.Create(&v).Error)
	lot := domain.SeedLot{
		ID: "SA-G2-2024-001", VarietyID: v.ID, Level: constants.LevelG2,
		Quantity: 100, ProductionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status: constants.LotActive, IsActive: true,
	}
	require.NoError(t, db.Create(&lot).Error)
	require.NoError(t, db.Create(&domain.DistributedLot{
		LotID: lot.ID, MultiplierID: m.ID, Quantity: 10, DistributionDate: time.Now(),
	}).Error)

	deactivated, err := svc.DeleteMultiplier(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, deactivated)

	got, err := svc.GetMultiplier(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.MultiplierInactive, got.Status)

	lots, err := svc.ListDistributedLots(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Len(t, lots, 1)
}

func TestDeleteMultiplier_RemovesWithoutHistory(t *testing.T) {
	svc, _ := setupMultipliersTest(t)
	m, err := svc.CreateMultiplier(context.Background(), CreateMultiplierInput{Name: "GIE Ndiaye"})
	require.NoError(t, err)

	deactivated, err := svc.DeleteMultiplier(context.Background(), m.ID)
	require.NoError(t, err)
	assert.False(t, deactivated)

	_, err = svc.GetMultiplier(context.Background(), m.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
