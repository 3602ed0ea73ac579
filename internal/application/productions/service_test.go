package productions

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

type prodFixture struct {
	svc    *Service
	db     *gorm.DB
	lot    domain.SeedLot
	parcel domain.Parcel
	mult   domain.Multiplier
}

func setupProdTest(t *testing.T) prodFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.SeedVariety{}, &domain.SeedLot{}, &domain.Multiplier{},
		&domain.Parcel{}, &domain.Production{},
	))

	v := domain.SeedVariety{Code: "SAHEL108", Name: "Sahel 108", CropType: "RICE", IsActive: true}
	require.NoError(t, db.Create(&v).Error)
	lot := domain.SeedLot{
		ID: "SA-G1-2024-001", VarietyID: v.ID, Level: constants.LevelG1,
		Quantity: 20, ProductionDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status: constants.LotActive, IsActive: true,
	}
	require.NoError(t, db.Create(&lot).Error)
	parcel := domain.Parcel{Name: "Fanaye Nord", Area: 2.5, Status: constants.ParcelAvailable}
	require.NoError(t, db.Create(&parcel).Error)
	m := domain.Multiplier{Name: "GIE Ndiaye", Status: constants.MultiplierActive}
	require.NoError(t, db.Create(&m).Error)

	return prodFixture{svc: &Service{DB: db}, db: db, lot: lot, parcel: parcel, mult: m}
}

func (f prodFixture) plan(t *testing.T) *domain.Production {
	p, err := f.svc.CreateProduction(context.Background(), CreateProductionInput{
		LotID: f.lot.ID, ParcelID: f.parcel.ID, MultiplierID: f.mult.ID,
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), PlannedQuantity: 500,
	})
	require.NoError(t, err)
	return p
}

func TestCreateProduction_OccupiesParcel(t *testing.T) {
	f := setupProdTest(t)
	p := f.plan(t)
	assert.Equal(t, constants.ProductionPlanned, p.Status)

	var parcel domain.Parcel
	require.NoError(t, f.db.First(&parcel, f.parcel.ID).Error)
	assert.Equal(t, constants.ParcelInUse, parcel.Status)
}

func TestCreateProduction_BusyParcelRejected(t *testing.T) {
	f := setupProdTest(t)
	f.plan(t)

	_, err := f.svc.CreateProduction(context.Background(), CreateProductionInput{
		LotID: f.lot.ID, ParcelID: f.parcel.ID, MultiplierID: f.mult.ID,
		StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// The failed attempt did not create a production or touch the parcel.
	var n int64
	require.NoError(t, f.db.Model(&domain.Production{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	var parcel domain.Parcel
	require.NoError(t, f.db.First(&parcel, f.parcel.ID).Error)
	assert.Equal(t, constants.ParcelInUse, parcel.Status)
}

func TestHarvest_AddsYieldAndRestsParcel(t *testing.T) {
	f := setupProdTest(t)
	p := f.plan(t)

	harvestDate := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	done, err := f.svc.Harvest(context.Background(), p.ID, harvestDate, 480)
	require.NoError(t, err)
	assert.Equal(t, constants.ProductionCompleted, done.Status)
	require.NotNil(t, done.ActualYield)
	assert.Equal(t, 480.0, *done.ActualYield)
	require.NotNil(t, done.HarvestDate)

	var lot domain.SeedLot
	require.NoError(t, f.db.Where("id = ?", f.lot.ID).First(&lot).Error)
	assert.Equal(t, 500.0, lot.Quantity)

	var parcel domain.Parcel
	require.NoError(t, f.db.First(&parcel, f.parcel.ID).Error)
	assert.Equal(t, constants.ParcelResting, parcel.Status)
}

func TestHarvest_SecondHarvestIsConflict(t *testing.T) {
	f := setupProdTest(t)
	p := f.plan(t)

	_, err := f.svc.Harvest(context.Background(), p.ID, time.Time{}, 480)
	require.NoError(t, err)

	_, err = f.svc.Harvest(context.Background(), p.ID, time.Time{}, 480)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// The lot was only credited once.
	var lot domain.SeedLot
	require.NoError(t, f.db.Where("id = ?", f.lot.ID).First(&lot).Error)
	assert.Equal(t, 500.0, lot.Quantity)
}

func TestHarvest_RejectsNonPositiveYield(t *testing.T) {
	f := setupProdTest(t)
	p := f.plan(t)
	_, err := f.svc.Harvest(context.Background(), p.ID, time.Time{}, 0)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUpdateProduction_CompletedIsImmutable(t *testing.T) {
	f := setupProdTest(t)
	p := f.plan(t)
	_, err := f.svc.Harvest(context.Background(), p.ID, time.Time{}, 480)
	require.NoError(t, err)

	notes := "late note"
	_, err = f.svc.UpdateProduction(context.Background(), p.ID, UpdateProductionInput{Notes: &notes})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestUpdateProduction_CompletionViaUpdateRejected(t *testing.T) {
	f := setupProdTest(t)
	p := f.plan(t)
	completed := constants.ProductionCompleted
	_, err := f.svc.UpdateProduction(context.Background(), p.ID, UpdateProductionInput{Status: &completed})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
