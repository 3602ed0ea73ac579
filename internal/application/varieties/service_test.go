package varieties

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

func setupVarietiesTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SeedVariety{}, &domain.SeedLot{}))
	return &Service{DB: db}, db
}

func TestCreateVariety_NormalizesCode(t *testing.T) {
	svc, _ := setupVarietiesTest(t)
	v, err := svc.CreateVariety(context.Background(), CreateVarietyInput{
		Code: "sahel108", Name: "Sahel 108", CropType: "RICE",
	})
	require.NoError(t, err)
	assert.Equal(t, "SAHEL108", v.Code)
	assert.True(t, v.IsActive)
}

func TestCreateVariety_DuplicateCodeIsConflict(t *testing.T) {
	svc, _ := setupVarietiesTest(t)
	_, err := svc.CreateVariety(context.Background(), CreateVarietyInput{
		Code: "SAHEL108", Name: "Sahel 108", CropType: "RICE",
	})
	require.NoError(t, err)

	_, err = svc.CreateVariety(context.Background(), CreateVarietyInput{
		Code: "SAHEL108", Name: "Duplicate", CropType: "RICE",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreateVariety_RejectsUnknownCropType(t *testing.T) {
	svc, _ := setupVarietiesTest(t)
	_, err := svc.CreateVariety(context.Background(), CreateVarietyInput{
		Code: "SAHEL108", Name: "Sahel 108", CropType: "BANANA",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestGetVariety_ByIDOrCode(t *testing.T) {
	svc, _ := setupVarietiesTest(t)
	created, err := svc.CreateVariety(context.Background(), CreateVarietyInput{
		Code: "SAHEL108", Name: "Sahel 108", CropType: "RICE",
	})
	require.NoError(t, err)

	byCode, err := svc.GetVariety(context.Background(), "sahel108")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)

	byID, err := svc.GetVariety(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, created.Code, byID.Code)

	_, err = svc.GetVariety(context.Background(), "NOPE99")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDeleteVariety_BlockedByLots(t *testing.T) {
	svc, db := setupVarietiesTest(t)
	v, err := svc.CreateVariety(context.Background(), CreateVarietyInput{
		Code: "SAHEL108", Name: "Sahel 108", CropType: "RICE",
	})
	require.NoError(t, err)

	lot := domain.SeedLot{
		ID: "SA-GO-2023-001", VarietyID: v.ID, Level: constants.LevelGO,
		Quantity: 100, ProductionDate: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		Status: constants.LotPending, IsActive: true,
	}
	require.NoError(t, db.Create(&lot).Error)

	err = svc.DeleteVariety(context.Background(), "SAHEL108")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	require.NoError(t, db.Unscoped().Delete(&lot).Error)
	require.NoError(t, svc.DeleteVariety(context.Background(), "SAHEL108"))
}

func TestListVarieties_FiltersInactive(t *testing.T) {
	svc, db := setupVarietiesTest(t)
	for _, code := range []string{"SAHEL108", "SAHEL202"} {
		_, err := svc.CreateVariety(context.Background(), CreateVarietyInput{
			Code: code, Name: code, CropType: "RICE",
		})
		require.NoError(t, err)
	}
	require.NoError(t, db.Model(&domain.SeedVariety{}).Where("code = ?", "SAHEL202").
		Update("is_active", false).Error)

	active, err := svc.ListVarieties(context.Background(), "", false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListVarieties(context.Background(), "RICE", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
