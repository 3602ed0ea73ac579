package lineage

import (
	"testing"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeLot(level string, qty float64) *domain.SeedLot {
	return &domain.SeedLot{
		ID:       "SA-" + level + "-2023-001",
		Level:    level,
		Quantity: qty,
		Status:   constants.LotActive,
	}
}

func TestCanCreateChild_OneStepAdvanceAllowed(t *testing.T) {
	for i, parentLevel := range constants.SeedLevels[:len(constants.SeedLevels)-1] {
		child := constants.SeedLevels[i+1]
		err := CanCreateChild(activeLot(parentLevel, 100), child, 50)
		assert.NoError(t, err, "parent %s child %s", parentLevel, child)
	}
}

func TestCanCreateChild_RejectsAllNonAdjacentPairs(t *testing.T) {
	for pi, parentLevel := range constants.SeedLevels {
		for ti, target := range constants.SeedLevels {
			if ti == pi+1 {
				continue
			}
			err := CanCreateChild(activeLot(parentLevel, 100), target, 50)
			require.Error(t, err, "parent %s target %s should be rejected", parentLevel, target)
			assert.True(t, apperrors.IsKind(err, apperrors.KindLineageViolation),
				"parent %s target %s: got %v", parentLevel, target, err)
		}
	}
}

func TestCanCreateChild_SkipRejected(t *testing.T) {
	err := CanCreateChild(activeLot(constants.LevelGO, 100), constants.LevelG2, 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindLineageViolation))
}

func TestCanCreateChild_InsufficientStock(t *testing.T) {
	err := CanCreateChild(activeLot(constants.LevelGO, 40), constants.LevelG1, 50)
	require.Error(t, err)
	e := apperrors.As(err)
	require.NotNil(t, e)
	assert.Equal(t, apperrors.KindInsufficientStock, e.Kind)
	assert.Equal(t, 40.0, e.Details["available"])
	assert.Equal(t, 50.0, e.Details["requested"])
}

func TestCanCreateChild_ExactQuantityAllowed(t *testing.T) {
	err := CanCreateChild(activeLot(constants.LevelGO, 50), constants.LevelG1, 50)
	assert.NoError(t, err)
}

func TestCanCreateChild_ParentNotActive(t *testing.T) {
	lot := activeLot(constants.LevelGO, 100)
	lot.Status = constants.LotPending
	err := CanCreateChild(lot, constants.LevelG1, 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindLineageViolation))
}

func TestCanCreateChild_UnknownTargetLevel(t *testing.T) {
	err := CanCreateChild(activeLot(constants.LevelGO, 100), "G9", 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCanCreateChild_NilParent(t *testing.T) {
	err := CanCreateChild(nil, constants.LevelG1, 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCanCreateChild_CorruptParentLevel(t *testing.T) {
	lot := activeLot("XX", 100)
	err := CanCreateChild(lot, constants.LevelG1, 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindIntegrity))
}
