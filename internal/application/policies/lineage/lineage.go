package lineage

import (
	"fmt"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"
)

// CanCreateChild validates whether a child lot at targetLevel with the
// requested quantity may be derived from parent. It is a pure precondition
// check: the caller decides what to persist.
//
// Rules, in order:
//   - parent must be ACTIVE
//   - requested quantity must not exceed the parent's current quantity
//   - the child level must be exactly one generation above the parent's
//     (GO -> G1 -> G2 -> G3 -> R1 -> R2, no regression, no skipping)
func CanCreateChild(parent *domain.SeedLot, targetLevel string, requestedQuantity float64) error {
	if parent == nil {
		return apperrors.Validation("parent lot is required", "parent_lot_id")
	}

	targetIdx, ok := constants.LevelIndex(targetLevel)
	if !ok {
		return apperrors.Validation(fmt.Sprintf("unknown generation level %q", targetLevel), "level")
	}
	parentIdx, ok := constants.LevelIndex(parent.Level)
	if !ok {
		return apperrors.Integrity(fmt.Sprintf("lot %s has unknown generation level %q", parent.ID, parent.Level), parent.ID)
	}

	if parent.Status != constants.LotActive {
		return apperrors.LineageViolation(
			fmt.Sprintf("parent lot %s is not active (status %s)", parent.ID, parent.Status),
			parent.Level, targetLevel,
		)
	}

	if requestedQuantity > parent.Quantity {
		return apperrors.InsufficientStock(parent.ID, parent.Quantity, requestedQuantity)
	}

	if targetIdx <= parentIdx {
		return apperrors.LineageViolation(
			fmt.Sprintf("level %s does not advance on parent level %s", targetLevel, parent.Level),
			parent.Level, targetLevel,
		)
	}
	if targetIdx > parentIdx+1 {
		return apperrors.LineageViolation(
			fmt.Sprintf("level %s skips generations: parent %s may only produce %s", targetLevel, parent.Level, constants.SeedLevels[parentIdx+1]),
			parent.Level, targetLevel,
		)
	}

	return nil
}
