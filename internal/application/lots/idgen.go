package lots

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"

	"gorm.io/gorm"
)

// lotPrefix derives the two-letter ID prefix from the variety code (or name
// when the code starts with something other than letters).
func lotPrefix(v domain.SeedVariety) string {
	for _, src := range []string{v.Code, v.Name} {
		letters := make([]rune, 0, 2)
		for _, r := range src {
			if unicode.IsLetter(r) {
				letters = append(letters, unicode.ToUpper(r))
				if len(letters) == 2 {
					return string(letters)
				}
			}
		}
	}
	return "XX"
}

// generateLotID produces the next <PREFIX>-<LEVEL>-<YEAR>-<SEQ> identifier.
// The sequence comes from a counter row keyed by (prefix, level, year),
// incremented atomically inside the caller's transaction; the lot table's
// primary key is the backstop against duplicates.
func generateLotID(tx *gorm.DB, variety domain.SeedVariety, level string, year int) (string, error) {
	prefix := lotPrefix(variety)

	seq := domain.LotSequence{Prefix: prefix, Level: level, Year: year}
	if err := tx.Where(domain.LotSequence{Prefix: prefix, Level: level, Year: year}).
		FirstOrCreate(&seq).Error; err != nil {
		// Concurrent creation of the counter row: retry the lookup once.
		if !strings.Contains(strings.ToLower(err.Error()), "unique") && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", err
		}
		if err := tx.Where("prefix = ? AND level = ? AND year = ?", prefix, level, year).
			First(&seq).Error; err != nil {
			return "", err
		}
	}

	if err := tx.Model(&domain.LotSequence{}).
		Where("prefix = ? AND level = ? AND year = ?", prefix, level, year).
		Update("next", gorm.Expr("next + 1")).Error; err != nil {
		return "", err
	}
	var updated domain.LotSequence
	if err := tx.Where("prefix = ? AND level = ? AND year = ?", prefix, level, year).
		First(&updated).Error; err != nil {
		return "", err
	}

	if updated.Next > 999 {
		return "", apperrors.Conflict(
			fmt.Sprintf("lot sequence exhausted for %s-%s-%d", prefix, level, year),
			map[string]interface{}{"prefix": prefix, "level": level, "year": year},
		)
	}

	return fmt.Sprintf("%s-%s-%d-%03d", prefix, level, year, updated.Next), nil
}
