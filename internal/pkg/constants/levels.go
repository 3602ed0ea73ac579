package constants

// Seed generation levels, ordered from foundational to commercial.
// Each level is produced by one multiplication cycle from the previous one.
const (
	LevelGO = "GO"
	LevelG1 = "G1"
	LevelG2 = "G2"
	LevelG3 = "G3"
	LevelR1 = "R1"
	LevelR2 = "R2"
)

// SeedLevels lists all levels in generation order (index = generation rank).
var SeedLevels = []string{LevelGO, LevelG1, LevelG2, LevelG3, LevelR1, LevelR2}

// LevelIndex returns the generation rank of a level (GO=0 ... R2=5) and
// whether the token is a known level.
func LevelIndex(level string) (int, bool) {
	for i, l := range SeedLevels {
		if l == level {
			return i, true
		}
	}
	return -1, false
}

// IsValidLevel reports whether the token is a defined generation level.
func IsValidLevel(level string) bool {
	_, ok := LevelIndex(level)
	return ok
}

// MaxGenealogyDepth bounds ancestor walks; a valid chain can never be longer
// than the number of defined levels.
const MaxGenealogyDepth = 6
