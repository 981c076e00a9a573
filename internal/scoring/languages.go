package scoring

import (
	"math"
	"math/bits"
	"strings"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// dominantSharePercent is the minimum share of total bytes for a language to
// count as dominant.
const dominantSharePercent = 10

// wellKnownLanguages is the allow-list of mainstream languages, lowercased.
var wellKnownLanguages = map[string]bool{
	"python":     true,
	"javascript": true,
	"typescript": true,
	"java":       true,
	"go":         true,
	"rust":       true,
	"c++":        true,
}

// Languages scores the language mix by byte share.
//
// Scoring breakdown:
//   - No data:             30 points flat
//   - Base:                30 points
//   - 2+ dominant:         20 points
//   - 3+ dominant:         10 more points
//   - Well-known dominant: 20 points
func Languages(s *snapshot.Snapshot) int {
	var total uint64
	for _, b := range s.Languages {
		if b > 0 {
			var carry uint64
			if total, carry = bits.Add64(total, uint64(b), 0); carry != 0 {
				total = math.MaxUint64
			}
		}
	}
	if total == 0 {
		return 30
	}

	score := 30
	dominant := 0
	wellKnown := false
	for name, b := range s.Languages {
		if b <= 0 || !atLeastPercent(uint64(b), total, dominantSharePercent) {
			continue
		}
		dominant++
		if wellKnownLanguages[strings.ToLower(strings.TrimSpace(name))] {
			wellKnown = true
		}
	}

	if dominant >= 2 {
		score += 20
	}
	if dominant >= 3 {
		score += 10
	}
	if wellKnown {
		score += 20
	}

	return clamp(score)
}

// atLeastPercent reports whether part is at least pct percent of total. The
// products are compared at 128 bits so large byte counts cannot overflow.
func atLeastPercent(part, total, pct uint64) bool {
	lh, ll := bits.Mul64(part, 100)
	rh, rl := bits.Mul64(total, pct)
	return lh > rh || (lh == rh && ll >= rl)
}
