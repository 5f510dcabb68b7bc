// Package leaderboard turns persisted scores into ranked views.
package leaderboard

import (
	"sort"
	"strings"

	"github.com/vytor/memorymatch/internal/models"
)

// SortKey selects the ordering of a computed view.
type SortKey string

const (
	RecentFirst SortKey = "recent"
	OldestFirst SortKey = "oldest"
	BestResult  SortKey = "best"
	FastestTime SortKey = "fastest"
)

// DisplayMode tells the presentation layer what a view contains.
type DisplayMode string

const (
	PerUserBest        DisplayMode = "per-user-best"
	AllForSelectedUser DisplayMode = "all-for-selected-user"
)

// Filter values meaning "no restriction".
const (
	AllPlayers int64 = 0
	AllThemes  int64 = 0
)

// View is a ranked, display-ready list of scores.
type View struct {
	Scores []models.Score `json:"scores"`
	Mode   DisplayMode    `json:"mode"`
}

// ParseSortKey maps a query value to a SortKey, defaulting to RecentFirst.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case OldestFirst:
		return OldestFirst
	case BestResult:
		return BestResult
	case FastestTime:
		return FastestTime
	default:
		return RecentFirst
	}
}

// Better reports whether a ranks strictly ahead of b: fewer attempts, then
// less time.
func Better(a, b models.Score) bool {
	if a.Attempts != b.Attempts {
		return a.Attempts < b.Attempts
	}
	return a.TimeSeconds < b.TimeSeconds
}

// Compute filters, reduces and sorts scores. With playerID == AllPlayers
// it keeps each player's best score; otherwise it keeps every score of
// that player. The input slice is not modified.
func Compute(scores []models.Score, key SortKey, playerID, themeID int64) View {
	filtered := make([]models.Score, 0, len(scores))
	for _, s := range scores {
		if themeID != AllThemes && s.ThemeID != themeID {
			continue
		}
		if playerID != AllPlayers && s.UserID != playerID {
			continue
		}
		filtered = append(filtered, s)
	}

	view := View{Mode: AllForSelectedUser}
	if playerID == AllPlayers {
		view.Mode = PerUserBest
		filtered = BestPerPlayer(filtered)
	}

	sortScores(filtered, key)
	view.Scores = filtered
	return view
}

// BestPerPlayer keeps one score per user, the best by Better. Players
// appear in the order of their first score; on a full tie the earlier
// score wins.
func BestPerPlayer(scores []models.Score) []models.Score {
	idx := make(map[int64]int, len(scores))
	out := make([]models.Score, 0, len(scores))
	for _, s := range scores {
		i, seen := idx[s.UserID]
		if !seen {
			idx[s.UserID] = len(out)
			out = append(out, s)
			continue
		}
		if Better(s, out[i]) {
			out[i] = s
		}
	}
	return out
}

func sortScores(scores []models.Score, key SortKey) {
	var less func(a, b models.Score) bool
	switch key {
	case OldestFirst:
		less = func(a, b models.Score) bool { return a.PlayedAt.Before(b.PlayedAt) }
	case BestResult:
		less = Better
	case FastestTime:
		less = func(a, b models.Score) bool { return a.TimeSeconds < b.TimeSeconds }
	default:
		less = func(a, b models.Score) bool { return a.PlayedAt.After(b.PlayedAt) }
	}
	sort.SliceStable(scores, func(i, j int) bool { return less(scores[i], scores[j]) })
}
