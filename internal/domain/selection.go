package domain

// Selection thresholds for the single random draw.
const (
	FavoriteThreshold = 0.3
	CategoryThreshold = 0.7
)

// SelectionBranch names the branch that produced a contextual quote.
type SelectionBranch string

const (
	BranchFavorite  SelectionBranch = "favorite"
	BranchCategory  SelectionBranch = "category"
	BranchGenerated SelectionBranch = "generated"
	BranchFallback  SelectionBranch = "fallback"
)

// CategoryFor returns the collection category matched for a session type.
func CategoryFor(t SessionType) string {
	if t == SessionTypeWork {
		return CategoryProductivity
	}
	return CategoryMotivation
}

// VibeFor returns the generation vibe for a session type.
func VibeFor(t SessionType) string {
	if t == SessionTypeWork {
		return "achieving a goal"
	}
	return "relaxing"
}

// PickFromCollection evaluates the collection branches of the contextual
// selection policy against one draw r in [0,1). pick(n) must return an index
// in [0,n). When ok is false the caller must try generation.
//
// An empty branch falls through to the next one with the same r, so with no
// favorites every r below CategoryThreshold is judged by the category branch.
func PickFromCollection(quotes []Quote, t SessionType, r float64, pick func(n int) int) (Quote, SelectionBranch, bool) {
	if r < FavoriteThreshold {
		var favorites []Quote
		for _, q := range quotes {
			if q.IsFavorite {
				favorites = append(favorites, q)
			}
		}
		if len(favorites) > 0 {
			q := favorites[pick(len(favorites))]
			q.Source = SourceFavorite
			return q, BranchFavorite, true
		}
	}

	if r < CategoryThreshold {
		category := CategoryFor(t)
		var matching []Quote
		for _, q := range quotes {
			if q.Category == category && !q.IsFavorite {
				matching = append(matching, q)
			}
		}
		if len(matching) > 0 {
			return matching[pick(len(matching))], BranchCategory, true
		}
	}

	return Quote{}, BranchGenerated, false
}
