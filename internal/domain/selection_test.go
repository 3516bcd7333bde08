package domain

import "testing"

func first(int) int { return 0 }

func TestPickFromCollection(t *testing.T) {
	favorite := Quote{ID: 2, Text: "Focus is a superpower.", Author: "Mark Manson", IsFavorite: true, Category: CategoryProductivity, Source: SourceCurated}
	productivity := Quote{ID: 10, Text: "p", Author: "a", Category: CategoryProductivity, Source: SourceUser}
	motivation := Quote{ID: 11, Text: "m", Author: "a", Category: CategoryMotivation, Source: SourceUser}

	tests := []struct {
		name        string
		quotes      []Quote
		sessionType SessionType
		r           float64
		wantID      int64
		wantBranch  SelectionBranch
		wantOK      bool
	}{
		{"favorite branch", []Quote{favorite, productivity}, SessionTypeWork, 0.1, 2, BranchFavorite, true},
		{"category branch for work", []Quote{favorite, productivity, motivation}, SessionTypeWork, 0.5, 10, BranchCategory, true},
		{"category branch for break", []Quote{favorite, productivity, motivation}, SessionTypeShortBreak, 0.5, 11, BranchCategory, true},
		{"favorites skipped by category", []Quote{favorite}, SessionTypeWork, 0.5, 0, BranchGenerated, false},
		{"no favorites falls to category", []Quote{productivity}, SessionTypeWork, 0.1, 10, BranchCategory, true},
		{"high draw generates", []Quote{favorite, productivity}, SessionTypeWork, 0.7, 0, BranchGenerated, false},
		{"empty collection generates", nil, SessionTypeWork, 0.0, 0, BranchGenerated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, branch, ok := PickFromCollection(tt.quotes, tt.sessionType, tt.r, first)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if branch != tt.wantBranch {
				t.Errorf("branch = %v, want %v", branch, tt.wantBranch)
			}
			if ok && q.ID != tt.wantID {
				t.Errorf("quote id = %d, want %d", q.ID, tt.wantID)
			}
		})
	}
}

func TestPickFromCollection_FavoriteTaggedSource(t *testing.T) {
	quotes := SeedQuotes()

	q, branch, ok := PickFromCollection(quotes, SessionTypeWork, 0.1, first)

	if !ok || branch != BranchFavorite {
		t.Fatalf("got branch %v ok %v, want favorite", branch, ok)
	}
	if q.ID != 2 || q.Source != SourceFavorite {
		t.Errorf("quote = %+v, want id 2 tagged favorite", q)
	}
	if quotes[1].Source != SourceCurated {
		t.Errorf("collection entry source mutated to %v", quotes[1].Source)
	}
}

func TestPickFromCollection_FallthroughReachesGeneration(t *testing.T) {
	quotes := []Quote{{ID: 5, Text: "t", Author: "a", Category: "other"}}

	for r := 0.0; r < CategoryThreshold; r += 0.05 {
		if _, branch, ok := PickFromCollection(quotes, SessionTypeWork, r, first); ok || branch != BranchGenerated {
			t.Errorf("r=%.2f: branch %v ok %v, want generation", r, branch, ok)
		}
	}
}

func TestPickFromCollection_UsesPickIndex(t *testing.T) {
	quotes := []Quote{
		{ID: 1, IsFavorite: true},
		{ID: 2, IsFavorite: true},
		{ID: 3, IsFavorite: true},
	}
	var gotN int
	pick := func(n int) int { gotN = n; return n - 1 }

	q, _, _ := PickFromCollection(quotes, SessionTypeWork, 0.2, pick)

	if gotN != 3 {
		t.Errorf("pick called with n = %d, want 3", gotN)
	}
	if q.ID != 3 {
		t.Errorf("quote id = %d, want 3", q.ID)
	}
}

func TestVibeFor(t *testing.T) {
	if got := VibeFor(SessionTypeWork); got != "achieving a goal" {
		t.Errorf("VibeFor(work) = %q", got)
	}
	if got := VibeFor(SessionTypeLongBreak); got != "relaxing" {
		t.Errorf("VibeFor(longBreak) = %q", got)
	}
}
