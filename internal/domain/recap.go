package domain

// RecapStats summarizes a day's focus work for the recap image.
type RecapStats struct {
	TotalFocusMin int
	TotalSessions int
	FavQuote      *Quote
}

// RecapAvailable returns true after every LongBreakInterval-th completed work session.
func RecapAvailable(completedWorkSessions int) bool {
	return completedWorkSessions > 0 && completedWorkSessions%LongBreakInterval == 0
}

// NewRecapStats computes the recap figures from the completed session count
// and the work duration in seconds.
func NewRecapStats(completedWorkSessions, workDurationSec int, fav *Quote) RecapStats {
	return RecapStats{
		TotalFocusMin: completedWorkSessions * workDurationSec / 60,
		TotalSessions: completedWorkSessions,
		FavQuote:      fav,
	}
}

// FavoriteOrFirst returns the first favorite quote, else the first quote,
// else nil.
func FavoriteOrFirst(quotes []Quote) *Quote {
	for i := range quotes {
		if quotes[i].IsFavorite {
			q := quotes[i]
			return &q
		}
	}
	if len(quotes) > 0 {
		q := quotes[0]
		return &q
	}
	return nil
}
