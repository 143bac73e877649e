package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/repository"
)

func normalizePage(p repository.Page) repository.Page {
	limit := p.Limit
	offset := p.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

func isValidSeason(s string) bool { return query.IsValidSeason(s) }

func isValidGameStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "scheduled", "in_progress", "finished":
		return true
	default:
		return false
	}
}

func isValidHomeAway(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home", "away":
		return true
	default:
		return false
	}
}

// seasonContains reports whether a game date falls inside the season's two
// calendar years, e.g. "2023-24" covers 2023-07-01 through 2024-06-30.
func seasonContains(season string, date time.Time) bool {
	if !isValidSeason(season) {
		return false
	}
	startYear, err := strconv.Atoi(season[:4])
	if err != nil {
		return false
	}
	from := time.Date(startYear, time.July, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(startYear+1, time.July, 1, 0, 0, 0, 0, time.UTC)
	return !date.Before(from) && date.Before(to)
}
