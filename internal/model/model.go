// Package model contains domain entities and DTOs used across layers.
// Kept lean and focused on data shapes without behavior.
package model

import "time"

// Team represents a club squad players are affiliated with.
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player represents an athlete belonging to a team.
type Player struct {
	ID           int64     `json:"id"`
	TeamID       int64     `json:"team_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Position     string    `json:"position"` // PG, SG, SF, PF, C
	JerseyNumber int       `json:"jersey_number"`
	HeightCm     int       `json:"height_cm"`
	WeightKg     int       `json:"weight_kg"`
	BirthDate    time.Time `json:"birth_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Game represents one fixture of a club team against an opponent.
type Game struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	Season    string    `json:"season"` // YYYY-YY
	Date      time.Time `json:"date"`
	Opponent  string    `json:"opponent"`
	HomeAway  string    `json:"home_away"` // home, away
	Status    string    `json:"status"`    // scheduled, in_progress, finished
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerStatLine represents per-game stats for a player.
// Exactly one line exists per (player, game), enforced by the store.
type PlayerStatLine struct {
	ID            int64     `json:"id"`
	PlayerID      int64     `json:"player_id"`
	GameID        int64     `json:"game_id"`
	Points        int       `json:"points"`
	Rebounds      int       `json:"rebounds"`
	Assists       int       `json:"assists"`
	Steals        int       `json:"steals"`
	Blocks        int       `json:"blocks"`
	Fouls         int       `json:"fouls"`
	Turnovers     int       `json:"turnovers"`
	MinutesPlayed float64   `json:"minutes_played"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TeamStatLine represents team-level totals for one game. One line per
// (team, game); the team is derived from the game.
type TeamStatLine struct {
	ID             int64     `json:"id"`
	GameID         int64     `json:"game_id"`
	Points         int       `json:"points"`
	OpponentPoints int       `json:"opponent_points"`
	Rebounds       int       `json:"rebounds"`
	Assists        int       `json:"assists"`
	Turnovers      int       `json:"turnovers"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GameFullStats bundles a game with its team line and player lines.
type GameFullStats struct {
	Game        Game             `json:"game"`
	TeamStats   *TeamStatLine    `json:"team_stats,omitempty"`
	PlayerStats []PlayerStatLine `json:"player_stats"`
}

// User is an API account. The password hash never leaves the service boundary.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
