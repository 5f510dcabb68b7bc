package models

import "time"

// Score is the result of one completed session. UserID and ThemeID are plain
// references; PlayerName and ThemeName are filled in by read queries only.
type Score struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ThemeID     int64     `json:"theme_id"`
	Attempts    int       `json:"attempts"`
	TimeSeconds int       `json:"time_seconds"`
	PlayedAt    time.Time `json:"played_at"`
	PlayerName  string    `json:"player_name,omitempty"`
	ThemeName   string    `json:"theme_name,omitempty"`
}

// ScoreOrder is the ordering hint passed to score listings.
type ScoreOrder string

const (
	ScoreOrderDate  ScoreOrder = "date"
	ScoreOrderScore ScoreOrder = "score"
)
