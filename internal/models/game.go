package models

// CardView is a card as shown to a player. Value and Color are only set
// for cards that are matched or currently turned up.
type CardView struct {
	Position int    `json:"position"`
	FaceUp   bool   `json:"face_up"`
	Matched  bool   `json:"matched"`
	Value    string `json:"value,omitempty"`
	Color    string `json:"color,omitempty"`
}

// GameView is a snapshot of an active session.
type GameView struct {
	ID             string     `json:"id"`
	UserID         int64      `json:"user_id,omitempty"`
	ThemeID        int64      `json:"theme_id"`
	ThemeName      string     `json:"theme_name"`
	Rows           int        `json:"rows"`
	Cols           int        `json:"cols"`
	Cards          []CardView `json:"cards"`
	Attempts       int        `json:"attempts"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Finished       bool       `json:"finished"`
	RevealDelayMS  int64      `json:"reveal_delay_ms"`
}

// FlipResult is the outcome of a single flip plus the resulting state.
// Revealed holds the cards turned up by this flip, including both cards of
// a mismatch, which are face down again in Game.
type FlipResult struct {
	Outcome  string     `json:"outcome"`
	Revealed []CardView `json:"revealed,omitempty"`
	Game     GameView   `json:"game"`
}
