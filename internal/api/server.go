package api

import (
	"context"

	"github.com/vytor/memorymatch/internal/deck"
	"github.com/vytor/memorymatch/internal/services"
)

// Pinger is satisfied by *sql.DB and *db.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	DB           Pinger
	GameService  services.GameService
	ScoreService services.ScoreService
	ThemeService services.ThemeService
	UserService  services.UserService
	DefaultGrid  deck.Grid
	LoginLimiter *LoginLimiter // nil disables login throttling
}
