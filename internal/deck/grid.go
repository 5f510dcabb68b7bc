package deck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vytor/memorymatch/internal/errors"
)

const maxGridSide = 10

// Grid is the board layout picked by the player.
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Standard board sizes offered to players.
var (
	Grid4x4 = Grid{Rows: 4, Cols: 4}
	Grid5x5 = Grid{Rows: 5, Cols: 5}
	Grid6x6 = Grid{Rows: 6, Cols: 6}
)

// ParseGrid parses "RxC", e.g. "4x4".
func ParseGrid(s string) (Grid, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return Grid{}, errors.NewValidationError("grid", fmt.Sprintf("expected RxC, got %q", s))
	}
	rows, err1 := strconv.Atoi(parts[0])
	cols, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return Grid{}, errors.NewValidationError("grid", fmt.Sprintf("expected RxC, got %q", s))
	}
	g := Grid{Rows: rows, Cols: cols}
	if g.PairCount() <= 0 || rows > maxGridSide || cols > maxGridSide {
		return Grid{}, errors.NewValidationError("grid", fmt.Sprintf("unsupported size %q", s))
	}
	return g, nil
}

// PairCount is the number of pairs that fit the grid. Odd grids leave one
// cell empty.
func (g Grid) PairCount() int {
	if g.Rows <= 0 || g.Cols <= 0 {
		return 0
	}
	return g.Rows * g.Cols / 2
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}
