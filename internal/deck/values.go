package deck

import (
	"strconv"
	"strings"

	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/logger"
)

// Category selects the catalog a deck's symbolic values are drawn from.
type Category int

const (
	Numeric Category = iota
	Palette
	ImageKeyed
)

func (c Category) String() string {
	switch c {
	case Numeric:
		return "numeric"
	case Palette:
		return "palette"
	case ImageKeyed:
		return "image"
	default:
		return "unknown"
	}
}

type color struct {
	name string
	hex  string
}

var palette = []color{
	{"red", "#FF6B6B"},
	{"green", "#51CF66"},
	{"blue", "#4ECDC4"},
	{"yellow", "#FFE66D"},
	{"orange", "#FFA500"},
	{"purple", "#800080"},
	{"pink", "#FFC0CB"},
	{"cyan", "#00FFFF"},
	{"lime", "#00FF00"},
	{"magenta", "#FF00FF"},
	{"brown", "#A52A2A"},
	{"gray", "#808080"},
	{"maroon", "#800000"},
	{"navy", "#000080"},
	{"teal", "#008080"},
	{"violet", "#EE82EE"},
}

// Names match the image assets served for the animal themes.
var animals = []string{
	"bear", "cat", "cow", "deer", "dog",
	"elephant", "fox", "giraffe", "goat",
	"hamster", "lion", "penguin", "pig",
	"rabbit", "sheep", "tiger", "wolf",
}

// Catalog returns the fixed token list for c. Numeric has no catalog.
func Catalog(c Category) []string {
	switch c {
	case Palette:
		out := make([]string, len(palette))
		for i, p := range palette {
			out[i] = p.name
		}
		return out
	case ImageKeyed:
		return append([]string(nil), animals...)
	default:
		return nil
	}
}

// ColorHex returns the display color for a palette value.
func ColorHex(name string) (string, bool) {
	for _, p := range palette {
		if p.name == name {
			return p.hex, true
		}
	}
	return "", false
}

// CategoryForTheme maps a theme name onto its value category.
func CategoryForTheme(name string) Category {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "colors":
		return Palette
	case "animals", "images":
		return ImageKeyed
	default:
		return Numeric
	}
}

// Exhausts reports whether pairCount is larger than c's catalog, meaning
// Values will repeat tokens.
func Exhausts(c Category, pairCount int) bool {
	if c == Numeric {
		return false
	}
	return pairCount > len(Catalog(c))
}

// Values returns pairCount symbolic values for category c in a fixed order.
// Palette and image catalogs are cycled when pairCount exceeds their size.
func Values(c Category, pairCount int) ([]string, error) {
	if pairCount <= 0 {
		return nil, errors.NewValidationError("pair_count", "must be positive")
	}

	if c == Numeric {
		out := make([]string, pairCount)
		for i := range out {
			out[i] = strconv.Itoa(i + 1)
		}
		return out, nil
	}

	catalog := Catalog(c)
	if len(catalog) == 0 {
		return nil, errors.NewValidationError("category", "unknown category "+c.String())
	}
	if pairCount > len(catalog) {
		logger.Default().WithPrefix("deck").Warn("%s catalog has %d values, %d pairs requested; values will repeat",
			c, len(catalog), pairCount)
	}

	out := make([]string, pairCount)
	for i := range out {
		out[i] = catalog[i%len(catalog)]
	}
	return out, nil
}
