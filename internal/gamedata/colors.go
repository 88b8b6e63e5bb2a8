package gamedata

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// DefaultColor is used for catalog entries without a colour.
const DefaultColor = tcell.ColorWhite

// ParseColor reads a catalog colour: "#RRGGBB", "RRGGBB" or a W3C colour
// name such as "crimson". An empty string gives DefaultColor.
func ParseColor(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultColor, nil
	}
	if len(s) == 6 && !strings.HasPrefix(s, "#") {
		if _, ok := tcell.ColorNames[s]; !ok {
			s = "#" + s
		}
	}
	if strings.HasPrefix(s, "#") && len(s) != 7 {
		return tcell.ColorDefault, fmt.Errorf("invalid colour %q: want #RRGGBB", s)
	}

	color := tcell.GetColor(s)
	if color == tcell.ColorDefault {
		return tcell.ColorDefault, fmt.Errorf("invalid colour %q", s)
	}
	return color, nil
}

// colorOrDefault is ParseColor for display, where a bad value is not fatal.
func colorOrDefault(s string) tcell.Color {
	color, err := ParseColor(s)
	if err != nil {
		return DefaultColor
	}
	return color
}
