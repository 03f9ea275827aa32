package canvas

import (
	"strings"

	"github.com/gogpu/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"

	"github.com/xxxserxxx/speedo/panel"
)

// Parse converts a `#hex` color or a CSS/SVG color name.  Unknown names are
// drawn black.
func Parse(c panel.Color) gg.RGBA {
	s := strings.TrimSpace(string(c))
	if strings.HasPrefix(s, "#") {
		return gg.Hex(s)
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		return gg.FromColor(rgba)
	}
	log.WithField("color", s).Warn("unknown color")
	return gg.RGB(0, 0, 0)
}

// Valid reports whether c names a color Parse understands.
func Valid(c panel.Color) bool {
	s := strings.TrimSpace(string(c))
	if strings.HasPrefix(s, "#") {
		switch len(s) - 1 {
		case 3, 4, 6, 8:
		default:
			return false
		}
		return strings.Trim(strings.ToLower(s[1:]), "0123456789abcdef") == ""
	}
	_, ok := colornames.Map[strings.ToLower(s)]
	return ok
}
