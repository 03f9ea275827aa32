package assets

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"

	"github.com/xxxserxxx/speedo"
	"github.com/xxxserxxx/speedo/panel"
)

// Default returns the sprites for conf: configured artwork where a path is
// set, generated images otherwise.  max is the panel maximum the generated
// dial is marked for.
func Default(conf *speedo.Config, max float64) panel.Sprites {
	dial := func() *Sprite {
		return Static("dial", DialBackground(conf.Width, conf.Height, max))
	}
	return panel.Sprites{
		Dial:   pick(conf, conf.DialImage, dial),
		Digits: pick(conf, conf.DigitsImage, func() *Sprite { return Static("digits", DigitStrip(colornames.Whitesmoke)) }),
		Tenths: pick(conf, conf.TenthsImage, func() *Sprite { return Static("tenths", DigitStrip(colornames.Red)) }),
	}
}

func pick(conf *speedo.Config, path string, gen func() *Sprite) *Sprite {
	if path == "" {
		return gen()
	}
	return Load(Resolve(conf, path))
}

// Resolve finds an image path: as given if it exists, otherwise in the
// config folders.  Unresolved paths are returned unchanged so the load error
// names what was configured.
func Resolve(conf *speedo.Config, path string) string {
	if _, err := os.Stat(path); err == nil || filepath.IsAbs(path) {
		return path
	}
	if folder := conf.ConfigDir.QueryFolderContainsFile(path); folder != nil {
		return filepath.Join(folder.Path, path)
	}
	log.WithField("image", path).Debug("not found in config folders")
	return path
}
