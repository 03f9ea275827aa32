// Package assets provides the images a gauge panel draws from: loaders that
// decode artwork in the background, and generated stand-ins for when no
// artwork is configured.
package assets

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"
)

// Sprite is an image that is decoded asynchronously.  It implements
// panel.Sprite; readers never block, they see the image once it is ready.
type Sprite struct {
	Name  string
	ready atomic.Bool
	img   atomic.Value
	done  chan struct{}
	once  sync.Once
	err   error
}

// Static returns a sprite that is ready immediately.
func Static(name string, img image.Image) *Sprite {
	s := &Sprite{Name: name, done: make(chan struct{})}
	s.finish(img, nil)
	return s
}

// Load starts decoding the image file at path and returns at once.  If the
// file cannot be read or decoded the sprite never becomes ready; the error
// is logged and available from Wait.
func Load(path string) *Sprite {
	s := &Sprite{Name: path, done: make(chan struct{})}
	go func() {
		s.finish(decode(path))
	}()
	return s
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return img, nil
}

func (s *Sprite) finish(img image.Image, err error) {
	s.once.Do(func() {
		if err != nil {
			s.err = err
			log.WithField("sprite", s.Name).WithError(err).Error("unable to load image")
		} else {
			s.img.Store(&img)
			s.ready.Store(true)
		}
		close(s.done)
	})
}

func (s *Sprite) Ready() bool {
	return s.ready.Load()
}

// Image returns the decoded image, or nil while the sprite is not ready.
func (s *Sprite) Image() image.Image {
	if p, ok := s.img.Load().(*image.Image); ok {
		return *p
	}
	return nil
}

// Wait blocks until loading finished or ctx is done, and returns the load
// error if there was one.
func (s *Sprite) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
