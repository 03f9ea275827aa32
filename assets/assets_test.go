package assets

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/xxxserxxx/speedo/panel"
)

var _ panel.Sprite = (*Sprite)(nil)

func TestStatic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	s := Static("x", img)
	assert.True(t, s.Ready())
	assert.Equal(t, image.Image(img), s.Image())
	assert.NoError(t, s.Wait(context.Background()))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dial.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 5, 7))))
	require.NoError(t, f.Close())

	s := Load(path)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
	assert.True(t, s.Ready())
	assert.Equal(t, image.Rect(0, 0, 5, 7), s.Image().Bounds())
}

func TestLoadFailureNeverReady(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o600))
	for _, path := range []string{bad, filepath.Join(t.TempDir(), "missing.png")} {
		s := Load(path)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		assert.Error(t, s.Wait(ctx), path)
		cancel()
		assert.False(t, s.Ready())
		assert.Nil(t, s.Image())
	}
}

func TestWaitHonorsContext(t *testing.T) {
	s := &Sprite{Name: "pending", done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.Canceled)
	assert.False(t, s.Ready())
}

func TestDigitStrip(t *testing.T) {
	img := DigitStrip(colornames.Red)
	require.Equal(t, image.Rect(0, 0, panel.DigitWidth, 10*panel.DigitHeight), img.Bounds())
	// every cell carries some glyph ink
	for d := 0; d < 10; d++ {
		found := false
		for y := d * panel.DigitHeight; y < (d+1)*panel.DigitHeight && !found; y++ {
			for x := 0; x < panel.DigitWidth; x++ {
				if img.RGBAAt(x, y) == (color.RGBA{0xff, 0, 0, 0xff}) {
					found = true
					break
				}
			}
		}
		assert.True(t, found, "digit %d has no glyph", d)
	}
	assert.Equal(t, stripBackground, img.RGBAAt(0, 0))
}

func TestTickAngles(t *testing.T) {
	ticks := tickAngles(8)
	require.Len(t, ticks, 4)
	assert.InDelta(t, 0, ticks[0], 1e-9)
	assert.InDelta(t, panel.AngleRange/3, ticks[1], 1e-9)
	assert.InDelta(t, panel.AngleRange, ticks[3], 1e-9)

	assert.Len(t, tickAngles(1), 7)
	assert.LessOrEqual(t, len(tickAngles(1e300)), 26)
	assert.Equal(t, []float64{0}, tickAngles(math.Inf(1)))
}

func TestDialBackground(t *testing.T) {
	img := DialBackground(100, 80, 100)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 80, img.Bounds().Dy())
	_, _, _, a := img.At(50, 40).RGBA()
	assert.NotZero(t, a)
}
