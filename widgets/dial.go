package widgets

import (
	"github.com/gizak/termui/v3/widgets"
	log "github.com/sirupsen/logrus"

	"github.com/xxxserxxx/speedo/canvas"
	"github.com/xxxserxxx/speedo/devices"
	"github.com/xxxserxxx/speedo/panel"
)

// Dial shows the rendered panel as a terminal image.  Each Update feeds the
// latest readings into the panel and renders one frame.
type Dial struct {
	*widgets.Image
	panel    *panel.Panel
	canvas   *canvas.Canvas
	feeder   *devices.Feeder
	displays panel.DisplayResolver
}

// NewDial renders p onto a width x height canvas.  feeder and displays may be
// nil.
func NewDial(p *panel.Panel, width, height int, feeder *devices.Feeder, displays panel.DisplayResolver) *Dial {
	d := &Dial{
		Image:    widgets.NewImage(nil),
		panel:    p,
		canvas:   canvas.New(width, height),
		feeder:   feeder,
		displays: displays,
	}
	d.Border = false
	return d
}

func (d *Dial) Update() {
	if d.feeder != nil {
		d.feeder.Feed(d.panel)
	}
	if err := d.panel.Render(d.canvas, d.displays); err != nil {
		log.WithError(err).Error("rendering panel")
		return
	}
	img := d.canvas.Image()
	d.Lock()
	d.Image.Image = img
	d.Unlock()
}

// Close releases the canvas.
func (d *Dial) Close() error {
	return d.canvas.Close()
}
