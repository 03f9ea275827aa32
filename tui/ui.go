// Package tui runs the terminal front end: a dial, a column of value labels
// and needle bars, and a status line.
package tui

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gizak/termui/v3"
	log "github.com/sirupsen/logrus"

	"github.com/xxxserxxx/speedo"
	"github.com/xxxserxxx/speedo/devices"
	"github.com/xxxserxxx/speedo/layout"
	"github.com/xxxserxxx/speedo/panel"
	"github.com/xxxserxxx/speedo/widgets"
)

// scaleStep multiplies or divides the panel maximum on `+` and `-`; one step
// moves the needle by one tick of the log scale.
const scaleStep = 2.0

type TUI struct {
	conf *speedo.Config
}

func New(conf *speedo.Config) (TUI, error) {
	return TUI{conf}, termui.Init()
}

func (t TUI) ShutdownUI() {
	termui.Close()
}

// Screen holds the widgets laid out on the terminal.
type Screen struct {
	*termui.Grid
	Dial    *widgets.Dial
	Labels  *widgets.Labels
	Bar     *widgets.StatusBar
	Widgets widgets.Widgets
}

// NewScreen builds the widgets for p.  The dial renders at the configured
// surface size and is scaled into its grid cell by termui.
func NewScreen(conf *speedo.Config, p *panel.Panel, l layout.Layout, feeder *devices.Feeder) *Screen {
	labels := widgets.NewLabels(conf.Tr.Value("widget.label.values"), l.Labels())
	dial := widgets.NewDial(p, conf.Width, conf.Height, feeder, labels)
	s := &Screen{
		Grid:    termui.NewGrid(),
		Dial:    dial,
		Labels:  labels,
		Bar:     widgets.NewStatusBar(p, conf.Tr),
		Widgets: widgets.Widgets{dial},
	}
	bars := make([]interface{}, 0, len(l.Gauges)+1)
	share := 1.0 / float64(len(l.Gauges)+1)
	bars = append(bars, termui.NewRow(share, labels))
	for _, g := range l.Gauges {
		d := widgets.NewDeflection(p, g.Name)
		s.Widgets = append(s.Widgets, d)
		bars = append(bars, termui.NewRow(share, d))
	}
	s.Set(termui.NewRow(1.0,
		termui.NewCol(2.0/3, dial),
		termui.NewCol(1.0/3, bars...),
	))
	return s
}

// Resize fits the grid and status bar to the terminal.
func (s *Screen) Resize(width, height int) {
	s.SetRect(0, 0, width, height-1)
	s.Bar.SetRect(0, height-1, width, height)
}

// LoopUI shows p until the user quits.  Readings flow in through feeder on
// every frame.
func (t TUI) LoopUI(p *panel.Panel, l layout.Layout, feeder *devices.Feeder) error {
	screen := NewScreen(t.conf, p, l, feeder)
	defer screen.Dial.Close()
	termWidth, termHeight := termui.TerminalDimensions()
	screen.Resize(termWidth, termHeight)
	screen.Widgets.Update()
	termui.Render(screen, screen.Bar)
	eventLoop(t.conf, p, screen)
	return nil
}

func eventLoop(c *speedo.Config, p *panel.Panel, screen *Screen) {
	drawTicker := time.NewTicker(c.UpdateInterval)
	defer drawTicker.Stop()

	// handles kill signal sent to speedo
	sigTerm := make(chan os.Signal, 2)
	signal.Notify(sigTerm, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigTerm)

	uiEvents := termui.PollEvents()
	original := p.MaximumValue()

	for {
		select {
		case <-sigTerm:
			return
		case <-drawTicker.C:
			screen.Widgets.Update()
			termui.Render(screen, screen.Bar)
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return
			case "<Resize>":
				payload := e.Payload.(termui.Resize)
				screen.Resize(payload.Width, payload.Height)
				termui.Clear()
				termui.Render(screen, screen.Bar)
			default:
				handleKey(e.ID, p, original)
			}
		}
	}
}

// handleKey applies the scale keys.  It reports whether the key was one.
func handleKey(id string, p *panel.Panel, original float64) bool {
	var v float64
	switch id {
	case "+", "=":
		v = p.MaximumValue() * scaleStep
	case "-", "_":
		v = p.MaximumValue() / scaleStep
	case "r":
		v = original
	default:
		return false
	}
	prev, err := p.SetMaximumValue(v)
	if err != nil {
		log.WithError(err).Warn("maximum not changed")
		return true
	}
	log.WithField("previous", prev).WithField("maximum", v).Debug("maximum changed")
	return true
}
