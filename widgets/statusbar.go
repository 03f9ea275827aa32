package widgets

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/gizak/termui/v3"
	log "github.com/sirupsen/logrus"
	"github.com/xxxserxxx/lingo/v2"

	"github.com/xxxserxxx/speedo/panel"
)

// StatusBar shows the hostname, the time, and the panel maximum.
type StatusBar struct {
	termui.Block
	panel *panel.Panel
	tr    lingo.Translations
	now   func() time.Time
}

func NewStatusBar(p *panel.Panel, tr lingo.Translations) *StatusBar {
	self := &StatusBar{Block: *termui.NewBlock(), panel: p, tr: tr, now: time.Now}
	self.Border = false
	return self
}

func (sb *StatusBar) Draw(buf *termui.Buffer) {
	sb.Block.Draw(buf)
	y := sb.Inner.Min.Y + (sb.Inner.Dy() / 2)

	hostname, err := os.Hostname()
	if err != nil {
		log.Warn(sb.tr.Value("error.nohostname", err.Error()))
	} else {
		buf.SetString(hostname, termui.Theme.Default, image.Pt(sb.Inner.Min.X, y))
	}

	formattedTime := sb.now().Format("15:04:05")
	buf.SetString(
		formattedTime,
		termui.Theme.Default,
		image.Pt(sb.Inner.Min.X+(sb.Inner.Dx()/2)-len(formattedTime)/2, y),
	)

	right := fmt.Sprintf("max %g  speedo", sb.panel.MaximumValue())
	buf.SetString(
		right,
		termui.Theme.Default,
		image.Pt(sb.Inner.Max.X-len(right), y),
	)
}
