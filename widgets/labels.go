package widgets

import (
	"image"

	"github.com/gizak/termui/v3"
	"github.com/mattn/go-runewidth"

	"github.com/xxxserxxx/speedo/panel"
)

type label struct {
	text string
}

func (l *label) SetText(s string) {
	l.text = s
}

// Labels is a column of `id  value` rows.  It resolves display ids for the
// panel, which writes each gauge's value into its row.
type Labels struct {
	termui.Block
	ids    []string
	labels map[string]*label
}

var _ panel.DisplayResolver = (*Labels)(nil)

func NewLabels(title string, ids []string) *Labels {
	l := &Labels{
		Block:  *termui.NewBlock(),
		ids:    make([]string, 0, len(ids)),
		labels: make(map[string]*label),
	}
	l.Title = title
	for _, id := range ids {
		if _, ok := l.labels[id]; ok {
			continue
		}
		l.ids = append(l.ids, id)
		l.labels[id] = &label{}
	}
	return l
}

func (l *Labels) Resolve(id string) (panel.TextElement, bool) {
	lb, ok := l.labels[id]
	return lb, ok
}

// Text returns what was last written to id.
func (l *Labels) Text(id string) string {
	if lb, ok := l.labels[id]; ok {
		return lb.text
	}
	return ""
}

// Rows formats every label, ids padded to a common display width.
func (l *Labels) Rows() []string {
	w := 0
	for _, id := range l.ids {
		if sw := runewidth.StringWidth(id); sw > w {
			w = sw
		}
	}
	rv := make([]string, len(l.ids))
	for i, id := range l.ids {
		rv[i] = runewidth.FillRight(id, w) + "  " + l.labels[id].text
	}
	return rv
}

func (l *Labels) Draw(buf *termui.Buffer) {
	l.Block.Draw(buf)
	for i, row := range l.Rows() {
		if i >= l.Inner.Dy() {
			break
		}
		row = runewidth.Truncate(row, l.Inner.Dx(), "…")
		buf.SetString(row, termui.Theme.Default, image.Pt(l.Inner.Min.X, l.Inner.Min.Y+i))
	}
}
