package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/xxxserxxx/speedo"
	"github.com/xxxserxxx/speedo/canvas"
	"github.com/xxxserxxx/speedo/devices"
	"github.com/xxxserxxx/speedo/layout"
	"github.com/xxxserxxx/speedo/panel"
	"github.com/xxxserxxx/speedo/widgets"
)

type waiter interface {
	Wait(ctx context.Context) error
}

// waitForSprites blocks until every sprite that can be waited on has loaded,
// failed, or timeout passes.  Frames rendered before then lack the artwork.
func waitForSprites(ctx context.Context, s panel.Sprites, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for _, sp := range []panel.Sprite{s.Dial, s.Digits, s.Tenths} {
		w, ok := sp.(waiter)
		if !ok {
			continue
		}
		if err := w.Wait(ctx); err != nil {
			log.WithError(err).Warn("sprite unavailable")
		}
	}
}

func framePath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%05d.png", i))
}

// renderFrames writes c.Frames PNG images into c.OutputDir, one every
// c.UpdateInterval, then prints the final value labels to out.
func renderFrames(c *speedo.Config, p *panel.Panel, l layout.Layout, feeder *devices.Feeder, out io.Writer) error {
	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", c.OutputDir)
	}
	cv := canvas.New(c.Width, c.Height)
	defer cv.Close()
	labels := widgets.NewLabels("", l.Labels())

	var tick <-chan time.Time
	if c.Frames > 1 && c.UpdateInterval > 0 {
		t := time.NewTicker(c.UpdateInterval)
		defer t.Stop()
		tick = t.C
	}
	for i := 0; i < c.Frames; i++ {
		if i > 0 && tick != nil {
			<-tick
		}
		if feeder != nil {
			feeder.Feed(p)
		}
		cv.Clear()
		if err := p.Render(cv, labels); err != nil {
			return errors.Wrapf(err, "rendering frame %d", i)
		}
		path := framePath(c.OutputDir, i)
		if err := cv.SavePNG(path); err != nil {
			return err
		}
		log.WithField("frame", i).Debug(path)
	}
	if out != nil {
		for _, row := range labels.Rows() {
			fmt.Fprintln(out, row)
		}
	}
	return nil
}
