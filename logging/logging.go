// Package logging sends log output, and stderr, to a size-capped file in the
// user's cache folder, keeping the terminal free for the UI.
package logging

import (
	"io"
	stdlog "log"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/xxxserxxx/speedo"
)

// LOGFILE is the name of the log file in the cache folder.
const LOGFILE = "speedo.log"

const megabyte = 1 << 20

// New opens the log file and points logrus, the standard logger, and stderr
// at it.  The caller closes the returned writer on exit.
func New(c *speedo.Config) (io.WriteCloser, error) {
	cache := c.ConfigDir.QueryCacheFolder()
	if err := cache.MkdirAll(); err != nil && !os.IsExist(err) {
		return nil, errors.Wrapf(err, "creating %s", cache.Path)
	}
	w, err := NewWriter(filepath.Join(cache.Path, LOGFILE), c.MaxLogSize)
	if err != nil {
		return nil, err
	}
	if err := w.FollowStderr(); err != nil {
		log.WithError(err).Warn("stderr not redirected")
	}
	log.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	log.SetOutput(w)
	stdlog.SetOutput(w)
	stdlog.SetFlags(stdlog.Ldate | stdlog.Ltime | stdlog.Lshortfile)
	return w, nil
}

// Writer is a lumberjack log capped at a size in bytes rather than whole
// megabytes.  One old file is kept.
type Writer struct {
	*lumberjack.Logger
	lock sync.Mutex
	size int64
	max  int64
	// stderr is the file descriptor 2 was pointed at, if any
	stderr *os.File
}

// NewWriter logs to filename.  A file already over maxLogSize is rotated
// first; a maxLogSize of zero or less never rotates.
func NewWriter(filename string, maxLogSize int64) (*Writer, error) {
	w := &Writer{
		Logger: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    megabytes(maxLogSize),
			MaxBackups: 1,
		},
		max: maxLogSize,
	}
	if fi, err := os.Stat(filename); err == nil {
		w.size = fi.Size()
	}
	if w.max > 0 && w.size > w.max {
		if err := w.Rotate(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// megabytes is the lumberjack cap for n bytes.  Our own check rotates first.
func megabytes(n int64) int {
	if n <= 0 {
		return math.MaxInt32
	}
	return int((n + megabyte - 1) / megabyte)
}

func (w *Writer) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.max > 0 && w.size > 0 && w.size+int64(len(p)) > w.max {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.Logger.Write(p)
	w.size += int64(n)
	return n, err
}

// Rotate moves the current file aside and starts a new one.
func (w *Writer) Rotate() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.rotate()
}

func (w *Writer) rotate() error {
	if err := w.Logger.Rotate(); err != nil {
		return errors.Wrap(err, "rotating log")
	}
	w.size = 0
	if w.stderr != nil {
		return w.followStderr()
	}
	return nil
}

// FollowStderr points stderr at the log file, now and after every rotation.
func (w *Writer) FollowStderr() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.followStderr()
}

func (w *Writer) followStderr() error {
	fp, err := os.OpenFile(w.Filename, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return errors.Wrapf(err, "opening log %s", w.Filename)
	}
	if err := stderrToLogfile(fp); err != nil {
		fp.Close()
		return err
	}
	if w.stderr != nil {
		w.stderr.Close()
	}
	w.stderr = fp
	return nil
}

func (w *Writer) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.stderr != nil {
		w.stderr.Close()
		w.stderr = nil
	}
	return w.Logger.Close()
}
