package logfile

import (
	"context"
	"crypto/sha256"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// tickleInterval controls how often the log file is re-opened for reading.
// CoH2 only flushes its log buffer on certain file operations, so without
// the periodic open the file can stay stale for minutes. This is an
// operational requirement of the game, not a design choice.
const tickleInterval = 100 * time.Millisecond

var (
	ErrRead  = errors.New("failed to read log file")
	ErrWatch = errors.New("failed to watch log file")
)

// Watcher observes a CoH2 log file and emits a LogInfo snapshot into its
// sink on every real content change. Parse state is instance-owned, two
// watchers on the same file do not interfere.
type Watcher struct {
	logPath string
	sink    Sink
	state   parseState
	lastSum [sha256.Size]byte
	primed  bool
}

// New creates a watcher and performs one synchronous kickstart parse so a
// snapshot is available even if the file never changes again. A file that
// cannot be read is fatal.
func New(logPath string, sink Sink) (*Watcher, error) {
	watcher := &Watcher{
		logPath: filepath.Clean(logPath),
		sink:    sink,
		state:   newParseState(),
	}

	if err := watcher.process(); err != nil {
		return nil, err
	}

	return watcher, nil
}

// Start blocks, forwarding file modifications into the sink until the
// context is cancelled. Read errors terminate the watcher and propagate.
func (w *Watcher) Start(ctx context.Context) error {
	notify, errNotify := fsnotify.NewWatcher()
	if errNotify != nil {
		return errors.Join(errNotify, ErrWatch)
	}

	defer func() {
		if err := notify.Close(); err != nil {
			slog.Error("Failed to close file watcher", slog.String("error", err.Error()))
		}
	}()

	if errAdd := notify.Add(filepath.Dir(w.logPath)); errAdd != nil {
		return errors.Join(errAdd, ErrWatch)
	}

	tickler := time.NewTicker(tickleInterval)
	defer tickler.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-notify.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.logPath || !event.Has(fsnotify.Write) {
				continue
			}

			if err := w.process(); err != nil {
				return err
			}
		case errEvent, ok := <-notify.Errors:
			if !ok {
				return nil
			}

			slog.Error("File watch error", slog.String("error", errEvent.Error()))
		case <-tickler.C:
			w.tickle()
		}
	}
}

// process reads the whole file, skips spurious modify events via a content
// hash and pushes a fresh snapshot into the sink.
func (w *Watcher) process() error {
	content, errRead := os.ReadFile(w.logPath)
	if errRead != nil {
		return errors.Join(errRead, ErrRead)
	}

	sum := sha256.Sum256(content)
	if w.primed && sum == w.lastSum {
		return nil
	}

	w.lastSum = sum
	w.primed = true

	info := parseLog(content, &w.state)
	slog.Debug("Parsed log file",
		slog.Int("players", len(info.Players)),
		slog.Bool("new_match", info.IsNewMatch),
		slog.Bool("playing", info.IsPlaying))
	w.sink.Put(info)

	return nil
}

// tickle opens and closes the log file without reading. The open is what
// coaxes the game into flushing its buffered log content.
func (w *Watcher) tickle() {
	file, err := os.Open(w.logPath)
	if err != nil {
		return
	}

	if errClose := file.Close(); errClose != nil {
		slog.Error("Failed to close log file", slog.String("error", errClose.Error()))
	}
}
