package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/edmistond/podcastdl/internal/feed"
	"github.com/edmistond/podcastdl/internal/utils"
)

// State is the controller's position in the session lifecycle.
type State int

const (
	StateIdle State = iota
	StateActive
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// session is one in-flight (or just-settled) transfer. The progress
// counters and meta are shared with the transfer goroutine; the cancel
// flag is written only by the UI loop and read by the progress
// callback. The file handle is owned exclusively by the transfer
// goroutine until it closes it.
type session struct {
	filename  string
	path      string
	url       string
	file      *os.File
	progress  progressState
	cancel    atomic.Bool
	ctxCancel context.CancelFunc

	metaMu sync.Mutex
	meta   Meta

	done chan struct{}
	err  error // written before done is closed, read only after
}

// CompletedFunc is invoked from PollTick when a session finishes
// successfully, with the destination filename, source URL, episode
// title and total bytes written.
type CompletedFunc func(filename, url, title string, total int64)

// Controller drives one cancellable transfer at a time and turns its
// shared state into status messages. All methods must be called from
// the UI loop; only the session internals cross goroutines.
type Controller struct {
	transfer    Transferer
	outDir      string
	state       State
	sess        *session
	title       string
	status      string
	onCompleted CompletedFunc
}

// NewController returns a controller writing downloads into outDir
// using the given transfer client.
func NewController(transfer Transferer, outDir string) *Controller {
	return &Controller{transfer: transfer, outDir: outDir}
}

// OnCompleted registers a hook called once per completed session.
func (c *Controller) OnCompleted(fn CompletedFunc) {
	c.onCompleted = fn
}

func (c *Controller) State() State { return c.state }

// Active reports whether a transfer session is in flight.
func (c *Controller) Active() bool { return c.state == StateActive }

// Status returns the most recent status message. It is overwritten on
// every transition, never appended.
func (c *Controller) Status() string { return c.status }

// Filename returns the destination filename of the current or most
// recent session, or "" before the first download.
func (c *Controller) Filename() string {
	if c.sess == nil {
		return ""
	}
	return c.sess.filename
}

// URL returns the source URL of the current or most recent session, or
// "" before the first download.
func (c *Controller) URL() string {
	if c.sess == nil {
		return ""
	}
	return c.sess.url
}

// Progress returns the shared byte counters. known is false while the
// server has not reported a total.
func (c *Controller) Progress() (current, total int64, percent int, known bool) {
	if c.sess == nil {
		return 0, 0, 0, false
	}
	return c.sess.progress.snapshot()
}

// Meta returns the response metadata captured for the current or most
// recent session.
func (c *Controller) Meta() Meta {
	if c.sess == nil {
		return Meta{}
	}
	c.sess.metaMu.Lock()
	defer c.sess.metaMu.Unlock()
	return c.sess.meta
}

// Start begins downloading the episode. The destination filename is the
// sanitized title (or episode_<index>.mp3 for untitled episodes) in the
// controller's output directory. Fails with ErrActiveSession while a
// session is in flight, ErrNoDownloadURL when the episode has no
// candidate URL, or a wrapped error when the destination cannot be
// created; in every failure case the controller state is unchanged.
func (c *Controller) Start(ep feed.Episode, index int) error {
	if c.state == StateActive {
		return ErrActiveSession
	}

	url, ok := ep.DownloadURL()
	if !ok {
		return ErrNoDownloadURL
	}

	filename := EpisodeFilename(ep.Title, index)
	path := filepath.Join(c.outDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		filename:  filename,
		path:      path,
		url:       url,
		file:      file,
		ctxCancel: cancel,
		done:      make(chan struct{}),
	}

	c.sess = s
	c.title = ep.Title
	c.state = StateActive
	c.status = c.activeStatus(s)

	utils.Debug("starting download: %s -> %s", url, path)

	go func() {
		err := c.transfer.Transfer(ctx, url, file, func(m Meta) {
			s.metaMu.Lock()
			s.meta = m
			s.metaMu.Unlock()
		}, func(total, current int64) error {
			if s.cancel.Load() {
				return errCancelled
			}
			s.progress.set(total, current)
			return nil
		})
		file.Close()
		s.err = err
		close(s.done)
	}()

	return nil
}

// Cancel requests cooperative cancellation of the active session. The
// flag is observed by the progress callback on the next received chunk;
// the request context is cancelled as well so a connection stalled with
// no data unwinds promptly instead of hanging until bytes arrive.
func (c *Controller) Cancel() {
	if c.state != StateActive || c.sess == nil {
		return
	}
	c.sess.cancel.Store(true)
	c.sess.ctxCancel()
}

// PollTick is called once per UI loop iteration while a session is
// active: it refreshes the status message from the shared progress
// counters and, once the transfer goroutine has finished, settles the
// session into its terminal state.
func (c *Controller) PollTick() {
	if c.state != StateActive || c.sess == nil {
		return
	}
	s := c.sess

	select {
	case <-s.done:
		c.settle(s)
	default:
		c.status = c.activeStatus(s)
	}
}

func (c *Controller) activeStatus(s *session) string {
	_, _, percent, known := s.progress.snapshot()
	if !known {
		return fmt.Sprintf("Downloading %s... (press 'x' to cancel)", s.filename)
	}
	return fmt.Sprintf("Downloading %s... %d%% (press 'x' to cancel)", s.filename, percent)
}

// settle moves the session to its terminal state. Cancellation wins
// over any transfer error, and the partial file is removed best-effort:
// a failed delete is reported but the state still becomes Cancelled.
func (c *Controller) settle(s *session) {
	switch {
	case s.cancel.Load():
		c.state = StateCancelled
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			utils.Debug("failed to remove partial file %s: %v", s.path, err)
			c.status = fmt.Sprintf("Download of %s cancelled (could not remove partial file: %v)", s.filename, err)
		} else {
			c.status = fmt.Sprintf("Download of %s cancelled", s.filename)
		}
		utils.Debug("download cancelled: %s", s.url)

	case s.err != nil:
		c.state = StateFailed
		c.status = s.err.Error()
		utils.Debug("download failed: %s: %v", s.url, s.err)

	default:
		c.state = StateCompleted
		c.status = fmt.Sprintf("Downloaded %s", s.filename)
		utils.Debug("download completed: %s", s.path)
		if c.onCompleted != nil {
			current, total, _, known := s.progress.snapshot()
			if !known {
				total = current
			}
			c.onCompleted(s.filename, s.url, c.title, total)
		}
	}
}
