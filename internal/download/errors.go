package download

import "errors"

var (
	// ErrNoSelection is returned when a download is requested with an
	// empty episode list.
	ErrNoSelection = errors.New("no episode selected")

	// ErrNoDownloadURL is returned when the selected episode has no
	// candidate download URL.
	ErrNoDownloadURL = errors.New("no download URL found")

	// ErrActiveSession is returned by Start while a session is already
	// in flight. Downloads are single-flight.
	ErrActiveSession = errors.New("a download is already in progress")

	// errCancelled is the cooperative abort signal returned from the
	// progress callback once cancellation has been requested.
	errCancelled = errors.New("download cancelled")
)
