package consts

import (
	"errors"
	"time"
)

var (
	ErrNilReceiver = errors.New(`nil receiver`)
	ErrNilParam    = errors.New(`nil parameter`)
	ErrNilImage    = errors.New(`nil image`)
)

const (
	LibraryName = `rawimg`

	// DefaultFrameInterval is the consumer cadence of the viewer (60 Hz).
	DefaultFrameInterval = time.Second / 60

	// ParallelPixels is the pixel count from which conversions are split
	// into concurrently processed bands.
	ParallelPixels = 512 * 512
)
