package log

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"sim8086/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	closer      io.Closer = nopCloser{}
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the charm logger as the slog default handler. dir is where
// debug log files go when SIM8086_LOG_TO_FILE=1. Only the first call has an
// effect; the returned closer releases the log file.
func Setup(dir string, debug bool) io.Closer {
	initOnce.Do(func() {
		lg := logging.NewLogger(dir)
		if debug {
			lg.SetLevel(charmlog.DebugLevel)
			lg.SetReportCaller(true)
		}

		slog.SetDefault(slog.New(lg.Logger))
		closer = lg
		initialized.Store(true)
	})
	return closer
}

func Initialized() bool {
	return initialized.Load()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
