// Package stats serves live runtime statistics of the emulator process.
package stats

import (
	"errors"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

const url = "/debug/statsview"

// Launch starts the stats server on addr in a new goroutine. The returned
// function stops it and returns the error the server failed with, if any.
func Launch(addr string, logger *log.Logger) (stop func() error) {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()

	done := make(chan error, 1)
	go func() {
		err := mgr.Start()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			logger.Error("Stats server failed", err)
		}
		done <- err
	}()

	logger.Info("Stats server available", log.String("url", "http://"+addr+url))
	return func() error {
		mgr.Stop()
		return <-done
	}
}
