/*
Package ledstrip drives a WS2812 style LED strip through a FadeCandy, or any
other Open Pixel Control server, rendering whichever strip program is currently
selected at a fixed frame rate.

The module path ends in ws2812b-christmas-strip, which is not a valid Go
identifier, so importers name the package explicitly:

	import ledstrip "github.com/Axil12/ws2812b-christmas-strip"
*/
package ledstrip

import (
	"time"

	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"
)

var logger = logxi.New("ledstrip")

// sendErr hands an error to the caller supplied error channel, falling back
// to the package log if nobody is listening
func sendErr(errorC chan<- errors.Error, err errors.Error, wait time.Duration) {
	select {
	case errorC <- err:
	case <-time.After(wait):
		logger.Warn("could not report error", "error", err.Error())
	}
}
