package main

import (
	"github.com/karlmutch/errors"
)

// runErrorWatch logs the errors reported by the gateway until quitC is closed
func runErrorWatch(errorC <-chan errors.Error, quitC <-chan struct{}) {
	for {
		select {
		case err := <-errorC:
			if err != nil {
				logger.Warn("error", "error", err.Error())
			}
		case <-quitC:
			return
		}
	}
}
