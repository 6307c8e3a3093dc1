package ledstrip

// This module wires together the pieces of a running strip. Selections sent
// to the returned channel, or found by the optional poller, are broadcast to
// every subscriber including the frame loop feeding the OPC server

import (
	"net/url"
	"time"

	"github.com/karlmutch/errors"

	"github.com/Axil12/ws2812b-christmas-strip/model"
)

type GatewayConfig struct {
	FadeCandy FadeCandyConfig

	// SelectionURL, when set, is polled every PollInterval for the current
	// selection
	SelectionURL *url.URL
	PollInterval time.Duration
}

type Gateway struct {
}

func (*Gateway) Start(cfg GatewayConfig, errorC chan<- errors.Error, quitC <-chan struct{}) (selectC chan *model.Selection, subscribeC chan chan *model.Selection) {

	selectC, subscribeC = startFanOut(quitC)

	if cfg.SelectionURL != nil {
		var source SelectionSource = NewPoller(*cfg.SelectionURL, cfg.PollInterval, selectC, errorC)
		go source.Run(quitC)
	}

	StartFadeCandy(cfg.FadeCandy, subscribeC, errorC, quitC)

	return selectC, subscribeC
}
