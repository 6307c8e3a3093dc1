package main

import (
	"github.com/Axil12/ws2812b-christmas-strip/model"
)

// This file implements a monitor that subscribes to and logs the program
// selections as they are broadcast

func subscribeMonitor(subscribeC chan chan *model.Selection) (selectC chan *model.Selection) {
	selectC = make(chan *model.Selection, 1)
	subscribeC <- selectC
	return selectC
}

func runMonitoring(selectC <-chan *model.Selection, quitC <-chan struct{}) {
	for {
		select {
		case msg := <-selectC:
			if msg == nil {
				continue
			}
			logger.Info("selection", "kind", msg.Program.Kind, "speed", msg.Program.Speed,
				"brightness", msg.Level(), "seed", msg.Seed)
			logger.Debug("selection detail", "program", msg.Program)
		case <-quitC:
			return
		}
	}
}
