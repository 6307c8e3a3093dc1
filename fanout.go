package ledstrip

import (
	"sync"
	"time"

	"github.com/Axil12/ws2812b-christmas-strip/model"
)

type subscriptions struct {
	subs []chan *model.Selection
	sync.Mutex
}

// fanOutTimeout bounds how long a single slow subscriber can hold up a
// broadcast
var fanOutTimeout = 250 * time.Millisecond

// startFanOut implement a broadcast mechanisim for accepting program selections
// and relaying then to subscribers.  The function returns a single channel
// to which selections get sent and, a channel that can be used to add
// listeners
func startFanOut(quitC <-chan struct{}) (inC chan *model.Selection, subC chan chan *model.Selection) {

	inC = make(chan *model.Selection, 1)
	subC = make(chan chan *model.Selection, 1)

	subs := &subscriptions{
		subs: []chan *model.Selection{},
	}

	add := func(sub chan *model.Selection) {
		if nil == sub {
			return
		}
		subs.Lock()
		subs.subs = append(subs.subs, sub)
		subs.Unlock()
		logger.Debug("subscription added", "subscribers", len(subs.subs))
	}

	go func(quitC <-chan struct{}) {
		defer logger.Debug("fanout stopped")
		for {
			select {
			case <-quitC:
				return
			case sub := <-subC:
				add(sub)
			case msg := <-inC:
				if nil == msg {
					continue
				}
				// Subscriptions made before the message was sent must see it
				for drained := false; !drained; {
					select {
					case sub := <-subC:
						add(sub)
					default:
						drained = true
					}
				}

				subs.Lock()
				logger.Debug("selection broadcast", "kind", msg.Program.Kind, "subscribers", len(subs.subs))
				for _, ch := range subs.subs {
					select {
					case ch <- msg.DeepCopy():
					case <-time.After(fanOutTimeout):
						logger.Warn("subscription failed to send", "kind", msg.Program.Kind)
					case <-quitC:
						subs.Unlock()
						return
					}
				}
				subs.Unlock()
			}
		}
	}(quitC)

	return inC, subC
}
