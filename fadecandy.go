package ledstrip

// This file contains a function that when started will listen for program
// selections and will update a data structure that another function checks
// on a regular basis, rendering the selected program and pushing the frame to
// a fadecandy, or any other Open Pixel Control server

import (
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/kellydunn/go-opc"

	"github.com/Axil12/ws2812b-christmas-strip/model"
	"github.com/Axil12/ws2812b-christmas-strip/strip"
)

type FadeCandyConfig struct {
	// Server is the host:port of the OPC server
	Server string
	// Channel is the OPC channel the strip is attached to, 0 broadcasts
	Channel uint8
	LEDs    int
	// Refresh is the time between frames
	Refresh time.Duration
	// TimeScale multiplies wall clock seconds before they reach the program
	TimeScale float64

	// CurrentPerChannel, in amps, and Voltage feed the power estimates that
	// are logged at debug level
	CurrentPerChannel float64
	Voltage           float64
}

type LastSelection struct {
	selection *model.Selection
	sync.Mutex
}

// StartFadeCandy subscribes to selections and starts the frame loop, both stop
// when quitC is closed
func StartFadeCandy(cfg FadeCandyConfig, subscribeC chan chan *model.Selection, errorC chan<- errors.Error, quitC <-chan struct{}) {

	if cfg.Refresh <= 0 {
		cfg.Refresh = 33 * time.Millisecond
	}
	if cfg.TimeScale == 0 {
		cfg.TimeScale = 1
	}

	selectC := make(chan *model.Selection, 1)
	subscribeC <- selectC

	last := &LastSelection{}

	go func() {
		for {
			select {
			case msg := <-selectC:
				if nil == msg {
					continue
				}
				last.Lock()
				last.selection = msg.DeepCopy()
				last.Unlock()
			case <-quitC:
				return
			}
		}
	}()

	go runFadeCandyOPC(last, cfg, errorC, quitC)
}

// opcLink holds the connection to the OPC server, reconnecting at most once a
// second while the server is unavailable
type opcLink struct {
	server    string
	client    *opc.Client
	connected bool
	lastTry   time.Time
}

func (link *opcLink) send(m *opc.Message) (err errors.Error) {
	if !link.connected {
		if time.Since(link.lastTry) < time.Second {
			return nil
		}
		link.lastTry = time.Now()

		link.client = opc.NewClient()
		if errGo := link.client.Connect("tcp", link.server); errGo != nil {
			return errors.Wrap(errGo).With("url", link.server).With("stack", stack.Trace().TrimRuntime())
		}
		link.connected = true
		logger.Info("connected", "server", link.server)
	}

	if errGo := link.client.Send(m); errGo != nil {
		link.connected = false
		return errors.Wrap(errGo).With("url", link.server).With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}

// frameMessage packs a buffer into an OPC set pixel colours message
func frameMessage(channel uint8, buf *strip.Buffer) (m *opc.Message) {
	m = opc.NewMessage(channel)
	m.SetLength(uint16(buf.NumPixels() * 3))
	for i, pixel := range buf.Pixels() {
		m.SetPixelColor(i, pixel.R, pixel.G, pixel.B)
	}
	return m
}

func runFadeCandyOPC(last *LastSelection, cfg FadeCandyConfig, errorC chan<- errors.Error, quitC <-chan struct{}) {

	runner := NewRunner(cfg.LEDs)
	link := &opcLink{server: cfg.Server}

	start := time.Now()
	lastPowerLog := time.Time{}

	tick := time.NewTicker(cfg.Refresh)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			last.Lock()
			var copied *model.Selection
			if last.selection != nil {
				copied = last.selection.DeepCopy()
			}
			last.Unlock()

			changed, err := runner.Select(copied)
			if err != nil {
				sendErr(errorC, err, 100*time.Millisecond)
			}
			if changed {
				logger.Info("program started", "kind", copied.Program.Kind)
			}

			buf := runner.Frame(time.Since(start).Seconds() * cfg.TimeScale)

			if err := link.send(frameMessage(cfg.Channel, buf)); err != nil {
				sendErr(errorC, err, 100*time.Millisecond)
			}

			if cfg.CurrentPerChannel > 0 && time.Since(lastPowerLog) >= time.Second {
				lastPowerLog = time.Now()
				logger.Debug("power estimate",
					"amps", buf.CurrentDraw(cfg.CurrentPerChannel),
					"watts", buf.PowerDraw(cfg.CurrentPerChannel, cfg.Voltage))
			}

		case <-quitC:
			return
		}
	}
}
