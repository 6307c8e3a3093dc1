package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag

	ledstrip "github.com/Axil12/ws2812b-christmas-strip"
	"github.com/Axil12/ws2812b-christmas-strip/model"
	"github.com/Axil12/ws2812b-christmas-strip/version"
)

var (
	logger = logxi.New("ws2812fx")

	verbose = flag.Bool("v", false, "When enabled will print internal logging for this tool")

	opcServer  = flag.String("opc-server", "localhost:7890", "The host:port of the fadecandy, or other OPC, server")
	opcChannel = flag.Uint("opc-channel", 0, "The OPC channel the strip is attached to, 0 addresses every channel")
	leds       = flag.Int("leds", 300, "The number of LEDs on the strip")
	fps        = flag.Float64("fps", 30, "The number of frames rendered per second")
	timeScale  = flag.Float64("time-scale", 1, "Multiplier applied to wall clock time before it reaches the program")

	configFile   = flag.String("config", "", "A YAML file holding the program selection to display")
	selectionURL = flag.String("selection-url", "", "An http(s) or file URL polled for the program selection")
	pollInterval = flag.Duration("poll-interval", time.Second, "The time between polls of the selection URL")

	currentPerChannel = flag.Float64("current-per-channel", 0.02, "The current in amps drawn by a single LED channel at full brightness")
	voltage           = flag.Float64("voltage", 5, "The supply voltage of the strip, used for power estimates")
)

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options]       selection → OPC (ws2812fx)      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "ws2812fx renders animated programs for WS2812 LED strips driven by OPC based USB fadecandy boards")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Programs: ", model.Kinds())
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment Variables:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "log levels are handled by the LOGXI env variables, these are documented at https://github.com/mgutz/logxi")
}

func init() {
	flag.Usage = usage
}

// initialSelection decides what to show before any selection arrives from the
// poller
func initialSelection() (sel *model.Selection, err errors.Error) {
	if len(*configFile) != 0 {
		return model.LoadSelection(*configFile)
	}
	if len(*selectionURL) != 0 {
		return nil, nil
	}
	return &model.Selection{
		Program: model.ProgramSpec{Kind: model.KindChristmasTree, Speed: 1},
	}, nil
}

func gatewayConfig() (cfg ledstrip.GatewayConfig, err errors.Error) {
	if *fps <= 0 {
		return cfg, errors.New("fps must be positive").With("fps", *fps).With("stack", stack.Trace().TrimRuntime())
	}
	if *opcChannel > 255 {
		return cfg, errors.New("opc channel out of range").With("channel", *opcChannel).With("stack", stack.Trace().TrimRuntime())
	}

	cfg = ledstrip.GatewayConfig{
		FadeCandy: ledstrip.FadeCandyConfig{
			Server:            *opcServer,
			Channel:           uint8(*opcChannel),
			LEDs:              *leds,
			Refresh:           time.Duration(float64(time.Second) / *fps),
			TimeScale:         *timeScale,
			CurrentPerChannel: *currentPerChannel,
			Voltage:           *voltage,
		},
		PollInterval: *pollInterval,
	}

	if len(*selectionURL) != 0 {
		u, errGo := url.Parse(*selectionURL)
		if errGo != nil {
			return cfg, errors.Wrap(errGo).With("url", *selectionURL).With("stack", stack.Trace().TrimRuntime())
		}
		cfg.SelectionURL = u
	}
	return cfg, nil
}

func main() {

	// Parse the CLI flags
	if !flag.Parsed() {
		envflag.Parse()
	}

	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	logger.Debug(fmt.Sprintf("%s built at %s, against commit id %s", os.Args[0], version.BuildTime, version.GitHash))

	cfg, err := gatewayConfig()
	if err != nil {
		logger.Fatal("invalid options", "error", err.Error())
	}

	sel, err := initialSelection()
	if err != nil {
		logger.Fatal("could not load the program selection", "error", err.Error())
	}

	quitC := make(chan struct{})
	errorC := make(chan errors.Error, 10)

	go runErrorWatch(errorC, quitC)

	gw := &ledstrip.Gateway{}
	selectC, subscribeC := gw.Start(cfg, errorC, quitC)

	go runMonitoring(subscribeMonitor(subscribeC), quitC)

	if sel != nil {
		selectC <- sel
	}

	logger.Info("started", "server", cfg.FadeCandy.Server, "leds", cfg.FadeCandy.LEDs, "fps", *fps)

	stopC := make(chan os.Signal, 1)
	signal.Notify(stopC, os.Interrupt, syscall.SIGTERM)
	<-stopC

	logger.Info("stopping")
	close(quitC)

	// Give the frame loop a moment to notice before the process goes away
	time.Sleep(100 * time.Millisecond)
}
