package main

// The simulator renders strip programs without any hardware attached. It
// serves single frames as JSON, whole animations as animated PNGs, and power
// estimates. When given a playlist it also plays the part of a remote
// selection service, handing out whichever selection is scheduled at the
// current time so that ws2812fx can be pointed at it with -selection-url

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	logxi "github.com/mgutz/logxi/v1"
)

var (
	listen       = flag.String("listen", ":8080", "Address to bind to")
	leds         = flag.Int("leds", 60, "The number of LEDs on the simulated strip")
	frames       = flag.Int("frames", 120, "The number of frames in an animated preview")
	fps          = flag.Float64("fps", 30, "The frame rate used for previews and for catching stateful programs up to a point in time")
	pixelSize    = flag.Int("pixel-size", 8, "The size in image pixels of each LED in a preview")
	playlistPath = flag.String("playlist", "", "A YAML playlist of timed selections served from /selection")
	scale        = flag.Int("scale", 1, "factor by which to accelerate the relative rate of the playlist clock")

	currentPerChannel = flag.Float64("current-per-channel", 0.02, "The current in amps drawn by a single LED channel at full brightness")
	voltage           = flag.Float64("voltage", 5, "The supply voltage of the strip, used for power estimates")

	// create Logger interface
	logW = logxi.NewLogger(logxi.NewConcurrentWriter(os.Stdout), "ws2812fx-simulator")
)

func main() {

	flag.Parse()

	sim := &simulator{
		leds:              *leds,
		frames:            *frames,
		fps:               *fps,
		pixelSize:         *pixelSize,
		currentPerChannel: *currentPerChannel,
		voltage:           *voltage,
	}

	if len(*playlistPath) != 0 {
		list, err := loadPlaylist(*playlistPath)
		if err != nil {
			logW.Fatal(fmt.Sprintf("could not load playlist %s", *playlistPath), "error", err.Error())
		}
		sim.schedule = newSchedule(list, float64(*scale))
		logW.Info("playlist loaded", "file", *playlistPath, "entries", len(list.Entries))
	}

	logW.Info("listening", "address", *listen)
	if errGo := http.ListenAndServe(*listen, sim.routes()); errGo != nil {
		logW.Warn(errGo.Error())
	}
}
