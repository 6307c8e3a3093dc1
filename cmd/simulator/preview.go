package main

import (
	"bytes"
	"encoding/json"
	"image"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/setanarut/apng"

	yaml "gopkg.in/yaml.v2"

	"github.com/Axil12/ws2812b-christmas-strip/model"
	"github.com/Axil12/ws2812b-christmas-strip/strip"
)

// maxCatchUpFrames bounds the work done replaying a stateful program up to
// the requested time
const maxCatchUpFrames = 100000

type simulator struct {
	leds              int
	frames            int
	fps               float64
	pixelSize         int
	currentPerChannel float64
	voltage           float64

	schedule *schedule
}

func (sim *simulator) routes() (mux *http.ServeMux) {
	mux = http.NewServeMux()
	mux.HandleFunc("/frame", sim.serveFrame)
	mux.HandleFunc("/preview.png", sim.servePreview)
	mux.HandleFunc("/power", sim.servePower)
	mux.HandleFunc("/selection", sim.serveSelection)
	return mux
}

// selectionFromQuery maps query parameters onto a selection. Colours are given
// as repeated color parameters, either hex "ff8000" or "hue,sat"
func selectionFromQuery(q url.Values) (sel *model.Selection, err errors.Error) {
	sel = &model.Selection{
		Program: model.ProgramSpec{Kind: q.Get("kind")},
	}
	if len(sel.Program.Kind) == 0 {
		return nil, errors.New("kind parameter missing").With("known", model.Kinds()).With("stack", stack.Trace().TrimRuntime())
	}

	floats := map[string]*float64{
		"speed":      &sel.Program.Speed,
		"scale":      &sel.Program.Scale,
		"brightness": &sel.Brightness,
	}
	for name, dest := range floats {
		if v := q.Get(name); len(v) != 0 {
			f, errGo := strconv.ParseFloat(v, 64)
			if errGo != nil {
				return nil, errors.Wrap(errGo).With("param", name).With("stack", stack.Trace().TrimRuntime())
			}
			*dest = f
		}
	}

	ints := map[string]*int{
		"waves":  &sel.Program.Waves,
		"comets": &sel.Program.Comets,
	}
	for name, dest := range ints {
		if v := q.Get(name); len(v) != 0 {
			i, errGo := strconv.Atoi(v)
			if errGo != nil {
				return nil, errors.Wrap(errGo).With("param", name).With("stack", stack.Trace().TrimRuntime())
			}
			*dest = i
		}
	}

	// Star tuning stays nil unless given so the program defaults apply
	optional := map[string]**int{
		"attempts":    &sel.Program.Attempts,
		"probability": &sel.Program.Probability,
	}
	for name, dest := range optional {
		if v := q.Get(name); len(v) != 0 {
			i, errGo := strconv.Atoi(v)
			if errGo != nil {
				return nil, errors.Wrap(errGo).With("param", name).With("stack", stack.Trace().TrimRuntime())
			}
			*dest = &i
		}
	}

	if v := q.Get("seed"); len(v) != 0 {
		seed, errGo := strconv.ParseInt(v, 10, 64)
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("param", "seed").With("stack", stack.Trace().TrimRuntime())
		}
		sel.Seed = seed
	}
	// Previews should be repeatable unless asked otherwise
	if sel.Seed == 0 {
		sel.Seed = 1
	}

	for _, v := range q["color"] {
		col, err := parseColor(v)
		if err != nil {
			return nil, err
		}
		sel.Program.Colors = append(sel.Program.Colors, col)
	}
	return sel, nil
}

func parseColor(v string) (col model.ColorSpec, err errors.Error) {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return model.ColorSpec{Hex: "#" + strings.TrimPrefix(v, "#")}, nil
	}
	hue, errGo := strconv.ParseUint(parts[0], 10, 16)
	if errGo != nil {
		return col, errors.Wrap(errGo).With("color", v).With("stack", stack.Trace().TrimRuntime())
	}
	sat, errGo := strconv.ParseUint(parts[1], 10, 8)
	if errGo != nil {
		return col, errors.Wrap(errGo).With("color", v).With("stack", stack.Trace().TrimRuntime())
	}
	s := uint8(sat)
	return model.ColorSpec{Hue: uint16(hue), Sat: &s}, nil
}

// renderAt plays the selection from time zero up to t at the simulator frame
// rate, so programs that keep state between frames arrive at the same frame
// the strip would be showing
func (sim *simulator) renderAt(sel *model.Selection, t float64) (buf *strip.Buffer, err errors.Error) {
	prog, err := model.BuildSelection(sel, sim.leds)
	if err != nil {
		return nil, err
	}
	buf = strip.NewBuffer(sim.leds)

	steps := 0
	if t > 0 && sim.fps > 0 {
		steps = int(math.Min(math.Floor(t*sim.fps), maxCatchUpFrames))
	}
	for i := 0; i < steps; i++ {
		prog.Render(buf, float64(i)/sim.fps)
	}
	prog.Render(buf, t)
	buf.ApplyBrightness(sel.Level())
	return buf, nil
}

// renderAnimation returns the first frames of a selection as images
func (sim *simulator) renderAnimation(sel *model.Selection) (images []image.Image, err errors.Error) {
	prog, err := model.BuildSelection(sel, sim.leds)
	if err != nil {
		return nil, err
	}
	buf := strip.NewBuffer(sim.leds)
	images = make([]image.Image, 0, sim.frames)
	for i := 0; i < sim.frames; i++ {
		prog.Render(buf, float64(i)/sim.fps)
		buf.ApplyBrightness(sel.Level())
		images = append(images, buf.Image(sim.pixelSize))
	}
	return images, nil
}

func queryTime(q url.Values) (t float64, err errors.Error) {
	v := q.Get("t")
	if len(v) == 0 {
		return 0, nil
	}
	t, errGo := strconv.ParseFloat(v, 64)
	if errGo != nil {
		return 0, errors.Wrap(errGo).With("param", "t").With("stack", stack.Trace().TrimRuntime())
	}
	return t, nil
}

func badRequest(w http.ResponseWriter, r *http.Request, err errors.Error) {
	logW.Debug("bad request", "url", r.URL.String(), "error", err.Error())
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if errGo := json.NewEncoder(w).Encode(v); errGo != nil {
		logW.Warn("response not written", "error", errGo.Error())
	}
}

func (sim *simulator) serveFrame(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		badRequest(w, r, err)
		return
	}
	t, err := queryTime(r.URL.Query())
	if err != nil {
		badRequest(w, r, err)
		return
	}
	buf, err := sim.renderAt(sel, t)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	pixels := make([]string, buf.NumPixels())
	for i := range pixels {
		pixels[i] = buf.Pixel(i).String()
	}
	writeJSON(w, pixels)
}

type powerEstimate struct {
	Amps  float64 `json:"amps"`
	Watts float64 `json:"watts"`
}

func (sim *simulator) servePower(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		badRequest(w, r, err)
		return
	}
	t, err := queryTime(r.URL.Query())
	if err != nil {
		badRequest(w, r, err)
		return
	}
	buf, err := sim.renderAt(sel, t)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	writeJSON(w, powerEstimate{
		Amps:  buf.CurrentDraw(sim.currentPerChannel),
		Watts: buf.PowerDraw(sim.currentPerChannel, sim.voltage),
	})
}

func (sim *simulator) servePreview(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if sim.frames < 1 || sim.fps <= 0 || sim.leds < 1 {
		http.Error(w, "simulator has nothing to preview", http.StatusServiceUnavailable)
		return
	}
	images, err := sim.renderAnimation(sel)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	// APNG delays are in hundredths of a second
	delay := uint16(math.Max(1, math.Round(100/sim.fps)))
	delays := make([]uint16, len(images))
	for i := range delays {
		delays[i] = delay
	}

	out := &bytes.Buffer{}
	if errGo := apng.EncodeAll(out, &apng.APNG{Images: images, Delays: delays}); errGo != nil {
		err = errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
		logW.Warn("preview failed", "error", err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/apng")
	w.Write(out.Bytes())
}

func (sim *simulator) serveSelection(w http.ResponseWriter, r *http.Request) {
	if sim.schedule == nil {
		http.Error(w, "no playlist loaded", http.StatusNotFound)
		return
	}
	sel := sim.schedule.at(time.Now())
	logW.Debug("serving selection", "kind", sel.Program.Kind)

	if strings.Contains(r.Header.Get("Accept"), "json") {
		writeJSON(w, sel)
		return
	}
	data, errGo := yaml.Marshal(sel)
	if errGo != nil {
		http.Error(w, errGo.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(data)
}
