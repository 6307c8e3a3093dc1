package model

// This module defines the implementation neutral description of the program
// that should be driving a strip, as it arrives in configuration files or from
// a remote selection service

import (
	"encoding/json"
	"io/ioutil"
	"math"
	"strings"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/cnf/structhash"
	colorful "github.com/lucasb-eyer/go-colorful"
	yaml "gopkg.in/yaml.v2"

	"github.com/Axil12/ws2812b-christmas-strip/colors"
)

// ColorSpec names a colour either as a hex string, "#ff8000", or as a 16 bit
// hue with an 8 bit saturation. Sat defaults to fully saturated
type ColorSpec struct {
	Hex string `json:"hex,omitempty" yaml:"hex,omitempty"`
	Hue uint16 `json:"hue,omitempty" yaml:"hue,omitempty"`
	Sat *uint8 `json:"sat,omitempty" yaml:"sat,omitempty"`
}

type ProgramSpec struct {
	Kind        string      `json:"kind" yaml:"kind"`
	Speed       float64     `json:"speed,omitempty" yaml:"speed,omitempty"`
	Scale       float64     `json:"scale,omitempty" yaml:"scale,omitempty"`
	Waves       int         `json:"waves,omitempty" yaml:"waves,omitempty"`
	Comets      int         `json:"comets,omitempty" yaml:"comets,omitempty"`
	// Attempts and Probability tune the star programs, nil keeps the program
	// defaults and 0 turns spawning off
	Attempts    *int        `json:"attempts,omitempty" yaml:"attempts,omitempty"`
	Probability *int        `json:"probability,omitempty" yaml:"probability,omitempty"`
	Colors      []ColorSpec `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// Selection is the complete state a strip is asked to display
type Selection struct {
	Program ProgramSpec `json:"program" yaml:"program"`
	// Brightness scales every channel, 0 is treated as full brightness
	Brightness float64 `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	// Seed feeds the random and noise sources, 0 seeds from the clock
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DeepCopy deepcopies a to b using json marshaling
func (sel *Selection) DeepCopy() (cpy *Selection) {
	cpy = &Selection{}

	byt, _ := json.Marshal(sel)
	json.Unmarshal(byt, cpy)
	return cpy
}

// fingerprint is hashed in place of the selection itself. structhash reads a
// nil pointer as its zero value, the JSON form keeps unset and 0 apart
type fingerprint struct {
	Program    string
	Seed       int64
	Brightness float64
}

func (spec *ProgramSpec) encoded() string {
	byt, _ := json.Marshal(spec)
	return string(byt)
}

// ProgramHash identifies the program a selection builds, brightness aside
func (sel *Selection) ProgramHash() []byte {
	return structhash.Md5(fingerprint{Program: sel.Program.encoded(), Seed: sel.Seed}, 1)
}

// Hash identifies the whole selection
func (sel *Selection) Hash() []byte {
	return structhash.Md5(fingerprint{Program: sel.Program.encoded(), Seed: sel.Seed, Brightness: sel.Brightness}, 1)
}

// Level returns the brightness to apply to rendered frames, in the range 0-1
func (sel *Selection) Level() float64 {
	if sel.Brightness <= 0 || math.IsNaN(sel.Brightness) {
		return 1
	}
	return math.Min(sel.Brightness, 1)
}

// ParseSelection decodes a selection, JSON when the content type says so and
// YAML otherwise
func ParseSelection(data []byte, contentType string) (sel *Selection, err errors.Error) {
	sel = &Selection{}
	if strings.Contains(strings.ToLower(contentType), "json") {
		if errGo := json.Unmarshal(data, sel); errGo != nil {
			return nil, errors.Wrap(errGo).With("contentType", contentType).With("stack", stack.Trace().TrimRuntime())
		}
	} else {
		if errGo := yaml.Unmarshal(data, sel); errGo != nil {
			return nil, errors.Wrap(errGo).With("contentType", contentType).With("stack", stack.Trace().TrimRuntime())
		}
	}
	if len(sel.Program.Kind) == 0 {
		return nil, errors.New("selection has no program kind").With("stack", stack.Trace().TrimRuntime())
	}
	return sel, nil
}

// LoadSelection reads a YAML selection from a file
func LoadSelection(fn string) (sel *Selection, err errors.Error) {
	data, errGo := ioutil.ReadFile(fn)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if sel, err = ParseSelection(data, "application/yaml"); err != nil {
		return nil, err.With("file", fn)
	}
	return sel, nil
}

func (c ColorSpec) sat() uint8 {
	if c.Sat == nil {
		return 255
	}
	return *c.Sat
}

// HueSat returns the colour as a position on the 16 bit colour wheel and a
// saturation. Hex colours are converted through their HSV representation
func (c ColorSpec) HueSat() (hue uint16, sat uint8, err errors.Error) {
	if len(c.Hex) == 0 {
		return c.Hue, c.sat(), nil
	}
	col, errGo := colorful.Hex(c.Hex)
	if errGo != nil {
		return 0, 0, errors.Wrap(errGo).With("hex", c.Hex).With("stack", stack.Trace().TrimRuntime())
	}
	h, s, _ := col.Hsv()
	return colors.Phase(h / 360), colors.Clamp(math.Round(s * 255)), nil
}

// RGB returns the colour at full value
func (c ColorSpec) RGB() (rgb colors.RGB, err errors.Error) {
	if len(c.Hex) == 0 {
		return colors.HSV(c.Hue, c.sat(), 255), nil
	}
	col, errGo := colorful.Hex(c.Hex)
	if errGo != nil {
		return colors.Black, errors.Wrap(errGo).With("hex", c.Hex).With("stack", stack.Trace().TrimRuntime())
	}
	r, g, b := col.RGB255()
	return colors.RGB{R: r, G: g, B: b}, nil
}
