package model

import (
	"math/rand"
	"sort"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/Axil12/ws2812b-christmas-strip/animation"
	"github.com/Axil12/ws2812b-christmas-strip/noise"
)

// Program kinds understood by Build
const (
	KindStatic           = "static"
	KindSpectral         = "spectral"
	KindRainbowWave      = "rainbow-wave"
	KindRandomStars      = "random-stars"
	KindDiffuseSparkling = "diffuse-sparkling"
	KindChristmasTree    = "christmas-tree"
	KindBiColorPerlin    = "bicolor-perlin"
	KindTriColorPerlin   = "tricolor-perlin"
	KindRainbowTwinkle   = "rainbow-twinkle"
	KindComets           = "comets"
)

type builder func(spec *ProgramSpec, leds int, rnd animation.Rand, src noise.Source) (animation.Program, errors.Error)

var builders = map[string]builder{
	KindStatic: func(spec *ProgramSpec, _ int, _ animation.Rand, _ noise.Source) (animation.Program, errors.Error) {
		hues, err := spec.colorsNeeded(1)
		if err != nil {
			return nil, err
		}
		rgb, err := hues[0].RGB()
		if err != nil {
			return nil, err
		}
		return animation.NewStatic(rgb), nil
	},
	KindSpectral: func(spec *ProgramSpec, _ int, _ animation.Rand, _ noise.Source) (animation.Program, errors.Error) {
		return animation.NewSpectral(spec.Speed), nil
	},
	KindRainbowWave: func(spec *ProgramSpec, _ int, _ animation.Rand, _ noise.Source) (animation.Program, errors.Error) {
		waves := spec.Waves
		if waves == 0 {
			waves = 1
		}
		return animation.NewRainbowWave(spec.Speed, waves), nil
	},
	KindRandomStars: func(spec *ProgramSpec, leds int, rnd animation.Rand, _ noise.Source) (animation.Program, errors.Error) {
		hs, err := spec.hueSats(1)
		if err != nil {
			return nil, err
		}
		p := animation.NewRandomStars(spec.Speed, hs[0].hue, hs[0].sat, leds, rnd)
		spec.tuneStars(&p.Attempts, &p.Probability)
		return p, nil
	},
	KindDiffuseSparkling: func(spec *ProgramSpec, _ int, _ animation.Rand, src noise.Source) (animation.Program, errors.Error) {
		hs, err := spec.hueSats(1)
		if err != nil {
			return nil, err
		}
		return animation.NewDiffuseSparkling(spec.Speed, spec.Scale, hs[0].hue, hs[0].sat, src), nil
	},
	KindChristmasTree: func(_ *ProgramSpec, _ int, _ animation.Rand, _ noise.Source) (animation.Program, errors.Error) {
		return animation.NewChristmasTree(), nil
	},
	KindBiColorPerlin: func(spec *ProgramSpec, _ int, _ animation.Rand, src noise.Source) (animation.Program, errors.Error) {
		hs, err := spec.hueSats(2)
		if err != nil {
			return nil, err
		}
		return animation.NewBiColorPerlin(spec.Speed, spec.Scale, hs[0].hue, hs[1].hue, hs[0].sat, hs[1].sat, src), nil
	},
	KindTriColorPerlin: func(spec *ProgramSpec, _ int, _ animation.Rand, src noise.Source) (animation.Program, errors.Error) {
		hs, err := spec.hueSats(3)
		if err != nil {
			return nil, err
		}
		return animation.NewTriColorPerlin(spec.Speed, spec.Scale,
			hs[0].hue, hs[1].hue, hs[2].hue, hs[0].sat, hs[1].sat, hs[2].sat, src), nil
	},
	KindRainbowTwinkle: func(spec *ProgramSpec, leds int, rnd animation.Rand, _ noise.Source) (animation.Program, errors.Error) {
		p := animation.NewRainbowTwinkle(spec.Speed, leds, rnd)
		spec.tuneStars(&p.Attempts, &p.Probability)
		return p, nil
	},
	KindComets: func(spec *ProgramSpec, leds int, _ animation.Rand, _ noise.Source) (animation.Program, errors.Error) {
		hue := uint16(0)
		if len(spec.Colors) != 0 {
			h, _, err := spec.Colors[0].HueSat()
			if err != nil {
				return nil, err
			}
			hue = h
		}
		return animation.NewComets(spec.Speed, spec.Comets, leds, hue), nil
	},
}

// Kinds lists the program kinds Build accepts, sorted
func Kinds() (kinds []string) {
	kinds = make([]string, 0, len(builders))
	for kind := range builders {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Build creates the program described by spec for a strip of leds pixels. rnd
// and src may be nil, in which case the programs pick their own sources
func Build(spec *ProgramSpec, leds int, rnd animation.Rand, src noise.Source) (prog animation.Program, err errors.Error) {
	if spec == nil {
		return nil, errors.New("no program specified").With("stack", stack.Trace().TrimRuntime())
	}
	build, isPresent := builders[spec.Kind]
	if !isPresent {
		return nil, errors.New("unknown program kind").With("kind", spec.Kind).With("known", Kinds()).With("stack", stack.Trace().TrimRuntime())
	}
	if prog, err = build(spec, leds, rnd, src); err != nil {
		return nil, err.With("kind", spec.Kind)
	}
	return prog, nil
}

// Sources returns the random and noise sources for a selection seed, a zero
// seed is replaced by the current time
func Sources(seed int64) (rnd animation.Rand, src noise.Source) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), noise.New(seed)
}

// BuildSelection creates the program for a complete selection, seeding its
// sources from the selection
func BuildSelection(sel *Selection, leds int) (prog animation.Program, err errors.Error) {
	if sel == nil {
		return nil, errors.New("no selection").With("stack", stack.Trace().TrimRuntime())
	}
	rnd, src := Sources(sel.Seed)
	return Build(&sel.Program, leds, rnd, src)
}

type hueSat struct {
	hue uint16
	sat uint8
}

func (spec *ProgramSpec) colorsNeeded(n int) (cols []ColorSpec, err errors.Error) {
	if len(spec.Colors) < n {
		return nil, errors.New("too few colors for program").With("need", n).With("have", len(spec.Colors)).With("stack", stack.Trace().TrimRuntime())
	}
	return spec.Colors[:n], nil
}

func (spec *ProgramSpec) hueSats(n int) (hs []hueSat, err errors.Error) {
	cols, err := spec.colorsNeeded(n)
	if err != nil {
		return nil, err
	}
	hs = make([]hueSat, n)
	for i, col := range cols {
		if hs[i].hue, hs[i].sat, err = col.HueSat(); err != nil {
			return nil, err.With("color", i)
		}
	}
	return hs, nil
}

// tuneStars overrides the spawn defaults of the star programs with whichever
// of Attempts and Probability are set
func (spec *ProgramSpec) tuneStars(attempts *int, probability *int) {
	if spec.Attempts != nil {
		*attempts = *spec.Attempts
	}
	if spec.Probability != nil {
		*probability = *spec.Probability
	}
}
