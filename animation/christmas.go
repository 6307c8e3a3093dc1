package animation

// The christmas tree show is a fixed script. It runs for showLength seconds and
// then starts over, stepping through a list of phases that each decide how
// bright the blue/green and the red/yellow halves of the tree are.

import (
	"math"

	"github.com/Axil12/ws2812b-christmas-strip/colors"
)

const (
	showLength = 244.0

	// Hues of the four light colours. The strip these were chosen for is wired
	// GRB, which is why green sits at 0 and red at a third of the wheel
	blueHue   = 43690
	greenHue  = 0
	redHue    = 21845
	yellowHue = 19500
)

// showPhase is one entry in the show script, active from the end of the
// previous phase up to, but excluding, end. Formulas are fed the raw time
// rather than the time within the show
type showPhase struct {
	name string
	end  float64
	eval func(t float64) (bg, ry float64)
}

var christmasShow = []showPhase{
	{"breathing blink", 90, breathingBlink},
	{"alternate 4s", 120, alternate(4)},
	{"alternate 2s", 140, alternate(2)},
	{"alternate 1s", 150, alternate(1)},
	{"alternate 0.5s", 155, alternate(0.5)},
	{"blue green flicker", 156, blueGreenFlicker},
	{"red yellow flicker", 157, redYellowFlicker},
	{"alternate 0.5s reprise", 162, alternate(0.5)},
	{"blue green flicker reprise", 163, blueGreenFlicker},
	{"red yellow flicker reprise", 164, redYellowFlicker},
	{"breathing", 194, breathing},
	{"finale", showLength, finale},
}

// envelope swells from dark to full and back over 15 seconds
func envelope(t float64) float64 {
	return 0.5 * (1 + math.Sin(2*t*math.Pi/15-math.Pi/2))
}

// breathingBlink breathes both halves, handing the light between them on
// alternate 15 second breaths
func breathingBlink(t float64) (bg, ry float64) {
	env := envelope(t)
	gate := colors.SquareWave(2*t*math.Pi/15, 4*math.Pi)
	return env * gate, env * (1 - gate)
}

// alternate flashes the two halves in anti-phase
func alternate(period float64) func(float64) (float64, float64) {
	return func(t float64) (bg, ry float64) {
		return colors.SquareWave(t, period), colors.SquareWave(t+period/2, period)
	}
}

func blueGreenFlicker(t float64) (bg, ry float64) {
	return colors.SquareWave(t, 0.25), 0
}

func redYellowFlicker(t float64) (bg, ry float64) {
	return 0, colors.SquareWave(t, 0.25)
}

func breathing(t float64) (bg, ry float64) {
	env := envelope(t)
	return env, env
}

func finale(float64) (bg, ry float64) {
	return 1, 1
}

// ChristmasTree plays the christmas light show. Pixels are coloured blue,
// yellow, green and red in turn along the strip. The script is timed in
// seconds and takes no parameters
type ChristmasTree struct{}

// NewChristmasTree creates a ChristmasTree program
func NewChristmasTree() *ChristmasTree {
	return &ChristmasTree{}
}

// showPhaseAt returns the phase of the script active at time t
func showPhaseAt(t float64) showPhase {
	pos := math.Mod(t, showLength)
	if pos < 0 {
		pos += showLength
	}
	for _, phase := range christmasShow {
		if pos < phase.end {
			return phase
		}
	}
	return christmasShow[len(christmasShow)-1]
}

// Intensities returns the brightness, 0-1, of the blue/green and red/yellow
// lights at time t
func (p *ChristmasTree) Intensities(t float64) (bg, ry float64) {
	return showPhaseAt(t).eval(t)
}

// Render implements Program
func (p *ChristmasTree) Render(s Strip, t float64) {
	bg, ry := p.Intensities(t)
	bgVal := colors.Clamp(255 * bg)
	ryVal := colors.Clamp(255 * ry)

	for x := 0; x < s.NumPixels(); x++ {
		switch x % 4 {
		case 0:
			s.SetPixel(x, colors.HSV(blueHue, 255, bgVal))
		case 1:
			s.SetPixel(x, colors.HSV(yellowHue, 255, ryVal))
		case 2:
			s.SetPixel(x, colors.HSV(greenHue, 255, bgVal))
		case 3:
			s.SetPixel(x, colors.HSV(redHue, 255, ryVal))
		}
	}
}
