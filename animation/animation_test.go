package animation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Axil12/ws2812b-christmas-strip/colors"
	"github.com/Axil12/ws2812b-christmas-strip/noise"
	"github.com/Axil12/ws2812b-christmas-strip/strip"
)

// seqRand replays a fixed list of values, each reduced modulo n
type seqRand struct {
	vals []int
	pos  int
}

func (r *seqRand) Intn(n int) int {
	v := r.vals[r.pos%len(r.vals)]
	r.pos++
	return v % n
}

func constNoise(v float64) noise.Source {
	return noise.Func(func(x, y float64) float64 { return v })
}

func assertPixel(t *testing.T, buf *strip.Buffer, idx int, want colors.RGB) {
	t.Helper()
	if got := buf.Pixel(idx); got != want {
		t.Errorf("pixel %d = %v, want %v", idx, got, want)
	}
}

func TestProgramsImplementProgram(t *testing.T) {
	var _ []Program = []Program{
		&Static{}, &Spectral{}, &RainbowWave{}, &RandomStars{}, &DiffuseSparkling{},
		&ChristmasTree{}, &BiColorPerlin{}, &TriColorPerlin{}, &RainbowTwinkle{}, &Comets{},
	}
}

func TestStatic(t *testing.T) {
	red := colors.FromPacked(0xff0000)
	p := NewStatic(red)
	buf := strip.NewBuffer(12)
	for _, tm := range []float64{0, 0.5, 17, 1e6} {
		p.Render(buf, tm)
		for i := 0; i < buf.NumPixels(); i++ {
			if got := buf.Packed888(i); got != 0xff0000 {
				t.Fatalf("t=%v pixel %d = %#06x, want 0xff0000", tm, i, got)
			}
		}
	}
}

func TestSpectral(t *testing.T) {
	buf := strip.NewBuffer(4)
	p := NewSpectral(1)

	p.Render(buf, 0)
	for i := 0; i < 4; i++ {
		assertPixel(t, buf, i, colors.RGB{R: 255})
	}

	p.Render(buf, 2.5)
	for i := 0; i < 4; i++ {
		assertPixel(t, buf, i, colors.HSV(32768, 255, 255))
	}

	// a static display at speed 0 never leaves red
	NewSpectral(0).Render(buf, 1234.5)
	assertPixel(t, buf, 3, colors.RGB{R: 255})
}

func TestRainbowWave(t *testing.T) {
	buf := strip.NewBuffer(10)
	p := NewRainbowWave(1, 1)

	p.Render(buf, 0)
	assertPixel(t, buf, 9, colors.HSV(0, 255, 255))
	assertPixel(t, buf, 0, colors.HSV(colors.Phase(9.0/10.0), 255, 255))

	p.Render(buf, 0.5)
	assertPixel(t, buf, 9, colors.HSV(32768, 255, 255))

	// two waves repeat half way along the strip
	NewRainbowWave(0, 2).Render(buf, 0)
	assertPixel(t, buf, 4, buf.Pixel(9))
}

func TestRandomStarsLifecycle(t *testing.T) {
	// every draw is 0, so each attempt succeeds and always picks pixel 0
	p := NewRandomStars(100, 0, 255, 5, &seqRand{vals: []int{0}})
	buf := strip.NewBuffer(5)

	want := []struct {
		state     StarState
		intensity float64
	}{
		{Rising, 100},
		{Rising, 200},
		{Rising, 255},
		{Falling, 255},
		{Falling, 155},
		{Falling, 55},
		{Falling, 0},
		{Inactive, 0},
		{Rising, 100}, // picked again straight away
	}
	for frame, w := range want {
		p.Render(buf, float64(frame))
		state, intensity := p.State(0)
		if state != w.state || intensity != w.intensity {
			t.Fatalf("frame %d: state %d intensity %v, want %d %v", frame, state, intensity, w.state, w.intensity)
		}
		assertPixel(t, buf, 0, colors.HSV(0, 255, uint8(w.intensity)))
		for i := 1; i < 5; i++ {
			assertPixel(t, buf, i, colors.Black)
		}
	}
}

func TestRandomStarsProbability(t *testing.T) {
	buf := strip.NewBuffer(8)

	never := NewRandomStars(10, 0, 255, 8, rand.New(rand.NewSource(1)))
	never.Probability = 0
	for frame := 0; frame < 200; frame++ {
		never.Render(buf, 0)
	}
	for i := 0; i < 8; i++ {
		if state, _ := never.State(i); state != Inactive {
			t.Errorf("pixel %d lit with a zero probability", i)
		}
	}

	always := NewRandomStars(10, 0, 255, 8, &seqRand{vals: []int{99, 5}})
	always.Probability = 150
	always.Attempts = 1
	always.Render(buf, 0)
	if state, _ := always.State(5); state != Rising {
		t.Errorf("pixel 5 state %d, a probability over 100 should always trigger", state)
	}
}

// checkStarInvariants runs a star field for many frames and checks every
// pixel follows inactive -> rising -> falling -> inactive with intensities
// moving monotonically and staying in range
func checkStarInvariants(t *testing.T, p Program, field *starField, leds int) {
	t.Helper()
	buf := strip.NewBuffer(leds)
	prevState := make([]StarState, leds)
	prevIntensity := make([]float64, leds)

	for frame := 0; frame < 3000; frame++ {
		p.Render(buf, float64(frame)/60)
		for x := 0; x < leds; x++ {
			state, intensity := field.State(x)
			if intensity < 0 || intensity > 255 {
				t.Fatalf("frame %d pixel %d intensity %v out of range", frame, x, intensity)
			}
			from := prevState[x]
			switch {
			case from == Inactive && state == Falling:
				t.Fatalf("frame %d pixel %d skipped the rising phase", frame, x)
			case from == Rising && state == Inactive:
				t.Fatalf("frame %d pixel %d went dark while rising", frame, x)
			case from == Falling && state == Rising:
				t.Fatalf("frame %d pixel %d rose again before going dark", frame, x)
			case from == Rising && state == Falling && prevIntensity[x] != 255:
				t.Fatalf("frame %d pixel %d started falling at %v", frame, x, prevIntensity[x])
			case from == Falling && state == Inactive && prevIntensity[x] != 0:
				t.Fatalf("frame %d pixel %d went dark at %v", frame, x, prevIntensity[x])
			case from == Rising && state == Rising && intensity < prevIntensity[x]:
				t.Fatalf("frame %d pixel %d dimmed while rising", frame, x)
			case from == Falling && state == Falling && intensity > prevIntensity[x]:
				t.Fatalf("frame %d pixel %d brightened while falling", frame, x)
			}
			prevState[x] = state
			prevIntensity[x] = intensity
		}
	}
}

func TestRandomStarsInvariants(t *testing.T) {
	p := NewRandomStars(7.3, 1000, 200, 40, rand.New(rand.NewSource(99)))
	p.Probability = 60
	checkStarInvariants(t, p, &p.starField, 40)
}

func TestRainbowTwinkleInvariants(t *testing.T) {
	p := NewRainbowTwinkle(11, 25, rand.New(rand.NewSource(3)))
	checkStarInvariants(t, p, &p.starField, 25)
}

func TestRainbowTwinkleRandomHue(t *testing.T) {
	p := NewRainbowTwinkle(255, 5, &seqRand{vals: []int{0, 3, 40000}})
	p.Attempts = 1
	buf := strip.NewBuffer(5)
	p.Render(buf, 0)

	assertPixel(t, buf, 3, colors.HSV(40000, 255, 255))
	assertPixel(t, buf, 0, colors.Black)
}

func TestStarsHandleLongerStrip(t *testing.T) {
	p := NewRandomStars(255, 0, 255, 2, &seqRand{vals: []int{0}})
	buf := strip.NewBuffer(6)
	p.Render(buf, 0)
	assertPixel(t, buf, 0, colors.RGB{R: 255})
	assertPixel(t, buf, 5, colors.Black)

	empty := NewRandomStars(1, 0, 255, 0, &seqRand{vals: []int{0}})
	empty.Render(buf, 0)
}

func TestDiffuseSparkling(t *testing.T) {
	buf := strip.NewBuffer(3)

	NewDiffuseSparkling(1, 10, 5000, 255, constNoise(1)).Render(buf, 0)
	assertPixel(t, buf, 1, colors.HSV(5000, 255, 255))

	// fully negative noise is held at the floor instead of going dark
	NewDiffuseSparkling(1, 10, 5000, 255, constNoise(-1)).Render(buf, 0)
	assertPixel(t, buf, 1, colors.HSV(5000, 255, 6))

	var xs, ys []float64
	rec := noise.Func(func(x, y float64) float64 {
		xs = append(xs, x)
		ys = append(ys, y)
		return 0
	})
	NewDiffuseSparkling(0.5, 4, 0, 0, rec).Render(buf, 3)
	if len(xs) != 3 || xs[2] != 0.5 || ys[2] != 1.5 {
		t.Errorf("noise sampled at x=%v y=%v", xs, ys)
	}
	// 0.5 squared
	assertPixel(t, buf, 0, colors.HSV(0, 0, 63))
}

func TestBiColorPerlin(t *testing.T) {
	buf := strip.NewBuffer(2)
	tests := []struct {
		name  string
		noise float64
		want  colors.RGB
	}{
		{"zero falls to the second colour", 0, colors.HSV(40000, 128, 0)},
		{"positive", 0.5, colors.HSV(10000, 255, 127)},
		{"negative", -1, colors.HSV(40000, 128, 255)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBiColorPerlin(1, 10, 10000, 40000, 255, 128, constNoise(tt.noise))
			p.Render(buf, 12)
			assertPixel(t, buf, 0, tt.want)
			assertPixel(t, buf, 1, tt.want)
		})
	}
}

func TestTriColorPerlin(t *testing.T) {
	c1 := colors.HSV(0, 255, 255)
	c2 := colors.HSV(21845, 0, 255)
	c3 := colors.HSV(43690, 255, 255)
	buf := strip.NewBuffer(1)

	tests := []struct {
		name  string
		noise float64
		want  colors.RGB
	}{
		{"neutral", 0, c2},
		{"saturates towards the first colour", 0.8, c1},
		{"full negative", -1, c3},
		{"part way negative", -0.5, colors.Interpolate(c2, c3, 0.75)},
		{"part way positive", 0.2, colors.Interpolate(c2, c1, 1.5*0.2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewTriColorPerlin(1, 10, 0, 21845, 43690, 255, 0, 255, constNoise(tt.noise))
			p.Render(buf, 0)
			assertPixel(t, buf, 0, tt.want)
		})
	}
}

func TestNoiseScaleDefault(t *testing.T) {
	p := NewBiColorPerlin(1, 0, 0, 0, 255, 255, constNoise(0))
	if p.Scale != DefaultNoiseScale {
		t.Errorf("Scale = %v, want the default", p.Scale)
	}
}

func TestChristmasTreeShow(t *testing.T) {
	p := NewChristmasTree()
	tests := []struct {
		name   string
		t      float64
		bg, ry float64
	}{
		{"starts dark", 0, 0, 0},
		{"finale", 230, 1, 1},
		{"finale next cycle", 244 + 230, 1, 1},
		{"alternate 4s", 95, 0, 1},
		{"alternate 2s", 120.5, 1, 0},
		{"alternate 1s", 140.75, 0, 1},
		{"alternate 0.5s", 150.1, 1, 0},
		{"blue green flicker", 155.1, 1, 0},
		{"red yellow flicker", 156.1, 0, 1},
		{"alternate 0.5s reprise", 160.3, 0, 1},
		{"blue green flicker reprise", 162.05, 1, 0},
		{"red yellow flicker reprise", 163.2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg, ry := p.Intensities(tt.t)
			if math.Abs(bg-tt.bg) > 1e-9 || math.Abs(ry-tt.ry) > 1e-9 {
				t.Errorf("Intensities(%v) = %v, %v, want %v, %v", tt.t, bg, ry, tt.bg, tt.ry)
			}
		})
	}
}

func TestChristmasTreeBreathing(t *testing.T) {
	p := NewChristmasTree()
	for _, tm := range []float64{165, 172.5, 180, 193.9} {
		bg, ry := p.Intensities(tm)
		if bg != ry || bg != envelope(tm) {
			t.Errorf("t=%v breathing gave %v, %v", tm, bg, ry)
		}
	}

	// in the opening phase only one half is lit at a time
	for tm := 0.0; tm < 90; tm += 0.7 {
		bg, ry := p.Intensities(tm)
		if bg != 0 && ry != 0 {
			t.Fatalf("t=%v both halves lit in the opening phase", tm)
		}
	}
	if bg, _ := p.Intensities(7.5); math.Abs(bg-1) > 1e-9 {
		t.Errorf("first breath peak = %v, want 1", bg)
	}
	if bg, ry := p.Intensities(22.5); math.Abs(ry-1) > 1e-9 || bg != 0 {
		t.Errorf("second breath peak = %v, %v, want only red/yellow lit", bg, ry)
	}
}

func TestChristmasShowTable(t *testing.T) {
	prev := 0.0
	for _, phase := range christmasShow {
		if phase.end <= prev {
			t.Errorf("phase %q ends at %v, not after %v", phase.name, phase.end, prev)
		}
		prev = phase.end
	}
	if prev != showLength {
		t.Errorf("show ends at %v, want %v", prev, showLength)
	}
	if got := showPhaseAt(-14).name; got != "finale" {
		t.Errorf("negative time wrapped into %q", got)
	}
}

func TestChristmasTreeRender(t *testing.T) {
	buf := strip.NewBuffer(9)
	NewChristmasTree().Render(buf, 230)
	assertPixel(t, buf, 0, colors.HSV(blueHue, 255, 255))
	assertPixel(t, buf, 1, colors.HSV(yellowHue, 255, 255))
	assertPixel(t, buf, 2, colors.HSV(greenHue, 255, 255))
	assertPixel(t, buf, 3, colors.HSV(redHue, 255, 255))
	assertPixel(t, buf, 8, colors.HSV(blueHue, 255, 255))

	NewChristmasTree().Render(buf, 0)
	for i := 0; i < 9; i++ {
		assertPixel(t, buf, i, colors.Black)
	}
}

func TestCometsBounce(t *testing.T) {
	const leds = 30
	p := NewComets(1.7, 0, leds, 0)
	buf := strip.NewBuffer(leds)

	if len(p.comets) != DefaultComets {
		t.Fatalf("%d comets, want %d", len(p.comets), DefaultComets)
	}

	prevDir := make([]float64, len(p.comets))
	for i := range p.comets {
		_, prevDir[i] = p.Comet(i)
	}
	bounces := 0
	for frame := 0; frame < 1000; frame++ {
		p.Render(buf, 0)
		for i := range p.comets {
			pos, dir := p.Comet(i)
			if pos < 0 || pos > leds-1 {
				t.Fatalf("frame %d comet %d at %v, off the strip", frame, i, pos)
			}
			if dir != prevDir[i] {
				bounces++
				if pos != 0 && pos != leds-1 {
					t.Fatalf("frame %d comet %d turned round at %v", frame, i, pos)
				}
			}
			prevDir[i] = dir
		}
	}
	if bounces == 0 {
		t.Error("no comet ever bounced")
	}
}

func TestCometsReverseSpeed(t *testing.T) {
	p := NewComets(-2, 1, 10, 0)
	buf := strip.NewBuffer(10)
	for frame := 0; frame < 50; frame++ {
		p.Render(buf, 0)
		if pos, _ := p.Comet(0); pos < 0 || pos > 9 {
			t.Fatalf("frame %d comet at %v", frame, pos)
		}
	}
}

func TestCometsTrailFades(t *testing.T) {
	p := NewComets(10, 1, 40, 0)
	buf := strip.NewBuffer(40)
	head := colors.HSV(0, 255, 255)

	p.Render(buf, 0)
	for i := 6; i <= 10; i++ {
		assertPixel(t, buf, i, head)
	}
	assertPixel(t, buf, 5, colors.Black)

	p.Render(buf, 0)
	for i := 16; i <= 20; i++ {
		assertPixel(t, buf, i, head)
	}
	for i := 6; i <= 10; i++ {
		assertPixel(t, buf, i, colors.Fade(head, DefaultCometFade))
	}
}

func TestCometsHeadKeepsSizeThroughBounce(t *testing.T) {
	const leds = 10
	p := NewComets(1, 1, leds, 0)
	buf := strip.NewBuffer(leds)
	head := colors.HSV(0, 255, 255)

	for frame := 1; frame <= 40; frame++ {
		p.Render(buf, 0)
		lit := 0
		for i := 0; i < leds; i++ {
			if buf.Pixel(i) == head {
				lit++
			}
		}
		if lit != cometSizes[0] {
			pos, dir := p.Comet(0)
			t.Fatalf("frame %d (pos %v, dir %v): %d head pixels lit, want %d", frame, pos, dir, lit, cometSizes[0])
		}
	}
}

func TestCometsShortStrip(t *testing.T) {
	p := NewComets(1, 3, 10, 0)
	for i := range p.comets {
		if pos, _ := p.Comet(i); pos > 9 {
			t.Errorf("comet %d starts at %v on a 10 pixel strip", i, pos)
		}
	}
	p.Render(strip.NewBuffer(14), 0)
	NewComets(1, 3, 0, 0).Render(strip.NewBuffer(0), 0)
}
