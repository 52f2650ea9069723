package identicon

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
)

// Generator produces a small identifying image for an address seed. Images are
// returned as data URLs so callers can embed them without serving files.
type Generator interface {
	Generate(seed string) (string, error)
}

// Blocky renders 8x8 mirrored block identicons, deterministic per seed.
type Blocky struct {
	Size  int
	Scale int
}

// New returns a Blocky generator with the default 8x8 grid at scale 8.
func New() *Blocky {
	return &Blocky{Size: 8, Scale: 8}
}

// Generate renders the identicon for seed as a PNG data URL. The same seed
// always yields the same image.
func (b *Blocky) Generate(seed string) (string, error) {
	rng := newSeededRand(seed)

	fore := rng.nextColor()
	back := rng.nextColor()
	spot := rng.nextColor()

	grid := rng.pattern(b.Size)

	img := image.NewRGBA(image.Rect(0, 0, b.Size*b.Scale, b.Size*b.Scale))
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			var c color.RGBA
			switch grid[y*b.Size+x] {
			case 0:
				c = back
			case 1:
				c = fore
			default:
				c = spot
			}
			for py := 0; py < b.Scale; py++ {
				for px := 0; px < b.Scale; px++ {
					img.SetRGBA(x*b.Scale+px, y*b.Scale+py, c)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// seededRand is the xorshift generator used by the blockies scheme, seeded
// from the address string so identicons are stable across processes.
type seededRand struct {
	s [4]int32
}

func newSeededRand(seed string) *seededRand {
	r := &seededRand{}
	for i, ch := range []byte(seed) {
		r.s[i%4] = (r.s[i%4] << 5) - r.s[i%4] + int32(ch)
	}
	return r
}

func (r *seededRand) next() float64 {
	t := r.s[0] ^ (r.s[0] << 11)
	r.s[0], r.s[1], r.s[2] = r.s[1], r.s[2], r.s[3]
	r.s[3] = r.s[3] ^ (r.s[3] >> 19) ^ t ^ (t >> 8)
	return float64(uint32(r.s[3])>>0) / float64(uint32(1)<<31)
}

func (r *seededRand) nextColor() color.RGBA {
	h := r.next() * 360
	s := (r.next()*60 + 40) / 100
	l := (r.next() + r.next() + r.next() + r.next()) / 4 * 1.1 / 2
	return hslToRGB(h, s, l)
}

// pattern fills a size x size grid with cell classes 0 (background),
// 1 (foreground) or 2 (spot), mirrored across the vertical axis.
func (r *seededRand) pattern(size int) []int {
	half := size / 2
	grid := make([]int, size*size)
	for y := 0; y < size; y++ {
		row := make([]int, half)
		for x := 0; x < half; x++ {
			row[x] = int(math.Floor(r.next() * 2.3))
		}
		for x := 0; x < half; x++ {
			grid[y*size+x] = row[x]
			grid[y*size+size-1-x] = row[x]
		}
	}
	return grid
}

func hslToRGB(h, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
