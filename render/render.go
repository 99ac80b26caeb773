// Package render draws the distorted captcha image: jittered glyph
// layout, whole-canvas rotation, noise lines and speckle dots, then a
// normalizing resize and encode.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"mathcaptcha/captcha"
)

const (
	// Horizontal jitter of the first glyph.
	minStartX = 5
	maxStartX = 10
	// Per-glyph baseline wobble below the vertical midline.
	minGlyphDrop = 6
	maxGlyphDrop = 13
	// Extra width on the composition surface beyond the measured text.
	compositionMargin = 30
	// Glyphs are composited at partial opacity so noise lines stay
	// visible through them.
	glyphAlpha = 0xcc

	jpegQuality = 90
)

// The composition background is sampled from a few light tones so
// outputs are not uniformly colored.
var backgroundTones = []string{"#f5f5f0", "#f0f4f7", "#f7f2ea", "#eef1ec"}

// Renderer implements captcha.Renderer using the gg drawing context
// and the embedded Go fonts. The zero value is ready to use; every
// Render call seeds its own random source.
type Renderer struct{}

// New returns a ready Renderer.
func New() *Renderer { return &Renderer{} }

var _ captcha.Renderer = (*Renderer)(nil)

// Render draws text as a distorted raster and returns the encoded
// bytes. Output dimensions are always exactly opts.Width x opts.Height
// regardless of text length.
func (Renderer) Render(text string, opts captcha.Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	face, err := faceFor(opts.FontStyle, opts.FontSize)
	if err != nil {
		return nil, err
	}

	// 1-3) transparent glyph canvas with jittered per-glyph layout.
	glyphs := gg.NewContext(opts.Width, opts.Height)
	glyphs.SetFontFace(face)
	textWidth := layoutGlyphs(glyphs, text, opts, rnd)

	// 4) one rotation of the whole glyph canvas about a random pivot.
	rotated := rotateCanvas(glyphs.Image(), opts, rnd)

	// 5) wider opaque composition surface sized to the measured text.
	compWidth := int(textWidth) + compositionMargin
	if compWidth < opts.Width {
		compWidth = opts.Width
	}
	comp := gg.NewContext(compWidth, opts.Height)
	comp.SetHexColor(backgroundTones[rnd.Intn(len(backgroundTones))])
	comp.Clear()

	// 6) noise lines under the glyphs.
	drawSegments(comp, opts.DrawLines, rnd.Int63(), segmentParams{
		maxX: float64(compWidth), maxY: float64(opts.Height),
		minThickness: opts.MinLineThickness, maxThickness: opts.MaxLineThickness,
		colors: opts.TextColors,
	})

	// 7) glyphs at partial opacity so the lines show through.
	compositeGlyphs(comp, rotated)

	// 8) speckle dots over everything.
	drawSegments(comp, opts.NoiseRate, rnd.Int63(), segmentParams{
		maxX: float64(compWidth), maxY: float64(opts.Height),
		minThickness: 0.5, maxThickness: 1.5,
		colors: opts.NoiseColors,
		maxLen: 1.5,
	})

	// 9-10) normalize dimensions and encode.
	out := resizeTo(comp.Image(), opts.Width, opts.Height)
	return encode(out, opts.Format)
}

// layoutGlyphs draws text glyph by glyph with an independently sampled
// color and baseline wobble per glyph, advancing by each glyph's
// measured width. It returns the total advance including the leading
// jitter.
func layoutGlyphs(dc *gg.Context, text string, opts captcha.Options, rnd *rand.Rand) float64 {
	x := uniform(rnd, minStartX, maxStartX)
	base := float64(opts.Height) / 2
	for _, r := range text {
		s := string(r)
		w, _ := dc.MeasureString(s)
		y := clamp(base+uniform(rnd, minGlyphDrop, maxGlyphDrop), 0, float64(opts.Height))
		dc.SetHexColor(opts.TextColors[rnd.Intn(len(opts.TextColors))])
		dc.DrawString(s, clamp(x, 0, float64(opts.Width)), y)
		x += w
	}
	return x
}

// rotateCanvas rotates the whole glyph canvas by a random angle in
// [0, MaxRotationDegrees) about a random pivot inside the canvas.
func rotateCanvas(src image.Image, opts captcha.Options, rnd *rand.Rand) image.Image {
	if opts.MaxRotationDegrees <= 0 {
		return src
	}
	angle := rnd.Float64() * opts.MaxRotationDegrees
	pivotX := rnd.Float64() * float64(opts.Width)
	pivotY := rnd.Float64() * float64(opts.Height)

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.RotateAbout(gg.Radians(angle), pivotX, pivotY)
	dc.DrawImage(src, 0, 0)
	return dc.Image()
}

type segmentParams struct {
	maxX, maxY   float64
	minThickness float64
	maxThickness float64
	colors       []string
	// maxLen bounds segment length; zero means endpoints are drawn
	// anywhere on the surface (full noise lines).
	maxLen float64
}

// drawSegments draws count random line segments. Parameter computation
// runs concurrently with an independently seeded source per segment;
// writes to the shared canvas are serialized behind a mutex because the
// drawing context is not safe for concurrent use.
func drawSegments(dc *gg.Context, count int, seed int64, p segmentParams) {
	if count <= 0 {
		return
	}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))

			x1 := rnd.Float64() * p.maxX
			y1 := rnd.Float64() * p.maxY
			var x2, y2 float64
			if p.maxLen > 0 {
				x2 = clamp(x1+uniform(rnd, -p.maxLen, p.maxLen), 0, p.maxX)
				y2 = clamp(y1+uniform(rnd, -p.maxLen, p.maxLen), 0, p.maxY)
			} else {
				x2 = rnd.Float64() * p.maxX
				y2 = rnd.Float64() * p.maxY
			}
			thickness := uniform(rnd, p.minThickness, p.maxThickness)
			hex := p.colors[rnd.Intn(len(p.colors))]

			mu.Lock()
			dc.SetHexColor(hex)
			dc.SetLineWidth(thickness)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
			mu.Unlock()
		}(seed + int64(i))
	}
	wg.Wait()
}

// compositeGlyphs blends the rotated glyph canvas onto the composition
// surface through a uniform alpha mask.
func compositeGlyphs(dc *gg.Context, glyphs image.Image) {
	dst, ok := dc.Image().(*image.RGBA)
	if !ok {
		dc.DrawImage(glyphs, 0, 0)
		return
	}
	mask := image.NewUniform(color.Alpha{A: glyphAlpha})
	draw.DrawMask(dst, glyphs.Bounds(), glyphs, image.Point{}, mask, image.Point{}, draw.Over)
}

// resizeTo scales the composition surface to exactly w x h, so output
// dimensions do not depend on text length.
func resizeTo(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case captcha.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case captcha.FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return buf.Bytes(), nil
}

func uniform(rnd *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rnd.Float64()*(max-min)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
