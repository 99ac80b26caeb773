package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"mathcaptcha/captcha"
)

var (
	fontOnce sync.Once
	fontErr  error
	fonts    map[string]*truetype.Font
)

func loadFonts() {
	byStyle := map[string][]byte{
		captcha.FontRegular:    goregular.TTF,
		captcha.FontBold:       gobold.TTF,
		captcha.FontItalic:     goitalic.TTF,
		captcha.FontBoldItalic: gobolditalic.TTF,
	}
	fonts = make(map[string]*truetype.Font, len(byStyle))
	for style, ttf := range byStyle {
		f, err := truetype.Parse(ttf)
		if err != nil {
			fontErr = fmt.Errorf("parse embedded %s font: %w", style, err)
			return
		}
		fonts[style] = f
	}
}

// faceFor returns a font face for the requested style at the given
// size. An unrecognized style falls back to the regular face; the only
// error is a broken embedded font, which is an implementer fault.
func faceFor(style string, size float64) (font.Face, error) {
	fontOnce.Do(loadFonts)
	if fontErr != nil {
		return nil, fontErr
	}
	f, ok := fonts[style]
	if !ok {
		f = fonts[captcha.FontRegular]
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
