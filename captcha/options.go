package captcha

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Font styles understood by the renderer. An unknown style falls back
// to FontRegular rather than failing.
const (
	FontRegular    = "regular"
	FontBold       = "bold"
	FontItalic     = "italic"
	FontBoldItalic = "bolditalic"
)

// Output encodings.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// Options are the recognized tunables for challenge generation.
// Operand ranges are half-open: a value is drawn from [Min, Max).
type Options struct {
	Width  int `mapstructure:"width" validate:"gt=0"`
	Height int `mapstructure:"height" validate:"gt=0"`

	Number1MinValue int `mapstructure:"number1_min_value"`
	Number1MaxValue int `mapstructure:"number1_max_value" validate:"gtfield=Number1MinValue"`
	Number2MinValue int `mapstructure:"number2_min_value"`
	Number2MaxValue int `mapstructure:"number2_max_value" validate:"gtfield=Number2MinValue"`

	FontSize  float64 `mapstructure:"font_size" validate:"gt=0"`
	FontStyle string  `mapstructure:"font_style"`

	// TextColors are the hex colors glyphs and noise lines are sampled from.
	TextColors []string `mapstructure:"text_colors" validate:"min=1,dive,hexcolor"`

	// DrawLines is the number of decorative noise lines.
	DrawLines int `mapstructure:"draw_lines" validate:"gte=0"`
	// NoiseRate is the number of speckle dots.
	NoiseRate int `mapstructure:"noise_rate" validate:"gte=0"`
	// NoiseColors are the hex colors speckle dots are sampled from.
	NoiseColors []string `mapstructure:"noise_colors" validate:"min=1,dive,hexcolor"`

	MinLineThickness float64 `mapstructure:"min_line_thickness" validate:"gt=0"`
	MaxLineThickness float64 `mapstructure:"max_line_thickness" validate:"gtefield=MinLineThickness"`

	MaxRotationDegrees float64 `mapstructure:"max_rotation_degrees" validate:"gte=0"`

	DurationOfValidity time.Duration `mapstructure:"duration_of_validity" validate:"gt=0"`

	Format string `mapstructure:"format" validate:"oneof=png jpeg"`

	// DeleteOnSuccess removes the stored challenge after a successful
	// validation. Off by default: the same identifier/answer pair stays
	// valid for repeat validation until the TTL elapses.
	DeleteOnSuccess bool `mapstructure:"delete_on_success"`
}

var validate = validator.New()

// DefaultOptions returns the default tunables. Callers that want
// different behavior modify a copy; there is no mutable global state.
func DefaultOptions() Options {
	return Options{
		Width:              220,
		Height:             80,
		Number1MinValue:    1,
		Number1MaxValue:    50,
		Number2MinValue:    1,
		Number2MaxValue:    50,
		FontSize:           40,
		FontStyle:          FontBold,
		TextColors:         []string{"#2c3e50", "#8e44ad", "#2980b9", "#c0392b", "#16a085"},
		DrawLines:          6,
		NoiseRate:          120,
		NoiseColors:        []string{"#7f8c8d", "#95a5a6", "#b2bec3"},
		MinLineThickness:   1,
		MaxLineThickness:   2.5,
		MaxRotationDegrees: 8,
		DurationOfValidity: 5 * time.Minute,
		Format:             FormatPNG,
	}
}

// Validate rejects degenerate configurations eagerly so a random draw
// can never be asked for an empty range.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("captcha options: %w", err)
	}
	return nil
}
