package render

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"testing"

	"mathcaptcha/captcha"
)

func testOptions() captcha.Options {
	opts := captcha.DefaultOptions()
	opts.Width = 150
	opts.Height = 60
	opts.DrawLines = 4
	opts.NoiseRate = 40
	return opts
}

func TestRender_DimensionsIndependentOfTextLength(t *testing.T) {
	r := New()
	opts := testOptions()
	for _, text := range []string{"1+2", "99+99", "4821+9907"} {
		data, err := r.Render(text, opts)
		if err != nil {
			t.Fatalf("Render(%q): %v", text, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode %q output: %v", text, err)
		}
		b := img.Bounds()
		if b.Dx() != opts.Width || b.Dy() != opts.Height {
			t.Errorf("Render(%q) = %dx%d, want %dx%d", text, b.Dx(), b.Dy(), opts.Width, opts.Height)
		}
	}
}

func TestRender_JPEGFormat(t *testing.T) {
	opts := testOptions()
	opts.Format = captcha.FormatJPEG
	data, err := New().Render("7+3", opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != opts.Width || b.Dy() != opts.Height {
		t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), opts.Width, opts.Height)
	}
}

func TestRender_UnknownFontStyleFallsBack(t *testing.T) {
	opts := testOptions()
	opts.FontStyle = "comic-sans"
	if _, err := New().Render("7+3", opts); err != nil {
		t.Fatalf("unknown style must fall back, got %v", err)
	}
}

func TestRender_ZeroRotationAndNoNoise(t *testing.T) {
	opts := testOptions()
	opts.MaxRotationDegrees = 0
	opts.DrawLines = 0
	opts.NoiseRate = 0
	data, err := New().Render("5+5", opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRender_InvalidOptions(t *testing.T) {
	opts := testOptions()
	opts.TextColors = nil
	if _, err := New().Render("1+1", opts); err == nil {
		t.Fatal("expected error for invalid options")
	}
}

func TestRender_OutputsDiffer(t *testing.T) {
	// Randomized layout, rotation and noise should make two renders of
	// the same text differ; identical bytes would mean the per-call
	// random source is not doing its job.
	opts := testOptions()
	a, err := New().Render("12+34", opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := New().Render("12+34", opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two renders produced identical bytes")
	}
}

func TestFaceFor_Styles(t *testing.T) {
	for _, style := range []string{captcha.FontRegular, captcha.FontBold, captcha.FontItalic, captcha.FontBoldItalic, "nope"} {
		face, err := faceFor(style, 24)
		if err != nil {
			t.Fatalf("faceFor(%q): %v", style, err)
		}
		if face == nil {
			t.Fatalf("faceFor(%q) returned nil face", style)
		}
	}
}
