package captcha

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultOptions_Valid(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options must validate: %v", err)
	}
}

func TestOptions_Validate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"zero height", func(o *Options) { o.Height = 0 }},
		{"operand1 max equals min", func(o *Options) { o.Number1MaxValue = o.Number1MinValue }},
		{"operand2 max below min", func(o *Options) { o.Number2MaxValue = o.Number2MinValue - 1 }},
		{"zero font size", func(o *Options) { o.FontSize = 0 }},
		{"empty text colors", func(o *Options) { o.TextColors = nil }},
		{"bad hex color", func(o *Options) { o.TextColors = []string{"blue"} }},
		{"empty noise colors", func(o *Options) { o.NoiseColors = []string{} }},
		{"negative lines", func(o *Options) { o.DrawLines = -1 }},
		{"thickness min above max", func(o *Options) { o.MinLineThickness = 3; o.MaxLineThickness = 2 }},
		{"negative rotation", func(o *Options) { o.MaxRotationDegrees = -1 }},
		{"zero ttl", func(o *Options) { o.DurationOfValidity = 0 }},
		{"negative ttl", func(o *Options) { o.DurationOfValidity = -time.Minute }},
		{"unknown format", func(o *Options) { o.Format = "bmp" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			tc.mutate(&opts)
			err := opts.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), "captcha options") {
				t.Errorf("unexpected error text: %v", err)
			}
		})
	}
}

func TestOptions_Validate_EqualThicknessAllowed(t *testing.T) {
	opts := DefaultOptions()
	opts.MinLineThickness = 2
	opts.MaxLineThickness = 2
	if err := opts.Validate(); err != nil {
		t.Fatalf("equal min/max thickness must be allowed: %v", err)
	}
}

func TestNewID_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := NewID()
		if len(id) != 32 {
			t.Fatalf("expected 32 chars, got %d (%q)", len(id), id)
		}
		if strings.ToLower(id) != id {
			t.Fatalf("identifier not lowercase: %q", id)
		}
		if strings.ContainsAny(id, "-{}") {
			t.Fatalf("identifier contains separators: %q", id)
		}
		for _, r := range id {
			if !strings.ContainsRune("0123456789abcdef", r) {
				t.Fatalf("identifier not hex: %q", id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate identifier %q", id)
		}
		seen[id] = true
	}
}
