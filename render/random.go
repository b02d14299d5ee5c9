package render

import (
	"math/rand"

	"github.com/svanichkin/mosaic/conf"
)

// Field identifies one randomizable setting.
type Field int

const (
	FieldRamp Field = iota
	FieldSampleStep
	FieldContrast
	FieldBrightness
	FieldSaturation
	FieldGrayscale
	FieldMirror
	FieldInvert
	FieldFontSize
	FieldLetterSpacing
	FieldLineHeight
	FieldFontFamily
	FieldForeground
	FieldBackground
)

// AllFields returns every randomizable field.
func AllFields() []Field {
	return []Field{
		FieldRamp, FieldSampleStep,
		FieldContrast, FieldBrightness, FieldSaturation,
		FieldGrayscale, FieldMirror, FieldInvert,
		FieldFontSize, FieldLetterSpacing, FieldLineHeight, FieldFontFamily,
		FieldForeground, FieldBackground,
	}
}

// Randomize draws an independent uniform sample for each enabled field over
// that field's domain and assigns it. Fields not enabled are left untouched.
// Drawing fontSize, letterSpacing or lineHeight counts as a manual override,
// so the returned lock delta flags those dimensions for the auto-fit sizer.
func Randomize(cfg conf.RenderConfig, fields []Field, rng *rand.Rand) (conf.RenderConfig, conf.SizeLocks) {
	var locks conf.SizeLocks
	for _, f := range fields {
		switch f {
		case FieldRamp:
			names := conf.RampPresetNames()
			cfg.GlyphRamp = conf.RampPresets[names[rng.Intn(len(names))]]
		case FieldSampleStep:
			cfg.SampleStep = conf.MinSampleStep + rng.Intn(conf.MaxSampleStep-conf.MinSampleStep+1)
		case FieldContrast:
			cfg.Color.Contrast = uniform(rng, conf.MinPercent, conf.MaxPercent)
		case FieldBrightness:
			cfg.Color.Brightness = uniform(rng, conf.MinPercent, conf.MaxPercent)
		case FieldSaturation:
			cfg.Color.Saturation = uniform(rng, conf.MinPercent, conf.MaxPercent)
		case FieldGrayscale:
			cfg.Color.Grayscale = rng.Intn(2) == 1
		case FieldMirror:
			cfg.Color.Mirror = rng.Intn(2) == 1
		case FieldInvert:
			cfg.Invert = rng.Intn(2) == 1
		case FieldFontSize:
			cfg.Geometry.FontSize = uniform(rng, conf.MinFontSize, conf.MaxFontSize)
			locks.FontSize = true
		case FieldLetterSpacing:
			cfg.Geometry.LetterSpacing = uniform(rng, conf.MinLetterSpacing, conf.MaxLetterSpacing)
			locks.LetterSpacing = true
		case FieldLineHeight:
			cfg.Geometry.LineHeight = uniform(rng, conf.MinLineHeight, conf.MaxLineHeight)
			locks.LineHeight = true
		case FieldFontFamily:
			cfg.Geometry.FontFamily = conf.FontFamilies[rng.Intn(len(conf.FontFamilies))]
		case FieldForeground:
			cfg.Foreground = randomRGB(rng)
		case FieldBackground:
			cfg.Background = randomRGB(rng)
		}
	}
	return cfg, locks
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func randomRGB(rng *rand.Rand) conf.RGB {
	return conf.RGB{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
	}
}
