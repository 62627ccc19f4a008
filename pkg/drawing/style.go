package drawing

import (
	"errors"
	"fmt"
)

// Style holds the visual constants of a drawing. Most lengths are ratios
// of the drawing margin, which itself scales with the largest panel
// dimension, so small and large panels read alike at their own scale.
type Style struct {
	MarginRatio        float64   `mapstructure:"margin_ratio" json:"margin_ratio"`
	MarginMin          float64   `mapstructure:"margin_min" json:"margin_min"`
	TextOffsetRatio    float64   `mapstructure:"text_offset_ratio" json:"text_offset_ratio"`
	CalloutLevelRatios []float64 `mapstructure:"callout_level_ratios" json:"callout_level_ratios"`
	StripOffsetRatio   float64   `mapstructure:"strip_offset_ratio" json:"strip_offset_ratio"`
	DimensionGapRatio  float64   `mapstructure:"dimension_gap_ratio" json:"dimension_gap_ratio"`
	OvershootRatio     float64   `mapstructure:"overshoot_ratio" json:"overshoot_ratio"`
	StripFactor        float64   `mapstructure:"strip_factor" json:"strip_factor"`
	StripMin           float64   `mapstructure:"strip_min" json:"strip_min"`
	HatchDivisions     float64   `mapstructure:"hatch_divisions" json:"hatch_divisions"`
	HatchMin           float64   `mapstructure:"hatch_min" json:"hatch_min"`
	TitleHeightRatio   float64   `mapstructure:"title_height_ratio" json:"title_height_ratio"`
	TitleGapRatio      float64   `mapstructure:"title_gap_ratio" json:"title_gap_ratio"`
	TitleWidthRatio    float64   `mapstructure:"title_width_ratio" json:"title_width_ratio"`
	TitleWidthMin      float64   `mapstructure:"title_width_min" json:"title_width_min"`
	LogoRatio          float64   `mapstructure:"logo_ratio" json:"logo_ratio"`
	FontRatio          float64   `mapstructure:"font_ratio" json:"font_ratio"`
	CalloutFontRatio   float64   `mapstructure:"callout_font_ratio" json:"callout_font_ratio"`
	TitleFontRatio     float64   `mapstructure:"title_font_ratio" json:"title_font_ratio"`
	PaddingRatio       float64   `mapstructure:"padding_ratio" json:"padding_ratio"`
}

// DefaultStyle returns the house style.
func DefaultStyle() Style {
	return Style{
		MarginRatio:        0.25,
		MarginMin:          100,
		TextOffsetRatio:    0.05,
		CalloutLevelRatios: []float64{0.2, 0.3, 0.4},
		StripOffsetRatio:   0.5,
		DimensionGapRatio:  0.2,
		OvershootRatio:     0.1,
		StripFactor:        2,
		StripMin:           15,
		HatchDivisions:     40,
		HatchMin:           20,
		TitleHeightRatio:   0.8,
		TitleGapRatio:      0.2,
		TitleWidthRatio:    0.9,
		TitleWidthMin:      350,
		LogoRatio:          0.15,
		FontRatio:          0.08,
		CalloutFontRatio:   0.06,
		TitleFontRatio:     0.07,
		PaddingRatio:       0.1,
	}
}

var errStyle = errors.New("invalid drawing style")

// Validate reports the first field that would produce a degenerate
// drawing. Call-out levels must stay strictly inside the strip offset so
// call-outs never cross the edge strips.
func (s Style) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"margin_ratio", s.MarginRatio},
		{"margin_min", s.MarginMin},
		{"text_offset_ratio", s.TextOffsetRatio},
		{"strip_offset_ratio", s.StripOffsetRatio},
		{"dimension_gap_ratio", s.DimensionGapRatio},
		{"strip_factor", s.StripFactor},
		{"strip_min", s.StripMin},
		{"hatch_divisions", s.HatchDivisions},
		{"hatch_min", s.HatchMin},
		{"title_height_ratio", s.TitleHeightRatio},
		{"title_width_ratio", s.TitleWidthRatio},
		{"title_width_min", s.TitleWidthMin},
		{"font_ratio", s.FontRatio},
		{"callout_font_ratio", s.CalloutFontRatio},
		{"title_font_ratio", s.TitleFontRatio},
	}
	for _, f := range positive {
		if f.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", errStyle, f.name, f.v)
		}
	}
	if s.OvershootRatio < 0 || s.TitleGapRatio < 0 || s.PaddingRatio < 0 {
		return fmt.Errorf("%w: overshoot, title gap and padding ratios must not be negative", errStyle)
	}
	if s.LogoRatio < 0 || s.LogoRatio >= 1 {
		return fmt.Errorf("%w: logo_ratio must be in [0, 1), got %g", errStyle, s.LogoRatio)
	}
	if len(s.CalloutLevelRatios) == 0 {
		return fmt.Errorf("%w: at least one call-out level is required", errStyle)
	}
	for i, r := range s.CalloutLevelRatios {
		if r <= 0 || r >= s.StripOffsetRatio {
			return fmt.Errorf("%w: call-out level %d (%g) must lie between the panel and the strips", errStyle, i, r)
		}
	}
	return nil
}
