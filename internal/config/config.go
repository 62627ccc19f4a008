// Package config loads caisson settings from a YAML file, the environment
// and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/caisson/pkg/collision"
	"github.com/chazu/caisson/pkg/drawing"
	"github.com/chazu/caisson/pkg/engine"
	"github.com/spf13/viper"
)

const (
	configFileName = "caisson"
	configFileType = "yaml"
	envPrefix      = "CAISSON"

	KeyLogLevel            = "log.level"
	KeyLogFormat           = "log.format"
	KeyOutputDir           = "output.dir"
	KeyOutputFormats       = "output.formats"
	KeyProjectName         = "project.name"
	KeyProjectDate         = "project.date"
	KeyCollisionMinDist    = "collision.min_distance"
	KeyCollisionZoneMargin = "collision.zone_margin"
	KeyEngineTimeout       = "engine.timeout"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Output    OutputConfig    `mapstructure:"output"`
	Drawing   drawing.Style   `mapstructure:"drawing"`
	Project   ProjectConfig   `mapstructure:"project"`
	Collision CollisionConfig `mapstructure:"collision"`
	Engine    EngineConfig    `mapstructure:"engine"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"`
}

// ProjectConfig fills title block fields the scene source leaves empty.
type ProjectConfig struct {
	Name string `mapstructure:"name"`
	Date string `mapstructure:"date"`
}

type CollisionConfig struct {
	MinDistance float64 `mapstructure:"min_distance"`
	ZoneMargin  float64 `mapstructure:"zone_margin"`
}

// EngineConfig bounds scene evaluation, e.g. timeout: 10s.
type EngineConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyOutputFormats, []string{"svg"})
	v.SetDefault(KeyProjectName, "")
	v.SetDefault(KeyProjectDate, "")

	d := collision.DefaultDetector()
	v.SetDefault(KeyCollisionMinDist, d.MinDistance)
	v.SetDefault(KeyCollisionZoneMargin, d.ZoneMargin)
	v.SetDefault(KeyEngineTimeout, engine.EvalTimeout)

	s := drawing.DefaultStyle()
	for key, val := range map[string]any{
		"margin_ratio":         s.MarginRatio,
		"margin_min":           s.MarginMin,
		"text_offset_ratio":    s.TextOffsetRatio,
		"callout_level_ratios": s.CalloutLevelRatios,
		"strip_offset_ratio":   s.StripOffsetRatio,
		"dimension_gap_ratio":  s.DimensionGapRatio,
		"overshoot_ratio":      s.OvershootRatio,
		"strip_factor":         s.StripFactor,
		"strip_min":            s.StripMin,
		"hatch_divisions":      s.HatchDivisions,
		"hatch_min":            s.HatchMin,
		"title_height_ratio":   s.TitleHeightRatio,
		"title_gap_ratio":      s.TitleGapRatio,
		"title_width_ratio":    s.TitleWidthRatio,
		"title_width_min":      s.TitleWidthMin,
		"logo_ratio":           s.LogoRatio,
		"font_ratio":           s.FontRatio,
		"callout_font_ratio":   s.CalloutFontRatio,
		"title_font_ratio":     s.TitleFontRatio,
		"padding_ratio":        s.PaddingRatio,
	} {
		v.SetDefault("drawing."+key, val)
	}
}

// Load reads the config. An explicit path must exist; without one,
// caisson.yaml is searched in the working directory and ~/.caisson, and a
// missing file leaves the defaults in place. CAISSON_* variables override
// both, e.g. CAISSON_LOG_LEVEL.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".caisson"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

// Style returns the drawing style, or an error naming the first bad field.
func (c Config) Style() (drawing.Style, error) {
	if err := c.Drawing.Validate(); err != nil {
		return drawing.Style{}, fmt.Errorf("config: %w", err)
	}
	return c.Drawing, nil
}

func (c Config) Detector() collision.Detector {
	return collision.Detector{
		MinDistance: c.Collision.MinDistance,
		ZoneMargin:  c.Collision.ZoneMargin,
	}
}
