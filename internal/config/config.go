package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/phanxgames/worldmap"
	"github.com/phanxgames/worldmap/dataset"
)

// Config holds all application configuration.
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Projector ProjectorConfig `mapstructure:"projector"`
	Viewport  ViewportConfig  `mapstructure:"viewport"`
	Input     InputConfig     `mapstructure:"input"`
	Colors    ColorsConfig    `mapstructure:"colors"`
	Window    WindowConfig    `mapstructure:"window"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

type DatasetConfig struct {
	Source  string        `mapstructure:"source"`
	Format  string        `mapstructure:"format"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ProjectorConfig struct {
	TargetWidth      float64 `mapstructure:"target_width"`
	TargetHeight     float64 `mapstructure:"target_height"`
	MinPointDistance float64 `mapstructure:"min_point_distance"`
}

type ViewportConfig struct {
	Margin         float64 `mapstructure:"margin"`
	MinZoomFactor  float64 `mapstructure:"min_zoom_factor"`
	MaxZoomFactor  float64 `mapstructure:"max_zoom_factor"`
	PanSlack       float64 `mapstructure:"pan_slack"`
	FitPadding     float64 `mapstructure:"fit_padding"`
	FitFill        float64 `mapstructure:"fit_fill"`
	ReframeSeconds float64 `mapstructure:"reframe_seconds"`
}

type InputConfig struct {
	WheelStep  float64 `mapstructure:"wheel_step"`
	WheelClamp float64 `mapstructure:"wheel_clamp"`
	ClickSlop  float64 `mapstructure:"click_slop"`
}

// ColorsConfig maps ISO3 or ISO2 codes to "#rrggbb" fills.
type ColorsConfig struct {
	Overrides map[string]string `mapstructure:"overrides"`
}

type WindowConfig struct {
	Title         string `mapstructure:"title"`
	Width         int    `mapstructure:"width"`
	Height        int    `mapstructure:"height"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

// Addr is host:port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	proj := worldmap.DefaultProjectorConfig()
	vp := worldmap.DefaultViewportConfig()
	in := worldmap.DefaultRouterConfig()

	v.SetDefault("dataset.source", dataset.DefaultSource)
	v.SetDefault("dataset.format", "auto")
	v.SetDefault("dataset.timeout", 30*time.Second)
	v.SetDefault("projector.target_width", proj.TargetWidth)
	v.SetDefault("projector.target_height", proj.TargetHeight)
	v.SetDefault("projector.min_point_distance", proj.MinPointDistance)
	v.SetDefault("viewport.margin", vp.Margin)
	v.SetDefault("viewport.min_zoom_factor", vp.MinZoomFactor)
	v.SetDefault("viewport.max_zoom_factor", vp.MaxZoomFactor)
	v.SetDefault("viewport.pan_slack", vp.PanSlack)
	v.SetDefault("viewport.fit_padding", vp.FitPadding)
	v.SetDefault("viewport.fit_fill", vp.FitFill)
	v.SetDefault("viewport.reframe_seconds", 0.0)
	v.SetDefault("input.wheel_step", in.WheelStep)
	v.SetDefault("input.wheel_clamp", in.WheelClamp)
	v.SetDefault("input.click_slop", in.ClickSlop)
	v.SetDefault("colors.overrides", map[string]string{})
	v.SetDefault("window.title", "World Explorer")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.screenshot_dir", "screenshots")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from defaults, an optional worldmap.yaml in "."
// or "./configs" (or the explicit path when non-empty), a .env file and the
// environment. WORLDMAP_SERVER_PORT overrides server.port.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("worldmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("WORLDMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Dataset.Source) == "" {
		errs = append(errs, "dataset.source is required")
	}
	if _, err := dataset.ParseFormat(c.Dataset.Format); err != nil {
		errs = append(errs, fmt.Sprintf("dataset.format: %v", err))
	}
	if c.Dataset.Timeout <= 0 {
		errs = append(errs, "dataset.timeout must be positive")
	}
	if c.Projector.TargetWidth <= 0 || c.Projector.TargetHeight <= 0 {
		errs = append(errs, "projector.target_width and target_height must be positive")
	}
	if c.Projector.MinPointDistance < 0 {
		errs = append(errs, "projector.min_point_distance must not be negative")
	}
	if c.Viewport.Margin <= 0 || c.Viewport.PanSlack <= 0 || c.Viewport.FitPadding <= 0 {
		errs = append(errs, "viewport.margin, pan_slack and fit_padding must be positive")
	}
	if c.Viewport.MinZoomFactor <= 0 {
		errs = append(errs, "viewport.min_zoom_factor must be positive")
	}
	if c.Viewport.MaxZoomFactor < c.Viewport.MinZoomFactor {
		errs = append(errs, fmt.Sprintf("viewport.max_zoom_factor must be >= min_zoom_factor, got %v", c.Viewport.MaxZoomFactor))
	}
	if c.Viewport.FitFill <= 0 || c.Viewport.FitFill > 1 {
		errs = append(errs, fmt.Sprintf("viewport.fit_fill must be in (0, 1], got %v", c.Viewport.FitFill))
	}
	if c.Viewport.ReframeSeconds < 0 {
		errs = append(errs, "viewport.reframe_seconds must not be negative")
	}
	if c.Input.WheelStep <= 0 || c.Input.WheelClamp <= 0 {
		errs = append(errs, "input.wheel_step and wheel_clamp must be positive")
	}
	if c.Input.ClickSlop < 0 {
		errs = append(errs, "input.click_slop must not be negative")
	}
	for code, hex := range c.Colors.Overrides {
		if _, err := worldmap.ParseHexColor(hex); err != nil {
			errs = append(errs, fmt.Sprintf("colors.overrides.%s: %v", code, err))
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Sprintf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// DatasetFormat returns the parsed dataset format.
func (c *Config) DatasetFormat() dataset.Format {
	f, _ := dataset.ParseFormat(c.Dataset.Format)
	return f
}

// ProjectorConfig converts the projector section.
func (c *Config) ProjectorConfig() worldmap.ProjectorConfig {
	return worldmap.ProjectorConfig{
		TargetWidth:      c.Projector.TargetWidth,
		TargetHeight:     c.Projector.TargetHeight,
		MinPointDistance: c.Projector.MinPointDistance,
	}
}

// ViewportConfig converts the viewport section.
func (c *Config) ViewportConfig() worldmap.ViewportConfig {
	vp := worldmap.DefaultViewportConfig()
	vp.Margin = c.Viewport.Margin
	vp.MinZoomFactor = c.Viewport.MinZoomFactor
	vp.MaxZoomFactor = c.Viewport.MaxZoomFactor
	vp.PanSlack = c.Viewport.PanSlack
	vp.FitPadding = c.Viewport.FitPadding
	vp.FitFill = c.Viewport.FitFill
	vp.ReframeDuration = float32(c.Viewport.ReframeSeconds)
	return vp
}

// RouterConfig converts the input section.
func (c *Config) RouterConfig() worldmap.RouterConfig {
	return worldmap.RouterConfig{
		WheelStep:  c.Input.WheelStep,
		WheelClamp: c.Input.WheelClamp,
		ClickSlop:  c.Input.ClickSlop,
	}
}

// Palette builds the country palette with the configured overrides.
func (c *Config) Palette() (*worldmap.Palette, error) {
	return worldmap.NewPalette(c.Colors.Overrides)
}
