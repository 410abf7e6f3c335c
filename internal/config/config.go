// Package config loads the engine configuration from the environment and an
// optional .env file in the working directory. Process variables win over
// the file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables read by Load.
const (
	EnvWindowWidth   = "JAZZ_WINDOW_WIDTH"
	EnvWindowHeight  = "JAZZ_WINDOW_HEIGHT"
	EnvValidation    = "JAZZ_VALIDATION"
	EnvShaderDir     = "JAZZ_SHADER_DIR"
	EnvShaderName    = "JAZZ_SHADER_NAME"
	EnvFlipViewportY = "JAZZ_FLIP_VIEWPORT_Y"
	EnvClearColor    = "JAZZ_CLEAR_COLOR"
	EnvLogLevel      = "JAZZ_LOG_LEVEL"
	EnvLogFormat     = "JAZZ_LOG_FORMAT"
	EnvStatsInterval = "JAZZ_STATS_INTERVAL"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Configuration defines the engine wide settings
type Configuration struct {
	Window   Window
	Renderer Renderer
	Log      Log
}

// Window is the initial size of the platform window, in screen coordinates
type Window struct {
	Width  int
	Height int
}

// Renderer configures the graphics backend
type Renderer struct {
	// Validation enables the khronos validation layer and the debug messenger
	Validation bool

	// ShaderDirectory holds <ShaderName>.vert.spv and <ShaderName>.frag.spv
	ShaderDirectory string
	ShaderName      string

	// FlipViewportY moves the viewport origin to the bottom left
	FlipViewportY bool

	ClearColor mgl32.Vec4
}

// Log configures the engine logger
type Log struct {
	Level  logrus.Level
	Format string

	// StatsInterval is how often frame statistics are logged, 0 disables them
	StatsInterval time.Duration
}

// Default returns the configuration used when no variable is set
func Default() Configuration {
	return Configuration{
		Window: Window{
			Width:  1280,
			Height: 720,
		},
		Renderer: Renderer{
			Validation:      true,
			ShaderDirectory: "shaders",
			ShaderName:      "triangle",
			ClearColor:      mgl32.Vec4{0, 0, 0, 1},
		},
		Log: Log{
			Level:         logrus.InfoLevel,
			Format:        FormatText,
			StatsInterval: 5 * time.Second,
		},
	}
}

// DotEnvFile is the file Load reads next to the process.
const DotEnvFile = ".env"

// Load reads DotEnvFile, when present, then the process environment on top of
// the defaults.
func Load() (Configuration, error) {
	return LoadFile(DotEnvFile)
}

// LoadFile is Load with an explicit .env path. The file is parsed without
// touching the process environment.
func LoadFile(path string) (Configuration, error) {
	dotenv, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Configuration{}, errors.Wrapf(err, "load %s", path)
	}

	cfg := Default()
	p := parser{dotenv: dotenv}

	cfg.Window.Width = p.positiveInt(EnvWindowWidth, cfg.Window.Width)
	cfg.Window.Height = p.positiveInt(EnvWindowHeight, cfg.Window.Height)

	cfg.Renderer.Validation = p.bool(EnvValidation, cfg.Renderer.Validation)
	cfg.Renderer.ShaderDirectory = p.string(EnvShaderDir, cfg.Renderer.ShaderDirectory)
	cfg.Renderer.ShaderName = p.string(EnvShaderName, cfg.Renderer.ShaderName)
	cfg.Renderer.FlipViewportY = p.bool(EnvFlipViewportY, cfg.Renderer.FlipViewportY)
	cfg.Renderer.ClearColor = p.color(EnvClearColor, cfg.Renderer.ClearColor)

	cfg.Log.Level = p.level(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = p.format(EnvLogFormat, cfg.Log.Format)
	cfg.Log.StatsInterval = p.duration(EnvStatsInterval, cfg.Log.StatsInterval)

	if p.err != nil {
		return Configuration{}, p.err
	}
	return cfg, nil
}

// parser keeps every invalid variable so all of them are reported at once.
type parser struct {
	dotenv map[string]string
	err    error
}

func (p *parser) invalid(key, value string, err error) {
	p.err = errors.CombineErrors(p.err, errors.Wrapf(err, "invalid %s=%q", key, value))
}

func (p *parser) lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		value = strings.TrimSpace(p.dotenv[key])
	}
	return value, value != ""
}

func (p *parser) string(key string, def string) string {
	if value, ok := p.lookup(key); ok {
		return value
	}
	return def
}

func (p *parser) positiveInt(key string, def int) int {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}

	n, err := strconv.Atoi(value)
	if err == nil && n <= 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		p.invalid(key, value, err)
		return def
	}
	return n
}

func (p *parser) bool(key string, def bool) bool {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		p.invalid(key, value, err)
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}

	d, err := time.ParseDuration(value)
	if err == nil && d < 0 {
		err = errors.New("must not be negative")
	}
	if err != nil {
		p.invalid(key, value, err)
		return def
	}
	return d
}

func (p *parser) level(key string, def logrus.Level) logrus.Level {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}

	level, err := logrus.ParseLevel(value)
	if err != nil {
		p.invalid(key, value, err)
		return def
	}
	return level
}

func (p *parser) format(key string, def string) string {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}

	switch strings.ToLower(value) {
	case FormatText:
		return FormatText
	case FormatJSON:
		return FormatJSON
	}
	p.invalid(key, value, errors.Newf("want %q or %q", FormatText, FormatJSON))
	return def
}

// color parses "r,g,b,a" with each channel in [0, 1].
func (p *parser) color(key string, def mgl32.Vec4) mgl32.Vec4 {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}

	channels := strings.Split(value, ",")
	if len(channels) != 4 {
		p.invalid(key, value, errors.Newf("want 4 channels, got %d", len(channels)))
		return def
	}

	var c mgl32.Vec4
	for i, channel := range channels {
		f, err := strconv.ParseFloat(strings.TrimSpace(channel), 32)
		if err == nil && (f < 0 || f > 1) {
			err = errors.Newf("channel %d out of [0, 1]", i)
		}
		if err != nil {
			p.invalid(key, value, err)
			return def
		}
		c[i] = float32(f)
	}
	return c
}
