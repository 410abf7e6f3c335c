package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, Default())
}

func TestLoadFromEnvironment(t *testing.T) {
	c := qt.New(t)

	t.Setenv(EnvWindowWidth, "640")
	t.Setenv(EnvWindowHeight, "480")
	t.Setenv(EnvValidation, "false")
	t.Setenv(EnvShaderDir, "/opt/jazz/shaders")
	t.Setenv(EnvShaderName, "quad")
	t.Setenv(EnvFlipViewportY, "true")
	t.Setenv(EnvClearColor, "0.1, 0.2, 0.3, 1")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "JSON")
	t.Setenv(EnvStatsInterval, "250ms")

	cfg, err := Load()
	c.Assert(err, qt.IsNil)

	c.Check(cfg.Window, qt.Equals, Window{Width: 640, Height: 480})
	c.Check(cfg.Renderer.Validation, qt.IsFalse)
	c.Check(cfg.Renderer.ShaderDirectory, qt.Equals, "/opt/jazz/shaders")
	c.Check(cfg.Renderer.ShaderName, qt.Equals, "quad")
	c.Check(cfg.Renderer.FlipViewportY, qt.IsTrue)
	c.Check(cfg.Renderer.ClearColor, qt.Equals, mgl32.Vec4{0.1, 0.2, 0.3, 1})
	c.Check(cfg.Log.Level, qt.Equals, logrus.DebugLevel)
	c.Check(cfg.Log.Format, qt.Equals, FormatJSON)
	c.Check(cfg.Log.StatsInterval, qt.Equals, 250*time.Millisecond)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{EnvWindowWidth, "wide", `invalid JAZZ_WINDOW_WIDTH="wide".*`},
		{EnvWindowHeight, "-3", `invalid JAZZ_WINDOW_HEIGHT="-3": must be positive`},
		{EnvValidation, "maybe", `invalid JAZZ_VALIDATION="maybe".*`},
		{EnvClearColor, "0,0,0", `invalid JAZZ_CLEAR_COLOR="0,0,0": want 4 channels, got 3`},
		{EnvClearColor, "0,0,2,1", `invalid JAZZ_CLEAR_COLOR="0,0,2,1": channel 2 out of \[0, 1\]`},
		{EnvLogLevel, "loud", `invalid JAZZ_LOG_LEVEL="loud".*`},
		{EnvLogFormat, "xml", `invalid JAZZ_LOG_FORMAT="xml": want "text" or "json"`},
		{EnvStatsInterval, "-1s", `invalid JAZZ_STATS_INTERVAL="-1s": must not be negative`},
	}

	for _, test := range tests {
		t.Run(test.key+"="+test.value, func(t *testing.T) {
			c := qt.New(t)
			t.Setenv(test.key, test.value)

			_, err := Load()
			c.Assert(err, qt.ErrorMatches, test.want)
		})
	}
}

func writeDotEnv(c *qt.C, content string) string {
	path := filepath.Join(c.TempDir(), ".env")
	c.Assert(os.WriteFile(path, []byte(content), 0o644), qt.IsNil)
	return path
}

func TestLoadFileProcessEnvironmentWins(t *testing.T) {
	c := qt.New(t)

	path := writeDotEnv(c, "JAZZ_WINDOW_WIDTH=111\nJAZZ_WINDOW_HEIGHT=333\nJAZZ_SHADER_NAME=quad\n")
	t.Setenv(EnvWindowWidth, "222")
	t.Setenv(EnvShaderName, "")

	cfg, err := LoadFile(path)
	c.Assert(err, qt.IsNil)
	c.Check(cfg.Window, qt.Equals, Window{Width: 222, Height: 333})
	c.Check(cfg.Renderer.ShaderName, qt.Equals, "quad")

	// the file never leaks into the process environment
	c.Check(os.Getenv(EnvWindowWidth), qt.Equals, "222")
	_, set := os.LookupEnv(EnvWindowHeight)
	c.Check(set, qt.IsFalse)
}

func TestLoadFileMissing(t *testing.T) {
	c := qt.New(t)

	cfg, err := LoadFile(filepath.Join(c.TempDir(), "missing.env"))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, Default())
}

func TestLoadFileRejectsInvalidFile(t *testing.T) {
	c := qt.New(t)

	path := writeDotEnv(c, "JAZZ_WINDOW_WIDTH\n")
	_, err := LoadFile(path)
	c.Assert(err, qt.ErrorMatches, `load .*\.env: .*`)
}

func TestLoadFileValuesAreValidated(t *testing.T) {
	c := qt.New(t)

	path := writeDotEnv(c, "JAZZ_LOG_FORMAT=xml\n")
	_, err := LoadFile(path)
	c.Assert(err, qt.ErrorMatches, `invalid JAZZ_LOG_FORMAT="xml": want "text" or "json"`)
}
