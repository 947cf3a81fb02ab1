package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/paes/ensayos/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ENSAYOS_API_BASE", "https://paes.example.com/api")
			_ = os.Setenv("ENSAYOS_TIMEOUT_MS", "2500")
			_ = os.Setenv("ENSAYOS_SUBMIT_FORMAT", "bare")
			_ = os.Setenv("ENSAYOS_TOKEN_FILE", "/tmp/token.env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIBase, convey.ShouldEqual, "https://paes.example.com/api")
				convey.So(cfg.TimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.SubmitFormat, convey.ShouldEqual, config.SubmitFormatBare)
				convey.So(cfg.TokenFile, convey.ShouldEqual, "/tmp/token.env")
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
# local dev
api_base: "http://localhost:9000/api"
addr: ":9090"
log_level: debug
static_dir: ./dist
`)
			_ = os.Setenv("ENSAYOS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIBase, convey.ShouldEqual, "http://localhost:9000/api")
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.StaticDir, convey.ShouldEqual, "./dist")
				convey.So(cfg.TimeoutMS, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
api_base: "http://localhost:9000/api"
addr: ":9090"
`)
			_ = os.Setenv("ENSAYOS_CONFIG", tmpFile)
			_ = os.Setenv("ENSAYOS_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.APIBase, convey.ShouldEqual, "http://localhost:9000/api")
			})
		})

		convey.Convey("When loading a file given explicitly", func() {
			tmpFile := createTempConfigFile(t, `submit_format: wrapped
api_base: "http://localhost:9100/api"
`)
			cfg, err := config.LoadFile(ctx, tmpFile)

			convey.Convey("Then the file is used without touching the environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIBase, convey.ShouldEqual, "http://localhost:9100/api")
				convey.So(cfg.SubmitFormat, convey.ShouldEqual, config.SubmitFormatWrapped)
				_, set := os.LookupEnv(config.EnvConfigFile)
				convey.So(set, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When an explicit empty path is given while ENSAYOS_CONFIG is set", func() {
			_ = os.Setenv("ENSAYOS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.LoadFile(ctx, "")

			convey.Convey("Then only defaults and env are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIBase, convey.ShouldEqual, "http://127.0.0.1:8000/api")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("ENSAYOS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ENSAYOS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("ENSAYOS_TIMEOUT_MS", "soon")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		cases := []struct {
			name, key, value, message string
		}{
			{"empty addr", "ENSAYOS_ADDR", "", "addr must not be empty"},
			{"relative api base", "ENSAYOS_API_BASE", "/api", "api_base"},
			{"ftp api base", "ENSAYOS_API_BASE", "ftp://host/api", "api_base"},
			{"negative timeout", "ENSAYOS_TIMEOUT_MS", "-1", "timeout_ms"},
			{"unknown submit format", "ENSAYOS_SUBMIT_FORMAT", "xml", "submit_format"},
		}

		for _, tc := range cases {
			convey.Convey("When loading with "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.message)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ENSAYOS_CONFIG",
		"ENSAYOS_ADDR",
		"ENSAYOS_API_BASE",
		"ENSAYOS_TIMEOUT_MS",
		"ENSAYOS_SUBMIT_FORMAT",
		"ENSAYOS_TOKEN_FILE",
		"ENSAYOS_LOG_LEVEL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	tmpFile, err := os.CreateTemp(t.TempDir(), "ensayos-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
