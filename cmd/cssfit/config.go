package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/cssfit"
	"github.com/yacobolo/cssfit/internal/rescale"
	"go.uber.org/zap"
)

var k = koanf.New(".")

// defaultPatterns are scanned when neither arguments nor the config file name any.
var defaultPatterns = []string{"**/*.html"}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".cssfit.yaml"
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set so
	// flag defaults never mask the config file)
	fs := cmd.Flags()
	provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(fs, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (CSSFIT_* prefix)
	if err := k.Load(env.Provider("CSSFIT_", ".", func(s string) string {
		// CSSFIT_RESCALE_VIEWPORT -> rescale.viewport
		// CSSFIT_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "CSSFIT_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildScaleConfig constructs the batch Config from koanf state. Positional
// arguments take the place of the configured patterns.
func buildScaleConfig(args []string) (rescale.Config, error) {
	config := rescale.Config{
		Container:  getStringWithFallback("container", "rescale.container", ""),
		Width:      getFloat64WithFallback("width", "rescale.width", 0),
		Height:     getFloat64WithFallback("height", "rescale.height", 0),
		Scale:      getFloat64WithFallback("scale", "rescale.scale", 0),
		Method:     cssfit.ResizeMethod(getStringWithFallback("method", "rescale.method", string(cssfit.MethodCalculate))),
		Axis:       cssfit.Axis(getStringWithFallback("axis", "rescale.axis", string(cssfit.AxisBoth))),
		OutputDir:  getStringWithFallback("output-dir", "rescale.output-dir", ""),
		IgnoreFile: getStringWithFallback("ignore-file", "rescale.ignore-file", rescale.DefaultIgnoreFile),
	}

	// Handle patterns: arguments first, then config key
	if len(args) > 0 {
		config.Patterns = args
	} else if patterns := k.Strings("rescale.patterns"); len(patterns) > 0 {
		config.Patterns = patterns
	} else {
		config.Patterns = defaultPatterns
	}

	if viewport := getStringWithFallback("viewport", "rescale.viewport", ""); viewport != "" {
		w, h, err := parseSize(viewport)
		if err != nil {
			return config, fmt.Errorf("viewport: %w", err)
		}
		config.ViewportWidth, config.ViewportHeight = w, h
	}

	return config, nil
}

// parseSize reads a WIDTHxHEIGHT pair such as 1920x1080.
func parseSize(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not WIDTHxHEIGHT", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

// newLogger returns a development logger on stderr in verbose mode, a nop logger
// otherwise.
func newLogger() *zap.Logger {
	if !getBoolWithFallback("verbose", "verbose", false) {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// useColors resolves --color against the terminal.
func useColors() bool {
	return rescale.ShouldUseColors(getBoolWithFallback("color", "color", false))
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}
