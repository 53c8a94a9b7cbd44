// Package config holds the settings shared by the sim8086 commands. Values
// come from defaults, an optional JSON file and SIM8086_* environment
// variables, in increasing order of precedence. Command line flags are
// applied last by the command package.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config represents configuration for the sim8086 tool
type Config struct {
	Debug         bool   `json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	DirectAddress bool   `json:"directAddress" jsonschema:"title=Direct Address,description=Decode mod 00 r/m 110 as a 16-bit direct address"`
	KeepGoing     bool   `json:"keepGoing" jsonschema:"title=Keep Going,description=Emit db lines for undecodable bytes and continue"`
	Verify        bool   `json:"verify" jsonschema:"title=Verify,description=Cross-check every instruction with x86asm"`
	Offsets       bool   `json:"offsets" jsonschema:"title=Offsets,description=Prefix output lines with stream offsets"`
	Bytes         bool   `json:"bytes" jsonschema:"title=Bytes,description=Prefix output lines with raw instruction bytes"`
	NoColor       bool   `json:"noColor" jsonschema:"title=No Color,description=Disable syntax highlighting"`
	LogDir        string `json:"logDir,omitempty" jsonschema:"title=Log Directory,description=Directory searched for debug log files"`
}

// Env variable names.
const (
	EnvDebug         = "SIM8086_DEBUG"
	EnvDirectAddress = "SIM8086_DIRECT_ADDRESS"
	EnvKeepGoing     = "SIM8086_KEEP_GOING"
	EnvVerify        = "SIM8086_VERIFY"
	EnvNoColor       = "SIM8086_NO_COLOR"
	EnvLogDir        = "SIM8086_LOG_DIR"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{LogDir: "."}
}

// Load reads path, if not empty, over the defaults and then applies the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	bools := []struct {
		name string
		dst  *bool
	}{
		{EnvDebug, &c.Debug},
		{EnvDirectAddress, &c.DirectAddress},
		{EnvKeepGoing, &c.KeepGoing},
		{EnvVerify, &c.Verify},
		{EnvNoColor, &c.NoColor},
	}
	for _, b := range bools {
		v := getenv(b.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", b.name, v, err)
		}
		*b.dst = parsed
	}

	if dir := getenv(EnvLogDir); dir != "" {
		c.LogDir = dir
	}
	return nil
}
