package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/proftop/proftop/internal/model"
)

const (
	defaultSamplerBin     = model.DefaultSamplerBin
	defaultUpdateInterval = model.DefaultUpdateInterval
)

// cliConfig holds everything configurable outside the command line: the
// sampler binary, refresh cadence, skin and diagnostics. Command-line flags
// override individual fields after loading.
type cliConfig struct {
	SamplerBin      string        `mapstructure:"sampler-bin"`
	SamplerInterval time.Duration `mapstructure:"sampler-interval"`
	UpdateInterval  time.Duration `mapstructure:"update-interval"`
	SaveDir         string        `mapstructure:"save-dir"`
	Skin            string        `mapstructure:"skin"`
	LogFile         string        `mapstructure:"log-file"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PROFTOP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("sampler-bin", defaultSamplerBin)
	v.SetDefault("sampler-interval", time.Duration(0))
	v.SetDefault("update-interval", defaultUpdateInterval)
	v.SetDefault("save-dir", "")
	v.SetDefault("skin", "")
	v.SetDefault("log-file", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "proftop", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// skinPath resolves a skin setting: an existing file path is taken verbatim,
// anything else is treated as a skin name under the config directory.
func skinPath(skin, home string) string {
	if skin == "" {
		return ""
	}
	if _, err := os.Stat(skin); err == nil {
		return skin
	}
	return filepath.Join(home, ".config", "proftop", "skins", skin+".yml")
}
