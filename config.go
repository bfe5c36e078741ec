// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tviewcommand "github.com/spezifisch/tview-command"
	"github.com/spf13/viper"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
)

const configName = "smp"

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, configName)
}

// expandPath replaces a leading ~ with the home directory.
func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func setConfigDefaults() {
	music := "Music"
	if home, err := os.UserHomeDir(); err == nil {
		music = filepath.Join(home, "Music")
	}

	viper.SetDefault("library.dir", music)
	viper.SetDefault("library.tracks", []string{})
	viper.SetDefault("library.watch", false)
	viper.SetDefault("playback.order", "random")
	viper.SetDefault("playback.resume", true)
	viper.SetDefault("playback.volume", 100)
	viper.SetDefault("state.file", filepath.Join(configDir(), "state.json"))
	viper.SetDefault("history.db", "")
	viper.SetDefault("ui.artwork-cache", 16)
	viper.SetDefault("ui.commands", "")
	viper.SetDefault("http.listen", "")
	viper.SetDefault("http.cors-origins", []string{})
}

// readConfig loads configFile, or smp.toml from the default locations. Only
// an explicitly named file has to exist.
func readConfig(configFile *string) error {
	setConfigDefaults()

	explicit := configFile != nil && *configFile != ""
	if explicit {
		viper.SetConfigFile(*configFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("toml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath("$HOME/.config/smp")
		viper.AddConfigPath(".")
	}

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config file error: %w", err)
	}

	if viper.GetInt("ui.artwork-cache") < 1 {
		return fmt.Errorf("config property ui.artwork-cache must be at least 1")
	}
	if v := viper.GetInt("playback.volume"); v < 0 || v > 100 {
		return fmt.Errorf("config property playback.volume must be between 0 and 100")
	}

	return nil
}

// initCommandHandler sets up tview-command when ui.commands names a
// keybinding file.
func initCommandHandler(logger *logger.Logger) {
	configPath := viper.GetString("ui.commands")
	if configPath == "" {
		return
	}

	tviewcommand.SetLogHandler(func(msg string) {
		logger.Print(msg)
	})

	config, err := tviewcommand.LoadConfig(configPath)
	if err != nil || config == nil {
		logger.PrintError("Failed to load command-shortcut config", err)
	}
}
