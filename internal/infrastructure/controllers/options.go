package controllers

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/deplock/internal/domain/entities"
)

const (
	optionIgnore     = "ignore"
	optionKeepFirst  = "keep_first"
	optionLockConfig = "lock_config"
)

// ErrUnknownOption is returned for key=value arguments a command does not accept.
var ErrUnknownOption = errors.New("unknown option")

// ParseKeyValueOptions parses key=value arguments, rejecting keys outside allowed.
func ParseKeyValueOptions(args []string, allowed ...string) (map[string]string, error) {
	options := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, fmt.Errorf("%w: %q is not a key=value pair", ErrUnknownOption, arg)
		}
		key = strings.TrimSpace(key)
		if !slices.Contains(allowed, key) {
			return nil, fmt.Errorf("%w: %q (accepted: %s)", ErrUnknownOption, key, strings.Join(allowed, ", "))
		}
		options[key] = strings.TrimSpace(value)
	}
	return options, nil
}

// loadSettings reads the config file, when there is one, and applies the
// global flags on top of it.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	manifest, _ := cmd.Flags().GetString("manifest")
	backend, _ := cmd.Flags().GetString("backend")
	jobs, _ := cmd.Flags().GetInt("jobs")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	cfgPath := configPath
	if cfgPath == "" {
		if found, err := entities.FindConfigFile(); err == nil {
			cfgPath = found
		}
	}

	settings := entities.DefaultSettings()
	if cfgPath != "" {
		logger.Debugf("Using config file: %s", cfgPath)
		loaded, err := entities.NewSettings(cfgPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if manifest != "" {
		settings.Manifest = manifest
	}
	if backend != "" {
		settings.Backend = backend
	}
	if jobs > 0 {
		settings.Jobs = jobs
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// nameList returns the names given as key=value option, then as flag, then
// the configured default.
func nameList(cmd *cobra.Command, options map[string]string, key, flag string, fallback []string) []string {
	if raw, ok := options[key]; ok {
		return entities.ParseNameList(raw)
	}
	if cmd.Flags().Changed(flag) {
		raw, _ := cmd.Flags().GetString(flag)
		return entities.ParseNameList(raw)
	}
	return fallback
}

// lockPath returns the lock file path given as key=value option or flag.
func lockPath(cmd *cobra.Command, options map[string]string) string {
	if path, ok := options[optionLockConfig]; ok {
		return path
	}
	path, _ := cmd.Flags().GetString("lock-config")
	return path
}
