package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	BackendGit   = "git"
	BackendGoGit = "go-git"

	defaultManifest = "deps.yaml"
	defaultDepsDir  = "deps"
	defaultRemote   = "origin"
)

// Settings is the deplock tool configuration.
type Settings struct {
	Manifest      string   `yaml:"manifest"`
	ManifestNames []string `yaml:"manifest_names"`
	DepsDir       string   `yaml:"deps_dir"`
	Backend       string   `yaml:"backend"`
	Remote        string   `yaml:"remote"`
	Jobs          int      `yaml:"jobs"`
	GitTimeout    string   `yaml:"git_timeout"`
	Ignore        []string `yaml:"ignore"`
	KeepFirst     []string `yaml:"keep_first"`

	timeout time.Duration
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and filling in defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.expandEnv()
	settings.applyDefaults()

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".deplock.yaml",
		".deplock.yml",
		"deplock.yaml",
		"deplock.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// Validate checks the settings for values deplock cannot work with.
func (it *Settings) Validate() error {
	if it.Backend != BackendGit && it.Backend != BackendGoGit {
		return fmt.Errorf("backend must be %q or %q, got %q", BackendGit, BackendGoGit, it.Backend)
	}
	if it.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", it.Jobs)
	}
	if len(it.ManifestNames) == 0 {
		return errors.New("manifest_names must have at least one entry")
	}

	it.timeout = 0
	if it.GitTimeout != "" {
		timeout, err := time.ParseDuration(it.GitTimeout)
		if err != nil {
			return fmt.Errorf("git_timeout: %w", err)
		}
		if timeout < 0 {
			return fmt.Errorf("git_timeout must not be negative, got %s", timeout)
		}
		it.timeout = timeout
	}

	if _, err := NewLockPolicy(it.Ignore, it.KeepFirst); err != nil {
		return err
	}
	return nil
}

// Timeout is the per-call limit for version-control operations; zero means
// none.
func (it *Settings) Timeout() time.Duration {
	return it.timeout
}

func (it *Settings) applyDefaults() {
	if it.Manifest == "" {
		it.Manifest = defaultManifest
	}
	if len(it.ManifestNames) == 0 {
		it.ManifestNames = []string{"deps.yaml", "deps.yml", "deps.hcl"}
	}
	if it.DepsDir == "" {
		it.DepsDir = defaultDepsDir
	}
	if it.Backend == "" {
		it.Backend = BackendGit
	}
	if it.Remote == "" {
		it.Remote = defaultRemote
	}
	if it.Jobs == 0 {
		it.Jobs = 1
	}
}

// expandEnv expands ${ENV_VAR} references in every string value.
func (it *Settings) expandEnv() {
	for _, field := range []*string{&it.Manifest, &it.DepsDir, &it.Backend, &it.Remote, &it.GitTimeout} {
		*field = expandEnvValue(*field)
	}
	for _, list := range [][]string{it.ManifestNames, it.Ignore, it.KeepFirst} {
		for i := range list {
			list[i] = expandEnvValue(list[i])
		}
	}
}

// expandEnvValue expands ${ENV_VAR} references, warning about unset variables.
func expandEnvValue(raw string) string {
	if raw == "" {
		return raw
	}

	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}
