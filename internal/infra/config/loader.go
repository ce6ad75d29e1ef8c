// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/focusquest/focusquest/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the .focusquest directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/focusquest)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalAppDir(configHome)
}

// Load returns the merged configuration (project + global).
// Project config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	// Load global config first
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Load project config
	project, err := l.LoadProject()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- project (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if project != nil {
		base = mergeConfigs(base, project)
	}

	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadProject returns only the project configuration.
func (l *Loader) LoadProject() (*domain.Config, error) {
	return l.loadFile(filepath.Join(l.dataDir, domain.ConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Values of the wrong type are ignored with a warning.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		p := sectionParser{section: section, warnings: &warnings}

		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "backend":
					p.str(k, v, &res.Store.Backend)
				case "path":
					p.str(k, v, &res.Store.Path)
				case "dsn":
					p.str(k, v, &res.Store.DSN)
				case "redis_addr":
					p.str(k, v, &res.Store.RedisAddr)
				case "redis_db":
					p.int(k, v, &res.Store.RedisDB)
				case "git_repo":
					p.str(k, v, &res.Store.GitRepo)
				case "namespace":
					p.str(k, v, &res.Store.Namespace)
				case "write_timeout":
					p.duration(k, v, &res.Store.WriteTimeout)
				default:
					p.unknown(k)
				}
			}
		case "progression":
			for k, v := range m {
				switch k {
				case "timezone":
					p.str(k, v, &res.Progression.Timezone)
				case "recheck_interval":
					p.duration(k, v, &res.Progression.RecheckInterval)
				default:
					p.unknown(k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					p.str(k, v, &res.Log.Level)
				default:
					p.unknown(k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// sectionParser assigns typed values from one TOML section.
type sectionParser struct {
	warnings *[]string
	section  string
}

func (p sectionParser) unknown(key string) {
	*p.warnings = append(*p.warnings, fmt.Sprintf("unknown key in [%s]: %s", p.section, key))
}

func (p sectionParser) invalid(key string, v any) {
	*p.warnings = append(*p.warnings, fmt.Sprintf("invalid value for [%s].%s: %v", p.section, key, v))
}

func (p sectionParser) str(key string, v any, dst *string) {
	s, ok := v.(string)
	if !ok {
		p.invalid(key, v)
		return
	}
	*dst = s
}

func (p sectionParser) int(key string, v any, dst *int) {
	n, ok := v.(int64)
	if !ok || n < 0 {
		p.invalid(key, v)
		return
	}
	*dst = int(n)
}

func (p sectionParser) duration(key string, v any, dst *time.Duration) {
	s, ok := v.(string)
	if !ok {
		p.invalid(key, v)
		return
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		p.invalid(key, v)
		return
	}
	*dst = d
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		Store:       base.Store,
		Log:         base.Log,
		Progression: base.Progression,
	}

	// Keep warnings from both sources; nil when there are none
	result.Warnings = append(result.Warnings, base.Warnings...)
	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.Store.Backend != "" {
		result.Store.Backend = override.Store.Backend
	}
	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}
	if override.Store.DSN != "" {
		result.Store.DSN = override.Store.DSN
	}
	if override.Store.RedisAddr != "" {
		result.Store.RedisAddr = override.Store.RedisAddr
	}
	if override.Store.RedisDB != 0 {
		result.Store.RedisDB = override.Store.RedisDB
	}
	if override.Store.GitRepo != "" {
		result.Store.GitRepo = override.Store.GitRepo
	}
	if override.Store.Namespace != "" {
		result.Store.Namespace = override.Store.Namespace
	}
	if override.Store.WriteTimeout != 0 {
		result.Store.WriteTimeout = override.Store.WriteTimeout
	}
	if override.Progression.Timezone != "" {
		result.Progression.Timezone = override.Progression.Timezone
	}
	if override.Progression.RecheckInterval != 0 {
		result.Progression.RecheckInterval = override.Progression.RecheckInterval
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}

	return result
}
