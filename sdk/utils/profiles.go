// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

func getIniPath() string {
	iniPath, err := os.UserHomeDir()
	if err != nil {
		iniPath = "."
	}
	return iniPath + string(os.PathSeparator) + IniName
}

// IniPath is the default location of the environment profiles.
func IniPath() string { return getIniPath() }

// resolveEnvName: explicit name > DEFAULT.current_environment > "default"
func resolveEnvName(cfg *ini.File, explicit string) string {
	if explicit != "" && !strings.EqualFold(explicit, "null") {
		return explicit
	}
	if cfg != nil {
		if v := cfg.Section(ini.DefaultSection).Key(CurrentEnvironment).String(); v != "" {
			return v
		}
	}
	return DefaultEnvironment
}

// loadProfile loads [DEFAULT] + [env] into v (TOML in-memory) and returns the
// environment in use. A missing INI file is not an error.
func loadProfile(v *viper.Viper, iniPath, env string) (string, error) {
	cfg, err := ini.Load(iniPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return resolveEnvName(nil, env), nil
		}
		return "", fmt.Errorf("failed to read %s: %w", iniPath, err)
	}

	name := resolveEnvName(cfg, env)
	def := cfg.Section(ini.DefaultSection)
	merged := map[string]string{}
	for _, k := range def.Keys() {
		merged[k.Name()] = k.Value()
	}
	switch {
	case cfg.HasSection(name):
		for _, k := range cfg.Section(name).Keys() {
			merged[k.Name()] = k.Value()
		}
	case env != "":
		return "", fmt.Errorf("environment %q not found in %s", env, iniPath)
	default:
		log.Debugw("environment not found, using DEFAULT section", "env", name)
	}
	delete(merged, CurrentEnvironment)

	var buf bytes.Buffer
	for k, val := range merged {
		vSafe := strings.ReplaceAll(strings.ReplaceAll(val, `\`, `\\`), `"`, `\"`)
		_, _ = fmt.Fprintf(&buf, "%s = \"%s\"\n", k, vSafe)
	}
	v.SetConfigType("toml")
	if err := v.ReadConfig(&buf); err != nil {
		return "", fmt.Errorf("failed to load %s into viper: %w", iniPath, err)
	}
	return name, nil
}

// SaveProfile writes every persist:"true" key currently set in v into the
// [envName] section, creating the file when missing. The DEFAULT
// current_environment is set only when absent.
func SaveProfile(v *viper.Viper, iniPath, envName string) error {
	if envName == "" {
		envName = DefaultEnvironment
	}
	cfg, err := ini.Load(iniPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", iniPath, err)
		}
		cfg = ini.Empty()
	}
	sec := cfg.Section(envName)
	for _, f := range settingFields() {
		if !f.Persist {
			continue
		}
		val := v.GetString(f.Key)
		if val == "" || val == f.Default {
			continue
		}
		sec.Key(f.Key).SetValue(val)
	}
	sec.Key(UpdatedEnvKey).SetValue(time.Now().UTC().Format(time.RFC3339))

	if !cfg.Section(ini.DefaultSection).HasKey(CurrentEnvironment) {
		cfg.Section(ini.DefaultSection).Key(CurrentEnvironment).SetValue(envName)
	}
	return cfg.SaveTo(iniPath)
}

// UseProfile makes envName the current environment.
func UseProfile(iniPath, envName string) error {
	cfg, err := ini.Load(iniPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", iniPath, err)
	}
	if !cfg.HasSection(envName) {
		return fmt.Errorf("environment %q not found in %s", envName, iniPath)
	}
	cfg.Section(ini.DefaultSection).Key(CurrentEnvironment).SetValue(envName)
	return cfg.SaveTo(iniPath)
}

// Profile is one environment section, with secrets masked.
type Profile struct {
	Name    string            `json:"name"            yaml:"name"`
	Current bool              `json:"current"         yaml:"current"`
	Values  map[string]string `json:"values,omitempty" yaml:"values,omitempty"`
}

// ListProfiles returns the environments of iniPath sorted by name.
func ListProfiles(iniPath string) ([]Profile, error) {
	cfg, err := ini.Load(iniPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", iniPath, err)
	}
	secrets := map[string]bool{}
	for _, f := range settingFields() {
		secrets[f.Key] = f.Secret
	}
	current := cfg.Section(ini.DefaultSection).Key(CurrentEnvironment).String()

	var out []Profile
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		p := Profile{Name: sec.Name(), Current: sec.Name() == current, Values: map[string]string{}}
		for _, k := range sec.Keys() {
			val := k.Value()
			if secrets[k.Name()] && val != "" {
				val = "****"
			}
			p.Values[k.Name()] = val
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Profile) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
