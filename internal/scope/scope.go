// Package scope authorizes proposed working-tree mutations against a
// declarative allow-list before any write occurs.
package scope

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the authorization descriptor for one pipeline invocation. It is
// loaded fresh per run and passed by reference; there is no process-wide
// state. Missing fields always resolve to the most restrictive safe value,
// never to unrestricted access.
type Config struct {
	Create []string
	Modify []string
	Tests  []string
	// Strict voids the entire patch when any single target is out of
	// scope. Defaults to true.
	Strict bool
	// DirRewrite permits directory paths as modify candidates. Defaults
	// to false.
	DirRewrite bool
}

// descriptor mirrors the on-disk shapes. The current shape nests settings
// under "scope"; the legacy shape splits them across "allowed_targets" and
// "execution". When both are present the current shape wins.
type descriptor struct {
	Scope          *scopeSection  `yaml:"scope"`
	AllowedTargets *targetSection `yaml:"allowed_targets"`
	Execution      *execSection   `yaml:"execution"`
}

type scopeSection struct {
	Create            []string `yaml:"create"`
	Modify            []string `yaml:"modify"`
	Tests             []string `yaml:"tests"`
	StrictMode        *bool    `yaml:"strict_mode"`
	DirRewriteAllowed *bool    `yaml:"dir_rewrite_allowed"`
}

type targetSection struct {
	Create []string `yaml:"create"`
	Modify []string `yaml:"modify"`
	Tests  []string `yaml:"tests"`
}

type execSection struct {
	StrictMode        *bool `yaml:"strict_mode"`
	DirRewriteAllowed *bool `yaml:"dir_rewrite_allowed"`
}

// Load reads and parses a descriptor file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scope descriptor: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scope descriptor %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a descriptor from either supported shape and applies safe
// defaults for everything the descriptor leaves unset.
func Parse(data []byte) (*Config, error) {
	var desc descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	cfg := &Config{Strict: true}

	if desc.AllowedTargets != nil {
		cfg.Create = desc.AllowedTargets.Create
		cfg.Modify = desc.AllowedTargets.Modify
		cfg.Tests = desc.AllowedTargets.Tests
	}
	if desc.Execution != nil {
		if desc.Execution.StrictMode != nil {
			cfg.Strict = *desc.Execution.StrictMode
		}
		if desc.Execution.DirRewriteAllowed != nil {
			cfg.DirRewrite = *desc.Execution.DirRewriteAllowed
		}
	}

	if desc.Scope != nil {
		cfg.Create = desc.Scope.Create
		cfg.Modify = desc.Scope.Modify
		cfg.Tests = desc.Scope.Tests
		if desc.Scope.StrictMode != nil {
			cfg.Strict = *desc.Scope.StrictMode
		}
		if desc.Scope.DirRewriteAllowed != nil {
			cfg.DirRewrite = *desc.Scope.DirRewriteAllowed
		}
	}

	return cfg, nil
}
