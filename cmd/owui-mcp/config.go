package main

import (
	"fmt"
	"os"
	"path"

	"github.com/germanamz/owui-mcp/pkg/owui"
	"github.com/germanamz/owui-mcp/pkg/tools/discover"
	"gopkg.in/yaml.v3"
)

// config is the effective server configuration, assembled from the
// environment and an optional YAML file. File values win over environment
// values when both are set.
type config struct {
	BaseURL string     `yaml:"base_url"`
	APIKey  string     `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Tools   toolFilter `yaml:"tools"`
}

// toolFilter restricts which discovered tools are registered. Patterns use
// path.Match syntax against tool names, e.g. "chats__*" or "users__delete".
type toolFilter struct {
	Allow []string `yaml:"allow"` // empty means allow everything
	Deny  []string `yaml:"deny"`  // applied after allow
}

// loadConfig builds the configuration. Environment variables referenced as
// ${VAR} or $VAR in the YAML are expanded before parsing, so API keys can be
// kept out of the file itself.
func loadConfig(filePath string) (config, error) {
	cfg := config{
		BaseURL: envOr("OWUI_API_URL", owui.DefaultBaseURL),
		APIKey:  os.Getenv("OWUI_API_KEY"),
	}

	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	var fileCfg config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fileCfg); err != nil {
		return config{}, fmt.Errorf("parse config %s: %w", filePath, err)
	}

	if fileCfg.BaseURL != "" {
		cfg.BaseURL = fileCfg.BaseURL
	}
	if fileCfg.APIKey != "" {
		cfg.APIKey = fileCfg.APIKey
	}
	cfg.Tools = fileCfg.Tools

	return cfg, nil
}

// envOr returns the value of the environment variable or a fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// filterOps applies the allow/deny patterns to the discovered operations.
func filterOps(ops []discover.Operation, f toolFilter) []discover.Operation {
	if len(f.Allow) == 0 && len(f.Deny) == 0 {
		return ops
	}

	kept := make([]discover.Operation, 0, len(ops))
	for _, op := range ops {
		if len(f.Allow) > 0 && !matchAny(f.Allow, op.ToolName) {
			continue
		}
		if matchAny(f.Deny, op.ToolName) {
			continue
		}
		kept = append(kept, op)
	}

	return kept
}

// matchAny reports whether the name matches any of the patterns. Malformed
// patterns never match.
func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}

	return false
}
