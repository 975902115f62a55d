package helpers

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/hostwarden/internal/app"
	configapp "github.com/doeshing/hostwarden/internal/application/config"
	"github.com/doeshing/hostwarden/internal/domain"
	configinfra "github.com/doeshing/hostwarden/internal/infrastructure/config"
)

// GetConfigLoader extracts the config loader from container with error handling
func GetConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, fmt.Errorf("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// SaveConfigWithValidation validates the effective configuration and saves
// the file form with an automatic backup. It returns the backup path.
func SaveConfigWithValidation(container *app.Container, cfg domain.Config) (string, error) {
	loader, err := GetConfigLoader(container)
	if err != nil {
		return "", err
	}
	if err := configapp.Validate(loader.Hydrate(cfg)); err != nil {
		return "", fmt.Errorf("configuration validation failed: %w", err)
	}
	backup, err := loader.Save(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to save configuration: %w", err)
	}
	return backup, nil
}

// ConfigToMap converts domain.Config to a map keyed by YAML field names.
func ConfigToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var cfgMap map[string]interface{}
	if err := yaml.Unmarshal(raw, &cfgMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return cfgMap, nil
}

// MapToConfig converts a YAML-keyed map back to domain.Config.
func MapToConfig(cfgMap map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(cfgMap)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal to Config: %w", err)
	}
	return cfg, nil
}

// ParseYAMLValue parses a string value as YAML, falling back to literal string
func ParseYAMLValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input
	}
	return parsed
}

// SetNestedMapValue sets a value in a nested map using a key path.
// Only keys that already exist are accepted so typos fail loudly.
func SetNestedMapValue(root map[string]interface{}, keyPath []string, value interface{}) bool {
	if len(keyPath) == 0 {
		return false
	}
	current := root
	for _, key := range keyPath[:len(keyPath)-1] {
		child, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = child
	}
	last := keyPath[len(keyPath)-1]
	if _, exists := current[last]; !exists {
		return false
	}
	current[last] = value
	return true
}

// TraverseNestedMap retrieves a value from a nested map using a key path
// Returns the value and true if found, nil and false otherwise
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}
	node, ok := data.(map[string]interface{})
	if !ok {
		return nil, false
	}
	next, exists := node[keyPath[0]]
	if !exists {
		return nil, false
	}
	return TraverseNestedMap(next, keyPath[1:])
}
