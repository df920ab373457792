package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init writes an example configuration file to configPath. Refuses to
// overwrite an existing file unless force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Content: ContentConfig{
			Dir:        DefaultContentDir,
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Index: IndexConfig{
			Path: "./postforge.db",
		},
		Permalink: PermalinkConfig{
			CategoryOrder: "insertion",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  DefaultMetricsListen,
		},
		Watch: WatchConfig{
			Debounce:       Duration(DefaultDebounce),
			RescanInterval: Duration(DefaultRescanInterval),
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
