package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/slackteams/tokenstore/internal/config"
	"github.com/slackteams/tokenstore/internal/output"
	"github.com/slackteams/tokenstore/internal/secrets"
)

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (e.g., service_name, backend)" predictor:"config-key"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(cfg *config.Config, streams *Streams) error {
	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitNotFound,
			Hint:     "Valid keys: " + strings.Join(config.Keys(), ", "),
		}
	}

	fmt.Fprintln(streams.Out, value)
	return nil
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set" predictor:"config-key"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(cfg *config.Config, streams *Streams) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitUsage,
			Hint:     "Valid keys: " + strings.Join(config.Keys(), ", "),
		}
	}

	if cmd.Key == "backend" {
		if _, err := config.GetBackend(cmd.Value); err != nil {
			return &output.CLIError{
				Message:  fmt.Sprintf("Invalid backend: %s. Valid backends: %s", cmd.Value, strings.Join(config.ValidBackends(), ", ")),
				ExitCode: output.ExitUsage,
			}
		}
	}

	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to set config: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(streams.Err, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to remove" predictor:"config-key"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(cfg *config.Config, streams *Streams) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitUsage,
		}
	}

	if err := cfg.Unset(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to unset config: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(streams.Err, "Unset %s\n", cmd.Key)
	return nil
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct{}

// configItem is one row of config list
type configItem struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Value sources reported by config list
const (
	sourceFlag    = "flag/env"
	sourceConfig  = "config"
	sourceDefault = "default"
)

// Run lists every key with its effective value and where that value came from
func (cmd *ConfigListConfigCmd) Run(cfg *config.Config, globals *Globals, sp *StoreProvider, fp *FormatterProvider) error {
	settings := sp.Settings()

	fileDir := settings.FileDir
	if fileDir == "" {
		fileDir = secrets.DataDir()
	}

	effective := map[string]string{
		"service_name":   settings.Service,
		"backend":        settings.Backend,
		"file_dir":       fileDir,
		"default_output": fp.Mode,
	}
	flags := map[string]string{
		"service_name":   globals.Service,
		"backend":        globals.Backend,
		"file_dir":       globals.FileDir,
		"default_output": globals.Output,
	}

	keys := config.Keys()
	items := make([]configItem, 0, len(keys))
	for _, key := range keys {
		configured, _ := cfg.Get(key)

		item := configItem{Key: key, Value: effective[key], Source: sourceDefault}
		switch {
		case flags[key] != "":
			item.Source = sourceFlag
		case configured != "":
			item.Source = sourceConfig
		}
		items = append(items, item)
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value", Width: 60},
		{Name: "Source", Key: "Source"},
	}

	return fp.Formatter.PrintList(items, cols)
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct{}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(cfg *config.Config, streams *Streams) error {
	path := cfg.Path()

	fmt.Fprintln(streams.Out, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(streams.Err, "(file does not exist yet - will be created on first write)\n")
	} else {
		fmt.Fprintf(streams.Err, "(file exists)\n")
	}

	return nil
}
