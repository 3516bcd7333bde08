package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or reset the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{
				"path": path,
				"timer": map[string]interface{}{
					"work_duration": cfg.Timer.WorkDuration.String(),
					"short_break":   cfg.Timer.ShortBreak.String(),
					"long_break":    cfg.Timer.LongBreak.String(),
				},
				"notifications": map[string]interface{}{
					"enabled": cfg.Notifications.Enabled,
					"sound":   cfg.Notifications.Sound,
				},
				"storage": map[string]interface{}{
					"data_dir": cfg.Storage.DataDir,
					"backend":  cfg.Storage.Backend,
				},
				"ai": map[string]interface{}{
					"model":       cfg.AI.Model,
					"image_model": cfg.AI.ImageModel,
					"recap_model": cfg.AI.RecapModel,
					"timeout":     cfg.AI.Timeout.String(),
					"api_key_set": cfg.AI.APIKey != "",
				},
				"log": map[string]interface{}{
					"level": cfg.Log.Level,
					"file":  config.GetLogPath(cfg),
				},
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file: %s\n\n", path)
		fmt.Fprintln(out, "[timer]")
		fmt.Fprintf(out, "  work_duration  %s\n", formatMinutes(time.Duration(cfg.Timer.WorkDuration)))
		fmt.Fprintf(out, "  short_break    %s\n", formatMinutes(time.Duration(cfg.Timer.ShortBreak)))
		fmt.Fprintf(out, "  long_break     %s\n", formatMinutes(time.Duration(cfg.Timer.LongBreak)))
		fmt.Fprintln(out, "[notifications]")
		fmt.Fprintf(out, "  enabled        %v\n", cfg.Notifications.Enabled)
		fmt.Fprintf(out, "  sound          %v\n", cfg.Notifications.Sound)
		fmt.Fprintln(out, "[storage]")
		fmt.Fprintf(out, "  data_dir       %s\n", cfg.Storage.DataDir)
		fmt.Fprintf(out, "  backend        %s\n", cfg.Storage.Backend)
		fmt.Fprintln(out, "[ai]")
		fmt.Fprintf(out, "  model          %s\n", cfg.AI.Model)
		fmt.Fprintf(out, "  image_model    %s\n", cfg.AI.ImageModel)
		fmt.Fprintf(out, "  recap_model    %s\n", cfg.AI.RecapModel)
		fmt.Fprintf(out, "  timeout        %s\n", cfg.AI.Timeout)
		fmt.Fprintf(out, "  api_key        %s\n", maskKey(cfg.AI.APIKey))
		fmt.Fprintln(out, "[log]")
		fmt.Fprintf(out, "  level          %s\n", cfg.Log.Level)
		fmt.Fprintf(out, "  file           %s\n", config.GetLogPath(cfg))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Long:  `Write the default configuration. An existing file is only replaced with --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		// Loading already created a missing file, so only --force has work to do.
		if !configForce {
			fmt.Fprintf(cmd.OutOrStdout(), "Config file exists: %s (use --force to overwrite)\n", path)
			return nil
		}
		if err := config.SaveTo(path, config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default config written to %s\n", path)
		return nil
	},
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
