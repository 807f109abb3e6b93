package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/replshell/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	// The file may not exist yet or may not validate
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cfgFile
		if path == "" {
			dir := config.DefaultConfigDir()
			if dir == "" {
				return errors.New("cannot determine config directory; pass --config")
			}
			path = filepath.Join(dir, "config.yaml")
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value, keeping comments",
	Long: `Set one configuration value in the config file, e.g.

  replshell config set history.backend sqlite
  replshell config set function_keys esc,f3,f5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath(cfgFile)
		if path == "" {
			return errors.New("cannot determine config file; pass --config")
		}
		if err := config.SaveSetting(path, args[0], parseValue(args[1])); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
		return err
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// parseValue turns command line text into a YAML scalar or list.
func parseValue(s string) any {
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
