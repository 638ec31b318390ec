package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/feedfort/internal/config"
	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/ux"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View feedfort configuration",
	Long: `Manage the configuration stored at $FEEDFORT_HOME/config.yaml
(~/.feedfort/config.yaml by default).

Values are resolved in this order, later ones winning:
  • built-in defaults
  • the config file
  • a .env file in the working directory
  • FEEDFORT_* environment variables
  • command-line flags

Examples:
  feedfort config view
  feedfort config path
  feedfort config init`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runConfigView),
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(configCmd)
}

// configFilePath is --config or the default location
func configFilePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultPath()
}

func runConfigView(_ context.Context, e *env, _ []string) error {
	shown := *e.Config
	if shown.Session.Key != "" {
		shown.Session.Key = "********"
	}

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	f, err := e.Formatter()
	if err != nil {
		return err
	}
	return f.Format(ux.Text{Data: shown, Render: string(data)})
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), configFilePath(cmd))
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configFilePath(cmd)
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.ErrCodeFileWriteFailed, path+" já existe").
			WithSuggestion("Confira o conteúdo com 'feedfort config view'")
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "Erro ao criar diretório "+filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "Erro ao salvar "+path, err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Configuração criada em %s\n", path)
	return err
}
