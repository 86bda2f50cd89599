package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/inkwell/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the inkwell configuration file.

Configuration is stored in TOML format in the XDG config directory.
The INKWELL_CONFIG environment variable overrides the location.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigEditCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath()
			if err != nil {
				return err
			}

			data, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "# Configuration file: %s\n\n", path)
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists at %s", path)
			}
			if err := config.DefaultConfig().Save(); err != nil {
				return err
			}
			p.PrintSuccess(fmt.Sprintf("Wrote default config to %s", path))
			return nil
		},
	}
}

func newConfigEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open configuration in editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				if err := config.DefaultConfig().Save(); err != nil {
					return fmt.Errorf("failed to create default config: %w", err)
				}
			}

			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}

			editCmd := exec.Command(editor, path)
			editCmd.Stdin = os.Stdin
			editCmd.Stdout = os.Stdout
			editCmd.Stderr = os.Stderr
			return editCmd.Run()
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	c, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "notes.dir":
		c.Notes.Dir = value
	case "notes.extension":
		c.Notes.Extension = value
	case "database.path":
		c.Database.Path = value
	case "database.enabled":
		enabled, err := parseBool(value)
		if err != nil {
			return err
		}
		c.Database.Enabled = enabled
	case "index.preview_length":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid length: %s", value)
		}
		c.Index.PreviewLength = n
	case "index.keep_content":
		keep, err := parseBool(value)
		if err != nil {
			return err
		}
		c.Index.KeepContent = keep
	case "search.default_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid limit: %s", value)
		}
		c.Search.DefaultLimit = n
	case "search.default_sort":
		switch value {
		case "modified", "title", "date", "created":
			c.Search.DefaultSort = value
		default:
			return fmt.Errorf("invalid sort field: %s (use modified, title, date, or created)", value)
		}
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := c.Save(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	}
	return nil
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch args[0] {
	case "notes.dir":
		fmt.Fprintln(out, c.Notes.Dir)
	case "notes.extension":
		fmt.Fprintln(out, c.Notes.Extension)
	case "database.path":
		fmt.Fprintln(out, c.Database.Path)
	case "database.enabled":
		fmt.Fprintln(out, c.Database.Enabled)
	case "index.preview_length":
		fmt.Fprintln(out, c.Index.PreviewLength)
	case "index.keep_content":
		fmt.Fprintln(out, c.Index.KeepContent)
	case "search.default_limit":
		fmt.Fprintln(out, c.Search.DefaultLimit)
	case "search.default_sort":
		fmt.Fprintln(out, c.Search.DefaultSort)
	default:
		return fmt.Errorf("unknown configuration key: %s", args[0])
	}
	return nil
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func parseBool(value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s (use true/false)", value)
	}
}
