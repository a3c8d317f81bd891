package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"todomap/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Global config (~/.todomap/config.json)",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetFileCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the config and the document it resolves to",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, err := store.ResolveDocumentPath(app.File, cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{
				Data: cfg,
				Meta: map[string]any{
					"configPath":   path,
					"documentPath": doc,
				},
			})
		},
	}
}

func newConfigSetFileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-file <path>",
		Short: "Set the document opened by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentFile = abs
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: cfg})
		},
	}
}

// configSetters maps `config set` keys to their field. Values are validated before any
// write.
var configSetters = map[string]func(cfg *store.GlobalConfig, v string) error{
	"saveDebounceMs":        intSetter(func(c *store.GlobalConfig, n int) { c.SaveDebounceMs = n }),
	"backupIntervalMinutes": intSetter(func(c *store.GlobalConfig, n int) { c.BackupIntervalMinutes = n }),
	"backupKeep":            intSetter(func(c *store.GlobalConfig, n int) { c.BackupKeep = n }),
	"backupDir": func(c *store.GlobalConfig, v string) error {
		c.BackupDir = v
		return nil
	},
	"backupPrefix": func(c *store.GlobalConfig, v string) error {
		c.BackupPrefix = v
		return nil
	},
	"tui.theme": func(c *store.GlobalConfig, v string) error {
		switch v {
		case "", "default", "mono", "high-contrast":
		default:
			return fmt.Errorf("unknown theme %q (expected default|mono|high-contrast)", v)
		}
		tuiConfig(c).Theme = v
		return nil
	},
	"tui.glyphs": func(c *store.GlobalConfig, v string) error {
		switch v {
		case "", "unicode", "ascii":
		default:
			return fmt.Errorf("unknown glyph set %q (expected unicode|ascii)", v)
		}
		tuiConfig(c).Glyphs = v
		return nil
	},
}

func intSetter(set func(*store.GlobalConfig, int)) func(*store.GlobalConfig, string) error {
	return func(c *store.GlobalConfig, v string) error {
		if v == "" {
			set(c, 0)
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("expected a non-negative integer, got %q", v)
		}
		set(c, n)
		return nil
	}
}

func tuiConfig(c *store.GlobalConfig) *store.TUIConfig {
	if c.TUI == nil {
		c.TUI = &store.TUIConfig{}
	}
	return c.TUI
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value (empty value resets to the default)",
		Long:  "Keys: " + strings.Join(configKeys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, ok := configSetters[args[0]]
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown config key %q (expected one of: %s)", args[0], strings.Join(configKeys(), ", ")))
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := set(cfg, strings.TrimSpace(args[1])); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: cfg})
		},
	}
}
