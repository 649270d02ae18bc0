package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitoshi/hrms/internal/settings"
)

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change persisted application settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
				return printJSON(cmd.OutOrStdout(), app.Settings.Get())
			}),
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting",
			Long: `Change one setting. Keys: theme (light|dark), language, dateFormat,
timeFormat (h12|h24), pageSize, autoSaveInterval (milliseconds).`,
			Args: cobra.ExactArgs(2),
			RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
				patch, err := parseSettingsPatch(args[0], args[1])
				if err != nil {
					return err
				}
				updated, err := app.Settings.Update(ctx, patch)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), updated)
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default settings",
			Args:  cobra.NoArgs,
			RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
				if err := app.Settings.Reset(ctx); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), app.Settings.Get())
			}),
		},
	)
	return cmd
}

// parseSettingsPatch はキーと文字列値から部分更新を組み立てる。
func parseSettingsPatch(key, value string) (settings.Patch, error) {
	var p settings.Patch
	switch key {
	case "theme":
		theme := settings.Theme(value)
		if theme != settings.ThemeLight && theme != settings.ThemeDark {
			return p, fmt.Errorf("invalid theme %q: expected light or dark", value)
		}
		p.Theme = &theme
	case "language":
		p.Language = &value
	case "dateFormat":
		p.DateFormat = &value
	case "timeFormat":
		tf := settings.TimeFormat(value)
		if tf != settings.TimeFormat12h && tf != settings.TimeFormat24h {
			return p, fmt.Errorf("invalid timeFormat %q: expected h12 or h24", value)
		}
		p.TimeFormat = &tf
	case "pageSize", "autoSaveInterval":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return p, fmt.Errorf("invalid %s %q: expected a positive integer", key, value)
		}
		if key == "pageSize" {
			p.PageSize = &n
		} else {
			p.AutoSaveInterval = &n
		}
	default:
		return p, fmt.Errorf("unknown setting %q", key)
	}
	return p, nil
}
