package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/calview/internal/calendar"
	"github.com/username/calview/internal/config"
	"github.com/username/calview/internal/daemon"
	"github.com/username/calview/internal/render"
	"github.com/username/calview/internal/state"
	"github.com/username/calview/pkg/dateutil"
)

// setup loads config and builds the app for a command
func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newApp(cfg, logger)
}

func monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YEAR MONTH]",
		Short: "Show a month grid (default: current month)",
		Args:  argsZeroOrTwo,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			today := a.today()
			year, month := today.Year, today.Month
			if len(args) == 2 {
				if year, month, err = parseYearMonth(args[0], args[1]); err != nil {
					return err
				}
			}

			if err := a.state.SetMonth(year, month); err != nil {
				return err
			}
			return a.show(cmd.Context(), *a.state.State())
		},
	}
}

func weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week [ISOYEAR WEEK]",
		Short: "Show an ISO week (default: current week)",
		Args:  argsZeroOrTwo,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			ref, err := calendar.ToIsoWeek(a.today())
			if err != nil {
				return err
			}
			if len(args) == 2 {
				if ref, err = parseIsoWeek(args[0], args[1]); err != nil {
					return err
				}
			}

			if err := a.state.SetWeek(ref.Year, ref.Week); err != nil {
				return err
			}
			return a.show(cmd.Context(), *a.state.State())
		},
	}
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show a day agenda (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			d := a.today()
			if len(args) == 1 {
				if d, err = dateutil.Parse(args[0]); err != nil {
					return err
				}
			}

			if err := a.state.SetDay(d); err != nil {
				return err
			}
			return a.show(cmd.Context(), *a.state.State())
		},
	}
}

func stepCmd(use, short string, forward bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			var st state.ViewState
			if forward {
				st, err = a.state.Next(a.today(), calendar.ViewMonth)
			} else {
				st, err = a.state.Prev(a.today(), calendar.ViewMonth)
			}
			if err != nil {
				return err
			}
			return a.show(cmd.Context(), st)
		},
	}
}

func todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Return the last view to the period containing today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			mode := calendar.ViewMonth
			if st := a.state.State(); st != nil {
				mode = st.View
			}
			if err := a.state.Reset(mode, a.today()); err != nil {
				return err
			}
			return a.show(cmd.Context(), *a.state.State())
		},
	}
}

func isoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "iso [YYYY-MM-DD]",
		Short: "Print the ISO year and week of a date (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			d := a.today()
			if len(args) == 1 {
				if d, err = dateutil.Parse(args[0]); err != nil {
					return err
				}
			}

			ref, err := calendar.ToIsoWeek(d)
			if err != nil {
				return err
			}
			dates, err := calendar.IsoWeekDates(ref.Year, ref.Week, a.engine.Options().FirstWeekday)
			if err != nil {
				return err
			}
			return render.New(a.out, a.engine.Labeler()).IsoWeek(d, ref, dates)
		},
	}
}

func watchCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the current period on the watch schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			mode := a.cfg.Watch.GetWatchView()
			if view != "" {
				if mode, err = calendar.ParseViewMode(view); err != nil {
					return err
				}
			}

			d, err := daemon.NewDaemon(a.cfg.Watch.Schedule, func(ctx context.Context, now time.Time) error {
				st, err := state.ForDate(mode, dateutil.Of(now), now)
				if err != nil {
					return err
				}
				a.reloadNotes()
				fmt.Fprint(a.out, "\033[H\033[2J")
				return a.show(ctx, st)
			}, logger)
			if err != nil {
				return err
			}

			logger.Info("Starting watch",
				zap.String("view", string(mode)),
				zap.String("schedule", a.cfg.Watch.Schedule))
			return d.Start()
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "View to re-render: month, week or day (default: watch.view)")

	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = "config.yaml"
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote default config to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}

func argsZeroOrTwo(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
	}
	return nil
}

func parseYearMonth(yearArg, monthArg string) (int, time.Month, error) {
	year, err := strconv.Atoi(yearArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q: %w", yearArg, dateutil.ErrInvalidInput)
	}
	month, err := strconv.Atoi(monthArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", monthArg, dateutil.ErrInvalidInput)
	}
	ym, err := calendar.NewYearMonth(year, time.Month(month))
	if err != nil {
		return 0, 0, err
	}
	return ym.Year, ym.Month, nil
}

func parseIsoWeek(yearArg, weekArg string) (calendar.IsoWeekRef, error) {
	year, err := strconv.Atoi(yearArg)
	if err != nil {
		return calendar.IsoWeekRef{}, fmt.Errorf("invalid ISO year %q: %w", yearArg, dateutil.ErrInvalidInput)
	}
	week, err := strconv.Atoi(weekArg)
	if err != nil {
		return calendar.IsoWeekRef{}, fmt.Errorf("invalid ISO week %q: %w", weekArg, dateutil.ErrInvalidInput)
	}
	if err := calendar.ValidateIsoWeek(year, week); err != nil {
		return calendar.IsoWeekRef{}, err
	}
	return calendar.IsoWeekRef{Year: year, Week: week}, nil
}
