package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/ljbaker/turkhit/pkg/auth"
	"github.com/ljbaker/turkhit/pkg/config"
	"github.com/ljbaker/turkhit/pkg/google"
	"github.com/ljbaker/turkhit/pkg/hit"
	"github.com/ljbaker/turkhit/pkg/ledger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPreviewCommand(o *options) *cobra.Command {
	var presetName string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the CreateHIT request for a preset without sending it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			preset, err := hit.LookupPreset(presetName)
			if err != nil {
				return configError{err}
			}
			input, err := preset.Request.Input()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(o.out)
			enc.SetIndent("", "  ")
			return enc.Encode(input)
		},
	}
	cmd.Flags().StringVarP(&presetName, "preset", "p", hit.PresetSandbox, fmt.Sprintf("parameter preset %v", hit.PresetNames()))
	return cmd
}

func newAuthCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Calendar access for HIT annotations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := auth.ResetToken(); err != nil {
				return err
			}
			srv, err := auth.GetCalendarService(ctx)
			if err != nil {
				return errors.Wrap(err, "authentication failed")
			}
			tokenPath, err := auth.TokenPath()
			if err != nil {
				return err
			}
			zap.L().Info("authentication successful", zap.String("token", tokenPath))

			// Only check the calendar when one is configured.
			cfg, err := config.Read(o.configPath)
			if err != nil || cfg.Calendar.Name == "" {
				return nil
			}
			if _, err := google.FindCalendarID(ctx, srv, cfg.Calendar.Name); err != nil {
				return err
			}
			fmt.Fprintf(o.out, "Calendar %q is reachable\n", cfg.Calendar.Name)
			return nil
		},
	}
}

func newLedgerCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect HITs created from this machine",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every recorded HIT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, led, err := openLedger(o)
			if err != nil {
				return err
			}
			return printRecords(o, led.All())
		},
	}

	var prune bool
	expired := &cobra.Command{
		Use:   "expired",
		Short: "List recorded HITs whose lifetime has ended",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, led, err := openLedger(o)
			if err != nil {
				return err
			}
			if !prune {
				return printRecords(o, led.Expired(now()))
			}
			records := led.Prune(now())
			if err := led.Save(); err != nil {
				return errors.Wrap(err, "failed to save ledger")
			}
			zap.L().Info("pruned expired HITs", zap.Int("count", len(records)))
			forget(cmd.Context(), cfg.Calendar.Name, records)
			return printRecords(o, records)
		},
	}
	expired.Flags().BoolVar(&prune, "prune", false, "remove the expired records from the ledger and their calendar events")

	cmd.AddCommand(list, expired)
	return cmd
}

// openLedger needs no marketplace credentials; the ledger is local.
func openLedger(o *options) (*config.Config, *ledger.Ledger, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return nil, nil, configError{errors.Wrap(err, "failed to load config")}
	}
	led, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, led, nil
}

func printRecords(o *options, records []ledger.Record) error {
	t := now()
	w := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HIT ID\tPRESET\tCREATED\tEXPIRES\tSTATUS")
	for _, r := range records {
		status := "expired"
		if r.Live(t) {
			status = "live"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.HITID, r.Preset, r.CreatedAt.Format(time.RFC3339), r.ExpiresAt.Format(time.RFC3339), status)
	}
	return w.Flush()
}

func newConfigCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit the turkhit configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-calendar NAME",
		Short: "Set the Google Calendar that receives HIT annotations (empty disables)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetCalendar(o.configPath, args[0]); err != nil {
				return errors.Wrap(err, "error saving config")
			}
			fmt.Fprintf(o.out, "Default calendar set to: %s\n", args[0])
			return nil
		},
	})
	return cmd
}
