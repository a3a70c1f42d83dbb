package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ljbaker/turkhit/pkg/auth"
	"github.com/ljbaker/turkhit/pkg/config"
	"github.com/ljbaker/turkhit/pkg/google"
	"github.com/ljbaker/turkhit/pkg/hit"
	"github.com/ljbaker/turkhit/pkg/ledger"
	"github.com/ljbaker/turkhit/pkg/logutil"
	"github.com/ljbaker/turkhit/pkg/marketplace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

const createTimeout = 60 * time.Second

// ErrDuplicate is returned by a guarded create when the same request already
// has a live HIT.
var ErrDuplicate = errors.New("an identical HIT is still live")

type hitCreator interface {
	CreateHIT(ctx context.Context, req hit.Request) (*marketplace.Created, error)
}

type hitRecorder interface {
	RecordHIT(ctx context.Context, rec ledger.Record, title, previewURL string) (*calendar.Event, error)
	ForgetHIT(ctx context.Context, hitID string) error
}

// Replaced in tests.
var (
	newMarketplace = func(ctx context.Context, endpoint marketplace.Endpoint, creds marketplace.Credentials) (hitCreator, error) {
		return marketplace.NewClient(ctx, endpoint, creds)
	}
	newCalendar = func(ctx context.Context, name string) (hitRecorder, error) {
		return google.NewClient(ctx, name)
	}
	now = time.Now
)

func newCreateCommand(o *options) *cobra.Command {
	var (
		presetName string
		guard      bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create one HIT from a preset and print its ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			preset, err := hit.LookupPreset(presetName)
			if err != nil {
				return configError{err}
			}
			return runCreate(cmd, o, preset, guard)
		},
	}
	cmd.Flags().StringVarP(&presetName, "preset", "p", hit.PresetSandbox, fmt.Sprintf("parameter preset %v", hit.PresetNames()))
	cmd.Flags().BoolVar(&guard, "guard", false, "refuse to post when an identical HIT is still live")
	return cmd
}

func runCreate(cmd *cobra.Command, o *options, preset hit.Preset, guard bool) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return configError{errors.Wrap(err, "failed to load config")}
	}
	if !cmd.Flags().Changed(FlagLogLevel) && cfg.LogLevel != o.logLevel {
		if err := logutil.Init(cfg.LogLevel); err != nil {
			return configError{err}
		}
	}

	endpoint, err := marketplace.EndpointFor(preset.Environment)
	if err != nil {
		return configError{err}
	}

	req := preset.Request
	fingerprint := req.Fingerprint()

	led, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		zap.L().Warn("ledger unavailable, HIT will not be recorded locally", zap.String("path", cfg.Ledger.Path), zap.Error(err))
		led = nil
	}

	if guard {
		if led != nil {
			if rec, ok := led.Lookup(fingerprint, now()); ok {
				return errors.Wrapf(ErrDuplicate, "HIT %s expires %s", rec.HITID, rec.ExpiresAt.Format(time.RFC3339))
			}
		}
		req.UniqueToken = requestToken(preset.Name, fingerprint, led)
	}

	if preset.Environment == hit.EnvProduction {
		zap.L().Warn("posting a billable HIT to the production marketplace",
			zap.Int32("maxAssignments", req.MaxAssignments),
			zap.String("reward", hit.FormatReward(req.Reward)))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), createTimeout)
	defer cancel()

	client, err := newMarketplace(ctx, endpoint, marketplace.Credentials{
		AccessKeyID:     cfg.Credentials.AccessKeyID,
		SecretAccessKey: cfg.Credentials.SecretAccessKey,
	})
	if err != nil {
		return err
	}

	created, err := client.CreateHIT(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(o.out, created.HITID)

	rec := newRecord(preset, endpoint, fingerprint, created)
	var preview string
	if created.HITGroupID != "" {
		preview = endpoint.Preview(created.HITGroupID)
	}
	zap.L().Info("HIT created",
		zap.String("hitID", rec.HITID),
		zap.String("preset", preset.Name),
		zap.Time("expires", rec.ExpiresAt),
		zap.String("preview", preview))

	if led != nil {
		led.Add(rec)
		if err := led.Save(); err != nil {
			zap.L().Warn("failed to save ledger", zap.String("path", led.Path), zap.Error(err))
		}
	}

	annotate(ctx, cfg.Calendar.Name, rec, req.Title, preview)
	return nil
}

// requestToken derives the UniqueRequestToken for a guarded create. It is
// stable across retries of the same submission and changes once a HIT for
// the fingerprint has been recorded, so a re-post after expiry is accepted.
func requestToken(presetName, fingerprint string, led *ledger.Ledger) string {
	generation := 0
	if led != nil {
		generation = led.Count(fingerprint)
	}
	name := fmt.Sprintf("turkhit:%s:%s:%d", presetName, fingerprint, generation)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func newRecord(preset hit.Preset, endpoint marketplace.Endpoint, fingerprint string, created *marketplace.Created) ledger.Record {
	createdAt := created.CreationTime
	if createdAt.IsZero() {
		createdAt = now()
	}
	expiresAt := created.Expiration
	if expiresAt.IsZero() {
		expiresAt = createdAt.Add(preset.Request.Lifetime)
	}
	return ledger.Record{
		HITID:       created.HITID,
		HITTypeID:   created.HITTypeID,
		HITGroupID:  created.HITGroupID,
		Preset:      preset.Name,
		Endpoint:    endpoint.URL,
		Fingerprint: fingerprint,
		CreatedAt:   createdAt.UTC(),
		ExpiresAt:   expiresAt.UTC(),
	}
}

// openCalendar returns the configured calendar, or false when annotations are
// off or not authorized yet. Problems are logged, never returned.
func openCalendar(ctx context.Context, calendarName string) (hitRecorder, bool) {
	if calendarName == "" {
		return nil, false
	}
	tokenPath, err := auth.TokenPath()
	if err != nil {
		zap.L().Warn("calendar skipped", zap.Error(err))
		return nil, false
	}
	if _, err := os.Stat(tokenPath); err != nil {
		zap.L().Warn("calendar skipped, run `turkhit auth` first", zap.String("calendar", calendarName))
		return nil, false
	}

	cal, err := newCalendar(ctx, calendarName)
	if err != nil {
		zap.L().Warn("could not open calendar", zap.String("calendar", calendarName), zap.Error(err))
		return nil, false
	}
	return cal, true
}

// annotate records the HIT window in Google Calendar. It never fails the
// command.
func annotate(ctx context.Context, calendarName string, rec ledger.Record, title, preview string) {
	cal, ok := openCalendar(ctx, calendarName)
	if !ok {
		return
	}
	event, err := cal.RecordHIT(ctx, rec, title, preview)
	if err != nil {
		zap.L().Warn("could not record HIT in calendar", zap.String("hitID", rec.HITID), zap.Error(err))
		return
	}
	zap.L().Info("HIT recorded in calendar", zap.String("calendar", calendarName), zap.String("eventID", event.Id))
}

// forget removes the calendar events of pruned HITs.
func forget(ctx context.Context, calendarName string, records []ledger.Record) {
	if len(records) == 0 {
		return
	}
	cal, ok := openCalendar(ctx, calendarName)
	if !ok {
		return
	}
	for _, r := range records {
		if err := cal.ForgetHIT(ctx, r.HITID); err != nil {
			zap.L().Warn("could not remove HIT from calendar", zap.String("hitID", r.HITID), zap.Error(err))
		}
	}
}
