package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/ljbaker/turkhit/pkg/ledger"
	"google.golang.org/api/calendar/v3"
)

// HITIDProperty is the private extended property carrying the HIT ID.
const HITIDProperty = "mturk_hit_id"

// ConvertHITToEvent builds an event spanning the HIT from creation to expiry.
func ConvertHITToEvent(rec ledger.Record, title, previewURL string) *calendar.Event {
	var desc strings.Builder
	fmt.Fprintf(&desc, "HIT: %s\n", rec.HITID)
	fmt.Fprintf(&desc, "Preset: %s\n", rec.Preset)
	fmt.Fprintf(&desc, "Endpoint: %s\n", rec.Endpoint)
	if previewURL != "" {
		fmt.Fprintf(&desc, "Preview: %s\n", previewURL)
	}

	return &calendar.Event{
		Summary:     fmt.Sprintf("[%s] %s", rec.Preset, title),
		Description: desc.String(),
		Start: &calendar.EventDateTime{
			DateTime: rec.CreatedAt.UTC().Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: rec.ExpiresAt.UTC().Format(time.RFC3339),
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				HITIDProperty: rec.HITID,
			},
		},
	}
}

// EventNeedsUpdate returns a patch carrying the fields of target that differ
// from existing, or nil when they match.
func EventNeedsUpdate(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if !sameTime(existing.Start, target.Start) || !sameTime(existing.End, target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func sameTime(a, b *calendar.EventDateTime) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, errA := time.Parse(time.RFC3339, a.DateTime)
	tb, errB := time.Parse(time.RFC3339, b.DateTime)
	if errA != nil || errB != nil {
		return a.DateTime == b.DateTime
	}
	return ta.Equal(tb)
}
