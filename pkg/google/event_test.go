package google

import (
	"strings"
	"testing"
	"time"

	"github.com/ljbaker/turkhit/pkg/ledger"
	"google.golang.org/api/calendar/v3"
)

func testRecord() ledger.Record {
	created := time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)
	return ledger.Record{
		HITID:     "3HIT",
		Preset:    "sandbox",
		Endpoint:  "https://mturk-requester-sandbox.us-east-1.amazonaws.com",
		CreatedAt: created,
		ExpiresAt: created.Add(6 * time.Hour),
	}
}

func TestConvertHITToEvent(t *testing.T) {
	event := ConvertHITToEvent(testRecord(), "Identifying Facial Expressions", "https://workersandbox.mturk.com/mturk/preview?groupId=3G")

	if event.Summary != "[sandbox] Identifying Facial Expressions" {
		t.Errorf("unexpected summary %q", event.Summary)
	}
	if event.Start.DateTime != "2026-10-19T14:00:00Z" {
		t.Errorf("expected start at creation, got %s", event.Start.DateTime)
	}
	if event.End.DateTime != "2026-10-19T20:00:00Z" {
		t.Errorf("expected end at expiry, got %s", event.End.DateTime)
	}
	if event.ExtendedProperties == nil || event.ExtendedProperties.Private[HITIDProperty] != "3HIT" {
		t.Fatalf("expected %s=3HIT, got %+v", HITIDProperty, event.ExtendedProperties)
	}
	if !strings.Contains(event.Description, "Preview: https://workersandbox.mturk.com") {
		t.Errorf("expected preview link in description, got: %s", event.Description)
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	target := ConvertHITToEvent(testRecord(), "Title", "")

	same := *target
	same.Start = &calendar.EventDateTime{DateTime: "2026-10-19T16:00:00+02:00"}
	if patch := EventNeedsUpdate(&same, target); patch != nil {
		t.Errorf("expected no patch for equal instants, got %+v", patch)
	}

	moved := *target
	moved.End = &calendar.EventDateTime{DateTime: "2026-10-19T21:00:00Z"}
	moved.Summary = "old"
	patch := EventNeedsUpdate(&moved, target)
	if patch == nil {
		t.Fatal("expected patch")
	}
	if patch.Summary != target.Summary || patch.End != target.End {
		t.Errorf("unexpected patch %+v", patch)
	}
	if patch.Description != "" {
		t.Errorf("description should not be patched, got %q", patch.Description)
	}
}
