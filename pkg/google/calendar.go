package google

import (
	"context"
	"fmt"

	"github.com/ljbaker/turkhit/pkg/ledger"
	"github.com/pkg/errors"
	"google.golang.org/api/calendar/v3"
)

// CalendarClient records posted HITs in a Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
}

func NewCalendarClient(srv *calendar.Service, calendarID string) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID}
}

// RecordHIT inserts an event covering the HIT's lifetime, or patches the
// existing one when the HIT was already recorded.
func (c *CalendarClient) RecordHIT(ctx context.Context, rec ledger.Record, title, previewURL string) (*calendar.Event, error) {
	event := ConvertHITToEvent(rec, title, previewURL)

	existing, err := c.GetEventByHITID(ctx, rec.HITID)
	if err != nil {
		return nil, errors.Wrap(err, "error searching for event")
	}
	if existing != nil {
		if patch := EventNeedsUpdate(existing, event); patch != nil {
			return c.PatchEvent(ctx, existing.Id, patch)
		}
		return existing, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "unable to insert event")
	}
	return created, nil
}

func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// ForgetHIT deletes the event recorded for hitID, if any.
func (c *CalendarClient) ForgetHIT(ctx context.Context, hitID string) error {
	event, err := c.GetEventByHITID(ctx, hitID)
	if err != nil {
		return errors.Wrap(err, "error searching for event")
	}
	if event == nil {
		return nil
	}
	return c.DeleteEvent(ctx, event.Id)
}

// GetEventByHITID finds the event tagged with hitID, or nil.
func (c *CalendarClient) GetEventByHITID(ctx context.Context, hitID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", HITIDProperty, hitID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
