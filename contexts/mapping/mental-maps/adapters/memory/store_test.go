package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
	"mentalmaps/contexts/mapping/mental-maps/ports"
	"mentalmaps/internal/shared/events"
	"mentalmaps/internal/shared/outbox"
)

var baseTime = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func seedMap(t *testing.T, store *Store, mapID string, ownerID string) entities.Map {
	t.Helper()
	m := entities.Map{
		MapID:      mapID,
		OwnerID:    ownerID,
		Title:      "Map " + mapID,
		Visibility: entities.VisibilityPrivate,
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime,
	}
	if err := store.CreateMap(context.Background(), m); err != nil {
		t.Fatalf("create map %s failed: %v", mapID, err)
	}
	return m
}

func seedReport(t *testing.T, store *Store, reportID string, mapID string) {
	t.Helper()
	err := store.CreateReportWithOutbox(context.Background(), entities.Report{
		ReportID:  reportID,
		MapID:     mapID,
		AuthorID:  "user-c",
		Reason:    "spam",
		Status:    entities.ReportStatusNew,
		CreatedAt: baseTime,
	}, ports.ReportCreatedEvent{EventID: "evt-" + reportID, ReportID: reportID, MapID: mapID, OccurredAt: baseTime})
	if err != nil {
		t.Fatalf("create report %s failed: %v", reportID, err)
	}
}

func TestDeleteMapCascadeRemovesElementsAndReports(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")
	seedMap(t, store, "map_b", "user-a")

	for _, id := range []string{"el_1", "el_2"} {
		if err := store.AddElement(ctx, entities.Element{ElementID: id, MapID: "map_a", Type: "pin"}, baseTime); err != nil {
			t.Fatalf("add element failed: %v", err)
		}
	}
	seedReport(t, store, "rep_1", "map_a")
	seedReport(t, store, "rep_2", "map_b")
	seedReport(t, store, "rep_3", "map_a")

	result, err := store.DeleteMapCascade(ctx, ports.MapDeletedEvent{
		EventID:    "evt-delete",
		MapID:      "map_a",
		OccurredAt: baseTime.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("cascade delete failed: %v", err)
	}
	if result.ElementsRemoved != 2 {
		t.Fatalf("expected 2 elements removed, got %d", result.ElementsRemoved)
	}
	if len(result.ReportIDsRemoved) != 2 || result.ReportIDsRemoved[0] != "rep_3" || result.ReportIDsRemoved[1] != "rep_1" {
		t.Fatalf("expected reports [rep_3 rep_1] removed, got %v", result.ReportIDsRemoved)
	}

	if _, err := store.GetMap(ctx, "map_a"); !errors.Is(err, domainerrors.ErrMapNotFound) {
		t.Fatalf("expected map not found after cascade, got %v", err)
	}
	if _, err := store.ListElements(ctx, "map_a"); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected elements gone with map, got %v", err)
	}
	for _, reportID := range []string{"rep_1", "rep_3"} {
		if _, err := store.GetReport(ctx, reportID); !errors.Is(err, domainerrors.ErrReportNotFound) {
			t.Fatalf("expected report %s removed, got %v", reportID, err)
		}
	}
	reports, err := store.ListReports(ctx)
	if err != nil {
		t.Fatalf("list reports failed: %v", err)
	}
	if len(reports) != 1 || reports[0].ReportID != "rep_2" {
		t.Fatalf("expected only rep_2 to survive in the index, got %+v", reports)
	}
}

func TestDeleteMapCascadeWritesOutboxEvent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")
	seedReport(t, store, "rep_1", "map_a")

	if _, err := store.DeleteMapCascade(ctx, ports.MapDeletedEvent{EventID: "evt-delete", MapID: "map_a", OccurredAt: baseTime}); err != nil {
		t.Fatalf("cascade delete failed: %v", err)
	}

	messages := store.OutboxEvents()
	if len(messages) != 2 {
		t.Fatalf("expected report + delete outbox rows, got %d", len(messages))
	}
	last := messages[1]
	if last.EventType != events.TypeMapDeleted || last.Status != outbox.StatusPending {
		t.Fatalf("unexpected outbox row %+v", last)
	}
	var envelope events.Envelope
	if err := json.Unmarshal(last.Payload, &envelope); err != nil {
		t.Fatalf("decode envelope failed: %v", err)
	}
	var data struct {
		MapID            string   `json:"mapId"`
		OwnerID          string   `json:"ownerId"`
		ReportIDsRemoved []string `json:"reportIdsRemoved"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if data.MapID != "map_a" || data.OwnerID != "user-a" || len(data.ReportIDsRemoved) != 1 {
		t.Fatalf("unexpected event data %+v", data)
	}
}

func TestDeleteMissingMapIsNotFoundAndWritesNothing(t *testing.T) {
	store := NewStore(nil)
	_, err := store.DeleteMapCascade(context.Background(), ports.MapDeletedEvent{EventID: "evt", MapID: "map_missing"})
	if !errors.Is(err, domainerrors.ErrMapNotFound) {
		t.Fatalf("expected map not found, got %v", err)
	}
	if len(store.OutboxEvents()) != 0 {
		t.Fatalf("expected no outbox rows for a failed delete")
	}
}

func TestElementsKeepInsertionOrderAndTouchParent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")

	for i, id := range []string{"el_3", "el_1", "el_2"} {
		touched := baseTime.Add(time.Duration(i+1) * time.Minute)
		if err := store.AddElement(ctx, entities.Element{ElementID: id, MapID: "map_a", Type: "pin"}, touched); err != nil {
			t.Fatalf("add element failed: %v", err)
		}
	}
	if err := store.DeleteElement(ctx, "map_a", "el_1", baseTime.Add(10*time.Minute)); err != nil {
		t.Fatalf("delete element failed: %v", err)
	}

	items, err := store.ListElements(ctx, "map_a")
	if err != nil {
		t.Fatalf("list elements failed: %v", err)
	}
	if len(items) != 2 || items[0].ElementID != "el_3" || items[1].ElementID != "el_2" {
		t.Fatalf("unexpected element order %+v", items)
	}
	m, _ := store.GetMap(ctx, "map_a")
	if !m.UpdatedAt.Equal(baseTime.Add(10 * time.Minute)) {
		t.Fatalf("expected parent touched by delete, got %s", m.UpdatedAt)
	}
}

func TestDeleteMissingElementIsNotFound(t *testing.T) {
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")
	err := store.DeleteElement(context.Background(), "map_a", "el_missing", baseTime)
	if !errors.Is(err, domainerrors.ErrElementNotFound) {
		t.Fatalf("expected element not found, got %v", err)
	}
	if err := store.AddElement(context.Background(), entities.Element{ElementID: "el_1", MapID: "map_gone"}, baseTime); !errors.Is(err, domainerrors.ErrMapNotFound) {
		t.Fatalf("expected map not found when adding to a missing map, got %v", err)
	}
}

func TestElementStyleIsNotAliased(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")
	style := map[string]any{"color": "red"}
	if err := store.AddElement(ctx, entities.Element{ElementID: "el_1", MapID: "map_a", Style: style}, baseTime); err != nil {
		t.Fatalf("add element failed: %v", err)
	}
	style["color"] = "blue"

	element, err := store.GetElement(ctx, "map_a", "el_1")
	if err != nil {
		t.Fatalf("get element failed: %v", err)
	}
	if element.Style["color"] != "red" {
		t.Fatalf("stored style changed through caller map: %v", element.Style)
	}
}

func TestReportIndexIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")
	seedReport(t, store, "rep_1", "map_a")
	seedReport(t, store, "rep_2", "map_a")
	seedReport(t, store, "rep_3", "map_a")

	if err := store.DeleteReport(ctx, "rep_2"); err != nil {
		t.Fatalf("delete report failed: %v", err)
	}
	reports, err := store.ListReports(ctx)
	if err != nil {
		t.Fatalf("list reports failed: %v", err)
	}
	if len(reports) != 2 || reports[0].ReportID != "rep_3" || reports[1].ReportID != "rep_1" {
		t.Fatalf("unexpected report order %+v", reports)
	}
	if err := store.DeleteReport(ctx, "rep_2"); !errors.Is(err, domainerrors.ErrReportNotFound) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}
}

func TestCreateReportForMissingMap(t *testing.T) {
	store := NewStore(nil)
	err := store.CreateReportWithOutbox(context.Background(), entities.Report{ReportID: "rep_1", MapID: "map_missing"}, ports.ReportCreatedEvent{EventID: "evt"})
	if !errors.Is(err, domainerrors.ErrReportMapNotFound) {
		t.Fatalf("expected report map not found, got %v", err)
	}
}

func TestIdempotencyRecordExpires(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	record := ports.IdempotencyRecord{Key: "k", RequestHash: "h1", ExpiresAt: baseTime.Add(time.Hour)}
	if _, reserved, err := store.Reserve(ctx, record, baseTime); err != nil || !reserved {
		t.Fatalf("expected reservation, reserved=%v err=%v", reserved, err)
	}
	if err := store.Complete(ctx, "k", []byte(`{"mapId":"map_1"}`)); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if got, found, _ := store.Get(ctx, "k", baseTime); !found || string(got.Payload) != `{"mapId":"map_1"}` {
		t.Fatalf("expected completed record before expiry, got %+v found=%v", got, found)
	}
	if _, found, _ := store.Get(ctx, "k", baseTime.Add(2*time.Hour)); found {
		t.Fatalf("expected record to expire")
	}
}

func TestIdempotencyReserveHoldsKeyUntilReleased(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	record := ports.IdempotencyRecord{Key: "k", RequestHash: "h1", ExpiresAt: baseTime.Add(time.Hour)}
	if _, reserved, _ := store.Reserve(ctx, record, baseTime); !reserved {
		t.Fatalf("expected first reservation to succeed")
	}

	existing, reserved, err := store.Reserve(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h2"}, baseTime)
	if err != nil || reserved {
		t.Fatalf("expected key to stay held, reserved=%v err=%v", reserved, err)
	}
	if existing.RequestHash != "h1" || len(existing.Payload) != 0 {
		t.Fatalf("expected pending holder with h1, got %+v", existing)
	}

	if err := store.Release(ctx, "k"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, reserved, _ := store.Reserve(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h2"}, baseTime); !reserved {
		t.Fatalf("expected key to be free after release")
	}
}

func TestIdempotencyReserveReplacesExpiredHolder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	if _, reserved, _ := store.Reserve(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", ExpiresAt: baseTime.Add(time.Minute)}, baseTime); !reserved {
		t.Fatalf("expected first reservation to succeed")
	}
	if _, reserved, _ := store.Reserve(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h2"}, baseTime.Add(time.Hour)); !reserved {
		t.Fatalf("expected expired holder to be replaced")
	}
}

func TestCompleteWithoutReservationFails(t *testing.T) {
	store := NewStore(nil)
	if err := store.Complete(context.Background(), "missing", []byte("{}")); !errors.Is(err, domainerrors.ErrRepositoryInvariantBroke) {
		t.Fatalf("expected invariant error, got %v", err)
	}
}

func TestDeleteMapCascadeRejectsReusedEventID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")
	seedReport(t, store, "rep_1", "map_a")
	if err := store.AddElement(ctx, entities.Element{ElementID: "el_1", MapID: "map_a", Type: "pin"}, baseTime); err != nil {
		t.Fatalf("add element failed: %v", err)
	}

	_, err := store.DeleteMapCascade(ctx, ports.MapDeletedEvent{EventID: "evt-rep_1", MapID: "map_a", OccurredAt: baseTime})
	if !errors.Is(err, domainerrors.ErrRepositoryInvariantBroke) {
		t.Fatalf("expected invariant error for reused event id, got %v", err)
	}
	if _, err := store.GetMap(ctx, "map_a"); err != nil {
		t.Fatalf("expected map to survive rejected cascade, got %v", err)
	}
	if _, err := store.GetReport(ctx, "rep_1"); err != nil {
		t.Fatalf("expected report to survive rejected cascade, got %v", err)
	}
	if got := len(store.OutboxEvents()); got != 1 {
		t.Fatalf("expected original outbox row only, got %d", got)
	}
	if got := store.OutboxEvents()[0].EventType; got != events.TypeReportCreated {
		t.Fatalf("expected report event to be kept, got %s", got)
	}
}

func TestCreateReportRejectsReusedEventID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")
	seedReport(t, store, "rep_1", "map_a")

	err := store.CreateReportWithOutbox(ctx,
		entities.Report{ReportID: "rep_2", MapID: "map_a", Status: entities.ReportStatusNew, CreatedAt: baseTime},
		ports.ReportCreatedEvent{EventID: "evt-rep_1", ReportID: "rep_2", MapID: "map_a", OccurredAt: baseTime},
	)
	if !errors.Is(err, domainerrors.ErrRepositoryInvariantBroke) {
		t.Fatalf("expected invariant error for reused event id, got %v", err)
	}
	if _, err := store.GetReport(ctx, "rep_2"); !errors.Is(err, domainerrors.ErrReportNotFound) {
		t.Fatalf("expected rejected report to be absent, got %v", err)
	}
}

func TestOutboxMarkSent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	seedMap(t, store, "map_a", "user-a")
	seedReport(t, store, "rep_1", "map_a")

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending row, got %d err=%v", len(pending), err)
	}
	if err := store.MarkOutboxSent(ctx, pending[0].ID, baseTime); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	pending, _ = store.ListPendingOutbox(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after mark sent, got %d", len(pending))
	}
}

func TestOutboxPrunesSentRowsBeyondRetention(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	store.sentRetention = 1
	seedMap(t, store, "map_a", "user-a")
	for _, id := range []string{"rep_1", "rep_2", "rep_3"} {
		seedReport(t, store, id, "map_a")
	}

	for _, id := range []string{"evt-rep_1", "evt-rep_2"} {
		if err := store.MarkOutboxSent(ctx, id, baseTime); err != nil {
			t.Fatalf("mark sent %s failed: %v", id, err)
		}
	}

	rows := store.OutboxEvents()
	if len(rows) != 2 {
		t.Fatalf("expected one sent and one pending row, got %d", len(rows))
	}
	if rows[0].ID != "evt-rep_2" || rows[0].Status != outbox.StatusSent {
		t.Fatalf("expected newest sent row to be retained, got %+v", rows[0])
	}
	if rows[1].ID != "evt-rep_3" || rows[1].Status != outbox.StatusPending {
		t.Fatalf("expected pending row to survive pruning, got %+v", rows[1])
	}
	if err := store.MarkOutboxSent(ctx, "evt-rep_2", baseTime); err != nil {
		t.Fatalf("expected repeated mark sent to be a no-op, got %v", err)
	}
}
