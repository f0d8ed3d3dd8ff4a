package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"mentalmaps/contexts/mapping/mental-maps/adapters/memory"
	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
	"mentalmaps/contexts/mapping/mental-maps/domain/valueobjects"
	"mentalmaps/internal/shared/events"
)

var (
	owner     = entities.Actor{ID: "user-a", Role: entities.RoleRegular}
	stranger  = entities.Actor{ID: "user-b", Role: entities.RoleRegular}
	moderator = entities.Actor{ID: "mod-1", Role: entities.RoleModerator}
)

type fixture struct {
	store   *memory.Store
	maps    MapService
	reports ReportService
}

// newFixture advances the clock by one second on every read so timestamps are ordered.
func newFixture() fixture {
	store := memory.NewStore(nil)
	current := time.Date(2026, time.January, 10, 8, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		current = current.Add(time.Second)
		return current
	})
	return fixture{
		store: store,
		maps: MapService{
			Maps:        store,
			Elements:    store,
			Idempotency: store,
			Clock:       store,
			IDGenerator: store,
		},
		reports: ReportService{
			Maps:        store,
			Reports:     store,
			Idempotency: store,
			Clock:       store,
			IDGenerator: store,
		},
	}
}

func (f fixture) createMap(t *testing.T, actor entities.Actor, title string, visibility entities.Visibility) entities.Map {
	t.Helper()
	m, err := f.maps.Create(context.Background(), actor, CreateMapCommand{
		Title:      valueobjects.Set(title),
		Visibility: valueobjects.Set(string(visibility)),
	})
	if err != nil {
		t.Fatalf("create map failed: %v", err)
	}
	return m
}

func validationDetails(t *testing.T, err error) []domainerrors.FieldIssue {
	t.Helper()
	var validation *domainerrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return validation.Details
}

func TestCreateMapDefaultsAndTrims(t *testing.T) {
	f := newFixture()
	m, err := f.maps.Create(context.Background(), owner, CreateMapCommand{Title: valueobjects.Set("  Trip  ")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.Title != "Trip" || m.Visibility != entities.VisibilityPrivate || m.Description != "" {
		t.Fatalf("unexpected map %+v", m)
	}
	if m.OwnerID != owner.ID || !m.CreatedAt.Equal(m.UpdatedAt) {
		t.Fatalf("expected owner stamp and equal timestamps, got %+v", m)
	}
}

func TestCreateMapCollectsEveryIssue(t *testing.T) {
	f := newFixture()
	_, err := f.maps.Create(context.Background(), owner, CreateMapCommand{
		Title:      valueobjects.Set("   "),
		Visibility: valueobjects.Set("friends"),
	})
	details := validationDetails(t, err)
	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %+v", details)
	}
	if details[0] != (domainerrors.FieldIssue{Field: "title", Issue: "required"}) {
		t.Fatalf("unexpected first detail %+v", details[0])
	}
	if details[1] != (domainerrors.FieldIssue{Field: "visibility", Issue: "must be 'private' or 'public'"}) {
		t.Fatalf("unexpected second detail %+v", details[1])
	}
}

func TestCreateMapIdempotentReplay(t *testing.T) {
	f := newFixture()
	cmd := CreateMapCommand{IdempotencyKey: "key-1", Title: valueobjects.Set("Trip")}
	first, err := f.maps.Create(context.Background(), owner, cmd)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := f.maps.Create(context.Background(), owner, cmd)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if first.MapID != second.MapID {
		t.Fatalf("expected replay to return %s, got %s", first.MapID, second.MapID)
	}

	other, err := f.maps.Create(context.Background(), stranger, cmd)
	if err != nil {
		t.Fatalf("create by another caller failed: %v", err)
	}
	if other.MapID == first.MapID {
		t.Fatalf("idempotency keys must be scoped per caller")
	}

	cmd.Title = valueobjects.Set("Other trip")
	if _, err := f.maps.Create(context.Background(), owner, cmd); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestGetMapChecksExistenceBeforePermission(t *testing.T) {
	f := newFixture()
	private := f.createMap(t, owner, "Secret", entities.VisibilityPrivate)

	if _, err := f.maps.Get(context.Background(), stranger, "map_missing"); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.maps.Get(context.Background(), stranger, private.MapID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.maps.Get(context.Background(), moderator, private.MapID); err != nil {
		t.Fatalf("moderator read failed: %v", err)
	}
}

func TestListMapsOwnOnlySortedAndPaginated(t *testing.T) {
	f := newFixture()
	first := f.createMap(t, owner, "First", entities.VisibilityPublic)
	second := f.createMap(t, owner, "Second", entities.VisibilityPrivate)
	third := f.createMap(t, owner, "Third", entities.VisibilityPublic)
	f.createMap(t, stranger, "Not mine", entities.VisibilityPublic)

	if _, err := f.maps.Update(context.Background(), owner, first.MapID, UpdateMapCommand{Description: valueobjects.Set("bumped")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	page, err := f.maps.List(context.Background(), owner, ListMapsQuery{Limit: "2"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].MapID != first.MapID || page.Items[1].MapID != third.MapID {
		t.Fatalf("unexpected first page %+v", page.Items)
	}
	if page.NextCursor == nil || *page.NextCursor != "2" {
		t.Fatalf("expected next cursor 2, got %v", page.NextCursor)
	}

	page, err = f.maps.List(context.Background(), owner, ListMapsQuery{Limit: "2", Cursor: *page.NextCursor})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].MapID != second.MapID || page.NextCursor != nil {
		t.Fatalf("unexpected last page %+v next=%v", page.Items, page.NextCursor)
	}

	page, _ = f.maps.List(context.Background(), owner, ListMapsQuery{Visibility: "public"})
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 public maps, got %d", len(page.Items))
	}
	page, _ = f.maps.List(context.Background(), owner, ListMapsQuery{Visibility: "everyone"})
	if len(page.Items) != 3 {
		t.Fatalf("expected unknown filter to be ignored, got %d", len(page.Items))
	}
	page, _ = f.maps.List(context.Background(), moderator, ListMapsQuery{})
	if len(page.Items) != 0 {
		t.Fatalf("moderators only list their own maps, got %d", len(page.Items))
	}
}

func TestUpdateMapEmptyPatchDoesNotTouch(t *testing.T) {
	f := newFixture()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPrivate)

	_, err := f.maps.Update(context.Background(), owner, m.MapID, UpdateMapCommand{})
	details := validationDetails(t, err)
	if len(details) != 1 || details[0].Field != "body" || details[0].Issue != "no_updatable_fields" {
		t.Fatalf("unexpected details %+v", details)
	}
	stored, _ := f.store.GetMap(context.Background(), m.MapID)
	if !stored.UpdatedAt.Equal(m.UpdatedAt) {
		t.Fatalf("empty patch changed updatedAt: %s -> %s", m.UpdatedAt, stored.UpdatedAt)
	}
}

func TestUpdateMapValidatesSuppliedFields(t *testing.T) {
	f := newFixture()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPrivate)

	_, err := f.maps.Update(context.Background(), owner, m.MapID, UpdateMapCommand{
		Title:       valueobjects.Set(""),
		Description: valueobjects.Invalid[string](),
		Visibility:  valueobjects.Set("hidden"),
	})
	details := validationDetails(t, err)
	want := []domainerrors.FieldIssue{
		{Field: "title", Issue: "must be non-empty string"},
		{Field: "description", Issue: "must be string"},
		{Field: "visibility", Issue: "must be 'private' or 'public'"},
	}
	if len(details) != len(want) {
		t.Fatalf("expected %d details, got %+v", len(want), details)
	}
	for i := range want {
		if details[i] != want[i] {
			t.Fatalf("detail %d: expected %+v, got %+v", i, want[i], details[i])
		}
	}

	updated, err := f.maps.Update(context.Background(), moderator, m.MapID, UpdateMapCommand{Visibility: valueobjects.Set("public")})
	if err != nil {
		t.Fatalf("moderator update failed: %v", err)
	}
	if updated.Visibility != entities.VisibilityPublic || !updated.UpdatedAt.After(m.UpdatedAt) || updated.Title != "Trip" {
		t.Fatalf("unexpected updated map %+v", updated)
	}
	if _, err := f.maps.Update(context.Background(), stranger, m.MapID, UpdateMapCommand{Title: valueobjects.Set("Mine")}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func TestDeleteMapCascadesAndRecordsEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPublic)
	if _, err := f.maps.AddElement(ctx, owner, m.MapID, AddElementCommand{
		Type: valueobjects.Set("pin"), X: valueobjects.Set(1.5), Y: valueobjects.Set(2.5),
	}); err != nil {
		t.Fatalf("add element failed: %v", err)
	}
	report, err := f.reports.Create(ctx, stranger, CreateReportCommand{MapID: valueobjects.Set(m.MapID), Reason: valueobjects.Set("spam")})
	if err != nil {
		t.Fatalf("create report failed: %v", err)
	}

	if _, err := f.maps.Delete(ctx, stranger, m.MapID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	result, err := f.maps.Delete(ctx, owner, m.MapID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.ElementsRemoved != 1 || len(result.ReportIDsRemoved) != 1 || result.ReportIDsRemoved[0] != report.ReportID {
		t.Fatalf("unexpected cascade result %+v", result)
	}
	if _, err := f.maps.Get(ctx, owner, m.MapID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected map gone, got %v", err)
	}
	if _, err := f.maps.ListElements(ctx, owner, m.MapID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected elements gone, got %v", err)
	}
	page, err := f.reports.List(ctx, moderator, ListReportsQuery{})
	if err != nil || len(page.Items) != 0 {
		t.Fatalf("expected no reports after cascade, got %+v err=%v", page.Items, err)
	}

	rows := f.store.OutboxEvents()
	if len(rows) != 2 || rows[0].EventType != events.TypeReportCreated || rows[1].EventType != events.TypeMapDeleted {
		t.Fatalf("unexpected outbox rows %+v", rows)
	}
}

func TestAddElementValidationAndDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPrivate)

	_, err := f.maps.AddElement(ctx, owner, m.MapID, AddElementCommand{X: valueobjects.Invalid[float64]()})
	details := validationDetails(t, err)
	if len(details) != 3 || details[0].Field != "type" || details[1].Field != "x" || details[2].Field != "y" {
		t.Fatalf("unexpected details %+v", details)
	}

	element, err := f.maps.AddElement(ctx, owner, m.MapID, AddElementCommand{
		Type:    valueobjects.Set("note"),
		X:       valueobjects.Set(0.0),
		Y:       valueobjects.Set(-3.0),
		Content: valueobjects.Invalid[string](),
		Style:   valueobjects.Invalid[map[string]any](),
	})
	if err != nil {
		t.Fatalf("add element failed: %v", err)
	}
	if element.Content != "" || element.Style == nil || len(element.Style) != 0 {
		t.Fatalf("expected defaults for wrongly typed optional fields, got %+v", element)
	}
	stored, _ := f.store.GetMap(ctx, m.MapID)
	if !stored.UpdatedAt.After(m.UpdatedAt) {
		t.Fatalf("expected parent map to be touched")
	}
}

func TestUpdateElementOrderOfChecks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPublic)
	element, err := f.maps.AddElement(ctx, owner, m.MapID, AddElementCommand{
		Type: valueobjects.Set("pin"), X: valueobjects.Set(1.0), Y: valueobjects.Set(1.0),
	})
	if err != nil {
		t.Fatalf("add element failed: %v", err)
	}

	if _, err := f.maps.UpdateElement(ctx, owner, "map_missing", element.ElementID, UpdateElementCommand{}); !errors.Is(err, domainerrors.ErrMapNotFound) {
		t.Fatalf("expected map not found first, got %v", err)
	}
	if _, err := f.maps.UpdateElement(ctx, stranger, m.MapID, "el_missing", UpdateElementCommand{}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden before element lookup, got %v", err)
	}
	if _, err := f.maps.UpdateElement(ctx, owner, m.MapID, "el_missing", UpdateElementCommand{}); !errors.Is(err, domainerrors.ErrElementNotFound) {
		t.Fatalf("expected element not found, got %v", err)
	}

	_, err = f.maps.UpdateElement(ctx, owner, m.MapID, element.ElementID, UpdateElementCommand{
		Type:  valueobjects.Set(" "),
		Style: valueobjects.Invalid[map[string]any](),
	})
	details := validationDetails(t, err)
	if len(details) != 2 || details[0].Issue != "must be non-empty string" || details[1].Issue != "must be object" {
		t.Fatalf("unexpected details %+v", details)
	}

	updated, err := f.maps.UpdateElement(ctx, owner, m.MapID, element.ElementID, UpdateElementCommand{
		Type:  valueobjects.Set(" label "),
		Style: valueobjects.Set(map[string]any{"color": "red"}),
	})
	if err != nil {
		t.Fatalf("update element failed: %v", err)
	}
	if updated.Type != "label" || updated.X != 1.0 || updated.Style["color"] != "red" {
		t.Fatalf("unexpected element %+v", updated)
	}
}

func TestDeleteElement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPublic)
	element, _ := f.maps.AddElement(ctx, owner, m.MapID, AddElementCommand{
		Type: valueobjects.Set("pin"), X: valueobjects.Set(1.0), Y: valueobjects.Set(1.0),
	})

	if err := f.maps.DeleteElement(ctx, stranger, m.MapID, element.ElementID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := f.maps.DeleteElement(ctx, owner, m.MapID, element.ElementID); err != nil {
		t.Fatalf("delete element failed: %v", err)
	}
	if err := f.maps.DeleteElement(ctx, owner, m.MapID, element.ElementID); !errors.Is(err, domainerrors.ErrElementNotFound) {
		t.Fatalf("expected element not found on second delete, got %v", err)
	}
	items, err := f.maps.ListElements(ctx, stranger, m.MapID)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty element list, got %+v err=%v", items, err)
	}
}

func TestCreateReportRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	private := f.createMap(t, owner, "Secret", entities.VisibilityPrivate)

	_, err := f.reports.Create(ctx, stranger, CreateReportCommand{Reason: valueobjects.Set(" ")})
	details := validationDetails(t, err)
	if len(details) != 2 || details[0].Field != "mapId" || details[1].Field != "reason" {
		t.Fatalf("unexpected details %+v", details)
	}

	_, err = f.reports.Create(ctx, stranger, CreateReportCommand{MapID: valueobjects.Set("map_missing"), Reason: valueobjects.Set("spam")})
	if !errors.Is(err, domainerrors.ErrNotFound) || err.Error() != "cannot create report: map not found" {
		t.Fatalf("expected report map not found, got %v", err)
	}

	report, err := f.reports.Create(ctx, stranger, CreateReportCommand{
		MapID:  valueobjects.Set(private.MapID),
		Reason: valueobjects.Set("  spam "),
	})
	if err != nil {
		t.Fatalf("filing against an unreadable map must succeed: %v", err)
	}
	if report.Status != entities.ReportStatusNew || report.Reason != "spam" || report.AuthorID != stranger.ID {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestReportModerationIsModeratorOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPublic)
	report, err := f.reports.Create(ctx, stranger, CreateReportCommand{MapID: valueobjects.Set(m.MapID), Reason: valueobjects.Set("spam")})
	if err != nil {
		t.Fatalf("create report failed: %v", err)
	}

	if _, err := f.reports.List(ctx, stranger, ListReportsQuery{}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden list, got %v", err)
	}
	if _, err := f.reports.Update(ctx, owner, "rep_missing", UpdateReportCommand{}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden before lookup, got %v", err)
	}
	if err := f.reports.Delete(ctx, stranger, report.ReportID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}

	_, err = f.reports.Update(ctx, moderator, report.ReportID, UpdateReportCommand{Status: valueobjects.Set("closed")})
	details := validationDetails(t, err)
	if len(details) != 1 || details[0] != (domainerrors.FieldIssue{Field: "status", Issue: "invalid value"}) {
		t.Fatalf("unexpected details %+v", details)
	}

	updated, err := f.reports.Update(ctx, moderator, report.ReportID, UpdateReportCommand{Status: valueobjects.Set("resolved")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != entities.ReportStatusResolved {
		t.Fatalf("expected resolved, got %s", updated.Status)
	}

	page, err := f.reports.List(ctx, moderator, ListReportsQuery{Status: "new", HasStatus: true})
	if err != nil || len(page.Items) != 0 {
		t.Fatalf("expected no new reports, got %+v err=%v", page.Items, err)
	}
	page, err = f.reports.List(ctx, moderator, ListReportsQuery{Status: "resolved", HasStatus: true})
	if err != nil || len(page.Items) != 1 {
		t.Fatalf("expected one resolved report, got %+v err=%v", page.Items, err)
	}

	if err := f.reports.Delete(ctx, moderator, report.ReportID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := f.reports.Delete(ctx, moderator, report.ReportID); !errors.Is(err, domainerrors.ErrReportNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListReportsPaginationVisitsEveryReportOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPublic)
	for i := 0; i < 7; i++ {
		if _, err := f.reports.Create(ctx, stranger, CreateReportCommand{MapID: valueobjects.Set(m.MapID), Reason: valueobjects.Set("spam")}); err != nil {
			t.Fatalf("create report failed: %v", err)
		}
	}

	seen := map[string]bool{}
	cursor := ""
	for pages := 0; pages < 10; pages++ {
		page, err := f.reports.List(ctx, moderator, ListReportsQuery{Limit: "3", Cursor: cursor})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		for _, report := range page.Items {
			if seen[report.ReportID] {
				t.Fatalf("report %s visited twice", report.ReportID)
			}
			seen[report.ReportID] = true
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}
	if len(seen) != 7 {
		t.Fatalf("expected to visit 7 reports, got %d", len(seen))
	}
}

func TestCreateInputsKeptVerbatim(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.createMap(t, owner, "Trip", entities.VisibilityPublic)

	for _, raw := range []string{"  pin ", "   "} {
		element, err := f.maps.AddElement(ctx, owner, m.MapID, AddElementCommand{
			Type: valueobjects.Set(raw),
			X:    valueobjects.Set(1.0),
			Y:    valueobjects.Set(1.0),
		})
		if err != nil {
			t.Fatalf("add element with type %q failed: %v", raw, err)
		}
		if element.Type != raw {
			t.Fatalf("expected type %q stored verbatim, got %q", raw, element.Type)
		}
	}

	_, err := f.reports.Create(ctx, stranger, CreateReportCommand{
		MapID:  valueobjects.Set(" " + m.MapID + " "),
		Reason: valueobjects.Set("spam"),
	})
	if !errors.Is(err, domainerrors.ErrReportMapNotFound) {
		t.Fatalf("expected padded map id to miss, got %v", err)
	}
	_, err = f.reports.Create(ctx, stranger, CreateReportCommand{MapID: valueobjects.Set(""), Reason: valueobjects.Set("spam")})
	details := validationDetails(t, err)
	if len(details) != 1 || details[0].Field != "mapId" {
		t.Fatalf("unexpected details %+v", details)
	}
}
