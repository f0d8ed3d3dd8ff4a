package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
	"mentalmaps/contexts/mapping/mental-maps/domain/services"
	"mentalmaps/contexts/mapping/mental-maps/ports"
)

const (
	issueRequired          = "required"
	issueVisibility        = "must be 'private' or 'public'"
	issueNoUpdatableFields = "no_updatable_fields"
	issueNonEmptyString    = "must be non-empty string"
	issueString            = "must be string"
	issueNumber            = "must be number"
	issueObject            = "must be object"
	issueInvalidValue      = "invalid value"
)

// MapService owns the map and element workflows. Every operation resolves the
// map first so a missing map is reported before any permission decision.
type MapService struct {
	Maps           ports.MapRepository
	Elements       ports.ElementRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// MapPage is one page of the caller's maps plus the cursor of the next page.
type MapPage struct {
	Items      []entities.Map
	NextCursor *string
}

func (s MapService) Create(ctx context.Context, actor entities.Actor, cmd CreateMapCommand) (entities.Map, error) {
	logger := ResolveLogger(s.Logger)

	validation := &domainerrors.ValidationError{}
	title := strings.TrimSpace(cmd.Title.Value)
	if !cmd.Title.Valid || title == "" {
		validation.Add("title", issueRequired)
	}
	visibility := entities.VisibilityPrivate
	if cmd.Visibility.Present {
		visibility = entities.Visibility(cmd.Visibility.Value)
		if !cmd.Visibility.Valid || !visibility.IsValid() {
			validation.Add("visibility", issueVisibility)
		}
	}
	if err := validation.Err(); err != nil {
		return entities.Map{}, err
	}
	description := cmd.Description.ValueOr("")

	requestHash, err := hashRequest(struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Visibility  string `json:"visibility"`
	}{title, description, string(visibility)})
	if err != nil {
		return entities.Map{}, err
	}

	now := s.now()
	runner := idempotentRunner{store: s.Idempotency, ttl: s.IdempotencyTTL, now: now, logger: logger}
	var created entities.Map
	err = runner.run(ctx, scopedKey("maps", actor.ID, cmd.IdempotencyKey), requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &created) },
		func() ([]byte, error) {
			m := entities.Map{
				OwnerID:     actor.ID,
				Title:       title,
				Description: description,
				Visibility:  visibility,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			err := withFreshIDs(func() error {
				mapID, err := s.IDGenerator.NewID(ctx, "map")
				if err != nil {
					return err
				}
				m.MapID = mapID
				return s.Maps.CreateMap(ctx, m)
			})
			if err != nil {
				return nil, err
			}
			logger.Info("map created",
				"event", "mentalmaps_map_created",
				"module", moduleName,
				"layer", "application",
				"map_id", m.MapID,
				"owner_id", m.OwnerID,
				"visibility", string(m.Visibility),
			)
			return json.Marshal(m)
		},
	)
	if err != nil {
		return entities.Map{}, err
	}
	return created, nil
}

// List returns only the caller's own maps, moderators included.
func (s MapService) List(ctx context.Context, actor entities.Actor, query ListMapsQuery) (MapPage, error) {
	items, err := s.Maps.ListMapsByOwner(ctx, actor.ID)
	if err != nil {
		return MapPage{}, err
	}

	// Unknown visibility filters are ignored rather than rejected.
	filter := entities.Visibility(query.Visibility)
	if filter.IsValid() {
		filtered := make([]entities.Map, 0, len(items))
		for _, m := range items {
			if m.Visibility == filter {
				filtered = append(filtered, m)
			}
		}
		items = filtered
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	page, next := services.Paginate(items, services.NewPageRequest(query.Limit, query.Cursor))
	return MapPage{Items: page, NextCursor: next}, nil
}

func (s MapService) Get(ctx context.Context, actor entities.Actor, mapID string) (entities.Map, error) {
	m, err := s.Maps.GetMap(ctx, mapID)
	if err != nil {
		return entities.Map{}, err
	}
	if !services.CanRead(actor, m) {
		return entities.Map{}, domainerrors.ErrMapReadForbidden
	}
	return m, nil
}

func (s MapService) Update(ctx context.Context, actor entities.Actor, mapID string, cmd UpdateMapCommand) (entities.Map, error) {
	m, err := s.Maps.GetMap(ctx, mapID)
	if err != nil {
		return entities.Map{}, err
	}
	if !services.CanWrite(actor, m) {
		return entities.Map{}, domainerrors.ErrMapWriteForbidden
	}

	validation := &domainerrors.ValidationError{}
	if cmd.empty() {
		validation.Add("body", issueNoUpdatableFields)
	}
	if cmd.Title.Present && (!cmd.Title.Valid || strings.TrimSpace(cmd.Title.Value) == "") {
		validation.Add("title", issueNonEmptyString)
	}
	if cmd.Description.Present && !cmd.Description.Valid {
		validation.Add("description", issueString)
	}
	if cmd.Visibility.Present && (!cmd.Visibility.Valid || !entities.Visibility(cmd.Visibility.Value).IsValid()) {
		validation.Add("visibility", issueVisibility)
	}
	if err := validation.Err(); err != nil {
		return entities.Map{}, err
	}

	if cmd.Title.Present {
		m.Title = strings.TrimSpace(cmd.Title.Value)
	}
	if cmd.Description.Present {
		m.Description = cmd.Description.Value
	}
	if cmd.Visibility.Present {
		m.Visibility = entities.Visibility(cmd.Visibility.Value)
	}
	m.Touch(s.now())
	if err := s.Maps.UpdateMap(ctx, m); err != nil {
		return entities.Map{}, err
	}
	return m, nil
}

// Delete removes the map together with its elements and every report filed
// against it, and records a map-deleted event in the same store step.
func (s MapService) Delete(ctx context.Context, actor entities.Actor, mapID string) (ports.CascadeResult, error) {
	logger := ResolveLogger(s.Logger)
	m, err := s.Maps.GetMap(ctx, mapID)
	if err != nil {
		return ports.CascadeResult{}, err
	}
	if !services.CanWrite(actor, m) {
		return ports.CascadeResult{}, domainerrors.ErrMapDeleteForbidden
	}

	var result ports.CascadeResult
	err = withFreshIDs(func() error {
		eventID, err := s.IDGenerator.NewID(ctx, "evt")
		if err != nil {
			return err
		}
		result, err = s.Maps.DeleteMapCascade(ctx, ports.MapDeletedEvent{
			EventID:    eventID,
			MapID:      m.MapID,
			OwnerID:    m.OwnerID,
			OccurredAt: s.now(),
		})
		return err
	})
	if err != nil {
		logger.Error("map cascade delete failed",
			"event", "mentalmaps_map_delete_failed",
			"module", moduleName,
			"layer", "application",
			"map_id", mapID,
			"error", err.Error(),
		)
		return ports.CascadeResult{}, err
	}
	logger.Info("map deleted",
		"event", "mentalmaps_map_deleted",
		"module", moduleName,
		"layer", "application",
		"map_id", result.MapID,
		"actor_id", actor.ID,
		"elements_removed", result.ElementsRemoved,
		"reports_removed", len(result.ReportIDsRemoved),
	)
	return result, nil
}

func (s MapService) AddElement(ctx context.Context, actor entities.Actor, mapID string, cmd AddElementCommand) (entities.Element, error) {
	m, err := s.Maps.GetMap(ctx, mapID)
	if err != nil {
		return entities.Element{}, err
	}
	if !services.CanWrite(actor, m) {
		return entities.Element{}, domainerrors.ErrMapWriteForbidden
	}

	validation := &domainerrors.ValidationError{}
	if !cmd.Type.Valid || cmd.Type.Value == "" {
		validation.Add("type", issueRequired)
	}
	if !cmd.X.Valid {
		validation.Add("x", issueNumber)
	}
	if !cmd.Y.Valid {
		validation.Add("y", issueNumber)
	}
	if err := validation.Err(); err != nil {
		return entities.Element{}, err
	}

	style := cmd.Style.ValueOr(nil)
	if style == nil {
		style = map[string]any{}
	}
	now := s.now()
	element := entities.Element{
		MapID:     m.MapID,
		Type:      cmd.Type.Value,
		X:         cmd.X.Value,
		Y:         cmd.Y.Value,
		Content:   cmd.Content.ValueOr(""),
		Style:     style,
		CreatedAt: now,
	}
	err = withFreshIDs(func() error {
		elementID, err := s.IDGenerator.NewID(ctx, "el")
		if err != nil {
			return err
		}
		element.ElementID = elementID
		return s.Elements.AddElement(ctx, element, now)
	})
	if err != nil {
		return entities.Element{}, err
	}
	return element, nil
}

func (s MapService) ListElements(ctx context.Context, actor entities.Actor, mapID string) ([]entities.Element, error) {
	m, err := s.Maps.GetMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if !services.CanRead(actor, m) {
		return nil, domainerrors.ErrElementReadForbidden
	}
	return s.Elements.ListElements(ctx, mapID)
}

// UpdateElement checks the map, then write access, then the element, so a
// caller without write access cannot learn which element ids exist.
func (s MapService) UpdateElement(ctx context.Context, actor entities.Actor, mapID string, elementID string, cmd UpdateElementCommand) (entities.Element, error) {
	m, err := s.Maps.GetMap(ctx, mapID)
	if err != nil {
		return entities.Element{}, err
	}
	if !services.CanWrite(actor, m) {
		return entities.Element{}, domainerrors.ErrElementWriteForbidden
	}
	element, err := s.Elements.GetElement(ctx, mapID, elementID)
	if err != nil {
		return entities.Element{}, err
	}

	validation := &domainerrors.ValidationError{}
	if cmd.empty() {
		validation.Add("body", issueNoUpdatableFields)
	}
	if cmd.Type.Present && (!cmd.Type.Valid || strings.TrimSpace(cmd.Type.Value) == "") {
		validation.Add("type", issueNonEmptyString)
	}
	if cmd.X.Present && !cmd.X.Valid {
		validation.Add("x", issueNumber)
	}
	if cmd.Y.Present && !cmd.Y.Valid {
		validation.Add("y", issueNumber)
	}
	if cmd.Content.Present && !cmd.Content.Valid {
		validation.Add("content", issueString)
	}
	if cmd.Style.Present && (!cmd.Style.Valid || cmd.Style.Value == nil) {
		validation.Add("style", issueObject)
	}
	if err := validation.Err(); err != nil {
		return entities.Element{}, err
	}

	if cmd.Type.Present {
		element.Type = strings.TrimSpace(cmd.Type.Value)
	}
	if cmd.X.Present {
		element.X = cmd.X.Value
	}
	if cmd.Y.Present {
		element.Y = cmd.Y.Value
	}
	if cmd.Content.Present {
		element.Content = cmd.Content.Value
	}
	if cmd.Style.Present {
		element.Style = cmd.Style.Value
	}
	if err := s.Elements.UpdateElement(ctx, element, s.now()); err != nil {
		return entities.Element{}, err
	}
	return element, nil
}

func (s MapService) DeleteElement(ctx context.Context, actor entities.Actor, mapID string, elementID string) error {
	m, err := s.Maps.GetMap(ctx, mapID)
	if err != nil {
		return err
	}
	if !services.CanWrite(actor, m) {
		return domainerrors.ErrElementDeleteForbidden
	}
	return s.Elements.DeleteElement(ctx, mapID, elementID, s.now())
}

func (s MapService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
