package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
	"mentalmaps/contexts/mapping/mental-maps/domain/services"
	"mentalmaps/contexts/mapping/mental-maps/ports"
)

// ReportService handles moderation complaints. Filing a report only needs an
// authenticated caller; everything else is reserved for moderators.
type ReportService struct {
	Maps           ports.MapRepository
	Reports        ports.ReportRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type ReportPage struct {
	Items      []entities.Report
	NextCursor *string
}

// Create files a report against any existing map, including private maps the
// caller cannot read.
func (s ReportService) Create(ctx context.Context, actor entities.Actor, cmd CreateReportCommand) (entities.Report, error) {
	logger := ResolveLogger(s.Logger)

	validation := &domainerrors.ValidationError{}
	mapID := cmd.MapID.Value
	if !cmd.MapID.Valid || mapID == "" {
		validation.Add("mapId", issueRequired)
	}
	reason := strings.TrimSpace(cmd.Reason.Value)
	if !cmd.Reason.Valid || reason == "" {
		validation.Add("reason", issueRequired)
	}
	if err := validation.Err(); err != nil {
		return entities.Report{}, err
	}
	comment := cmd.Comment.ValueOr("")

	requestHash, err := hashRequest(struct {
		MapID   string `json:"map_id"`
		Reason  string `json:"reason"`
		Comment string `json:"comment"`
	}{mapID, reason, comment})
	if err != nil {
		return entities.Report{}, err
	}

	now := s.now()
	runner := idempotentRunner{store: s.Idempotency, ttl: s.IdempotencyTTL, now: now, logger: logger}
	var created entities.Report
	err = runner.run(ctx, scopedKey("reports", actor.ID, cmd.IdempotencyKey), requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &created) },
		func() ([]byte, error) {
			if _, err := s.Maps.GetMap(ctx, mapID); err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return nil, domainerrors.ErrReportMapNotFound
				}
				return nil, err
			}
			report := entities.Report{
				MapID:     mapID,
				AuthorID:  actor.ID,
				Reason:    reason,
				Comment:   comment,
				Status:    entities.ReportStatusNew,
				CreatedAt: now,
			}
			err := withFreshIDs(func() error {
				reportID, err := s.IDGenerator.NewID(ctx, "rep")
				if err != nil {
					return err
				}
				eventID, err := s.IDGenerator.NewID(ctx, "evt")
				if err != nil {
					return err
				}
				report.ReportID = reportID
				return s.Reports.CreateReportWithOutbox(ctx, report, ports.ReportCreatedEvent{
					EventID:    eventID,
					ReportID:   report.ReportID,
					MapID:      report.MapID,
					AuthorID:   report.AuthorID,
					Reason:     report.Reason,
					OccurredAt: now,
				})
			})
			if err != nil {
				return nil, err
			}
			logger.Info("report filed",
				"event", "mentalmaps_report_created",
				"module", moduleName,
				"layer", "application",
				"report_id", report.ReportID,
				"map_id", report.MapID,
				"author_id", report.AuthorID,
			)
			return json.Marshal(report)
		},
	)
	if err != nil {
		return entities.Report{}, err
	}
	return created, nil
}

// List walks the newest-first report index.
func (s ReportService) List(ctx context.Context, actor entities.Actor, query ListReportsQuery) (ReportPage, error) {
	if !services.CanModerate(actor) {
		return ReportPage{}, domainerrors.ErrModeratorRequired
	}
	items, err := s.Reports.ListReports(ctx)
	if err != nil {
		return ReportPage{}, err
	}
	if query.HasStatus {
		filtered := make([]entities.Report, 0, len(items))
		for _, report := range items {
			if string(report.Status) == query.Status {
				filtered = append(filtered, report)
			}
		}
		items = filtered
	}
	page, next := services.Paginate(items, services.NewPageRequest(query.Limit, query.Cursor))
	return ReportPage{Items: page, NextCursor: next}, nil
}

func (s ReportService) Update(ctx context.Context, actor entities.Actor, reportID string, cmd UpdateReportCommand) (entities.Report, error) {
	if !services.CanModerate(actor) {
		return entities.Report{}, domainerrors.ErrModeratorRequired
	}
	report, err := s.Reports.GetReport(ctx, reportID)
	if err != nil {
		return entities.Report{}, err
	}

	validation := &domainerrors.ValidationError{}
	if cmd.empty() {
		validation.Add("body", issueNoUpdatableFields)
	}
	if cmd.Status.Present && (!cmd.Status.Valid || !entities.ReportStatus(cmd.Status.Value).IsValid()) {
		validation.Add("status", issueInvalidValue)
	}
	if cmd.Comment.Present && !cmd.Comment.Valid {
		validation.Add("comment", issueString)
	}
	if err := validation.Err(); err != nil {
		return entities.Report{}, err
	}

	previous := report.Status
	if cmd.Status.Present {
		report.Status = entities.ReportStatus(cmd.Status.Value)
	}
	if cmd.Comment.Present {
		report.Comment = cmd.Comment.Value
	}
	if err := s.Reports.UpdateReport(ctx, report); err != nil {
		return entities.Report{}, err
	}
	ResolveLogger(s.Logger).Info("report updated",
		"event", "mentalmaps_report_updated",
		"module", moduleName,
		"layer", "application",
		"report_id", report.ReportID,
		"moderator_id", actor.ID,
		"from_status", string(previous),
		"to_status", string(report.Status),
	)
	return report, nil
}

func (s ReportService) Delete(ctx context.Context, actor entities.Actor, reportID string) error {
	if !services.CanModerate(actor) {
		return domainerrors.ErrModeratorRequired
	}
	return s.Reports.DeleteReport(ctx, reportID)
}

func (s ReportService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
