package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
	"mentalmaps/contexts/mapping/mental-maps/ports"
	"mentalmaps/internal/shared/events"
	"mentalmaps/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements every storage port on Postgres. Multi-row mutations
// (cascade delete, element writes, report filing) run in one transaction with
// the parent map row locked.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or extends the mental-maps tables. It never drops columns.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&mapModel{},
		&elementModel{},
		&reportModel{},
		&idempotencyModel{},
		&outboxModel{},
	)
}

func (r *Repository) CreateMap(ctx context.Context, m entities.Map) error {
	row := mapModelFromEntity(m)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) GetMap(ctx context.Context, mapID string) (entities.Map, error) {
	var row mapModel
	err := r.db.WithContext(ctx).
		Where("map_id = ?", mapID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Map{}, domainerrors.ErrMapNotFound
		}
		return entities.Map{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMapsByOwner(ctx context.Context, ownerID string) ([]entities.Map, error) {
	var rows []mapModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Order("map_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Map, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateMap(ctx context.Context, m entities.Map) error {
	result := r.db.WithContext(ctx).
		Model(&mapModel{}).
		Where("map_id = ?", m.MapID).
		Updates(map[string]any{
			"title":       m.Title,
			"description": m.Description,
			"visibility":  string(m.Visibility),
			"updated_at":  m.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMapNotFound
	}
	return nil
}

func (r *Repository) DeleteMapCascade(ctx context.Context, event ports.MapDeletedEvent) (ports.CascadeResult, error) {
	var result ports.CascadeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parent, err := lockMap(tx, event.MapID)
		if err != nil {
			return err
		}
		result = ports.CascadeResult{
			MapID:            parent.MapID,
			OwnerID:          parent.OwnerID,
			ReportIDsRemoved: make([]string, 0),
		}

		removed := tx.Where("map_id = ?", parent.MapID).Delete(&elementModel{})
		if removed.Error != nil {
			return removed.Error
		}
		result.ElementsRemoved = int(removed.RowsAffected)

		if err := tx.Model(&reportModel{}).
			Where("map_id = ?", parent.MapID).
			Order("created_at DESC").
			Order("report_id DESC").
			Pluck("report_id", &result.ReportIDsRemoved).
			Error; err != nil {
			return err
		}
		if err := tx.Where("map_id = ?", parent.MapID).Delete(&reportModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("map_id = ?", parent.MapID).Delete(&mapModel{}).Error; err != nil {
			return err
		}

		if event.OwnerID == "" {
			event.OwnerID = parent.OwnerID
		}
		envelope, err := event.Envelope(result)
		if err != nil {
			return err
		}
		return insertOutbox(tx, envelope)
	})
	if err != nil {
		return ports.CascadeResult{}, err
	}
	r.logger.Debug("map cascade removed from postgres",
		"event", "postgres_delete_map_cascade",
		"module", "mapping/mental-maps",
		"layer", "adapter",
		"map_id", result.MapID,
		"elements_removed", result.ElementsRemoved,
		"reports_removed", len(result.ReportIDsRemoved),
	)
	return result, nil
}

func (r *Repository) ListElements(ctx context.Context, mapID string) ([]entities.Element, error) {
	if _, err := r.GetMap(ctx, mapID); err != nil {
		return nil, err
	}
	var rows []elementModel
	if err := r.db.WithContext(ctx).
		Where("map_id = ?", mapID).
		Order("position ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Element, 0, len(rows))
	for _, row := range rows {
		element, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, element)
	}
	return items, nil
}

func (r *Repository) GetElement(ctx context.Context, mapID string, elementID string) (entities.Element, error) {
	if _, err := r.GetMap(ctx, mapID); err != nil {
		return entities.Element{}, err
	}
	var row elementModel
	err := r.db.WithContext(ctx).
		Where("map_id = ? AND element_id = ?", mapID, elementID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Element{}, domainerrors.ErrElementNotFound
		}
		return entities.Element{}, err
	}
	return row.toEntity()
}

func (r *Repository) AddElement(ctx context.Context, element entities.Element, touchedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parent, err := lockMap(tx, element.MapID)
		if err != nil {
			return err
		}
		var position int64
		if err := tx.Model(&elementModel{}).
			Where("map_id = ?", element.MapID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&position).
			Error; err != nil {
			return err
		}
		row, err := elementModelFromEntity(element, position+1)
		if err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}
		return touchMap(tx, parent, touchedAt)
	})
}

func (r *Repository) UpdateElement(ctx context.Context, element entities.Element, touchedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parent, err := lockMap(tx, element.MapID)
		if err != nil {
			return err
		}
		style := element.Style
		if style == nil {
			style = map[string]any{}
		}
		rawStyle, err := json.Marshal(style)
		if err != nil {
			return err
		}
		result := tx.Model(&elementModel{}).
			Where("map_id = ? AND element_id = ?", element.MapID, element.ElementID).
			Updates(map[string]any{
				"type":    element.Type,
				"x":       element.X,
				"y":       element.Y,
				"content": element.Content,
				"style":   string(rawStyle),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrElementNotFound
		}
		return touchMap(tx, parent, touchedAt)
	})
}

func (r *Repository) DeleteElement(ctx context.Context, mapID string, elementID string, touchedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parent, err := lockMap(tx, mapID)
		if err != nil {
			return err
		}
		result := tx.Where("map_id = ? AND element_id = ?", mapID, elementID).Delete(&elementModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrElementNotFound
		}
		return touchMap(tx, parent, touchedAt)
	})
}

func (r *Repository) CreateReportWithOutbox(ctx context.Context, report entities.Report, event ports.ReportCreatedEvent) error {
	envelope, err := event.Envelope()
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMap(tx, report.MapID); err != nil {
			if errors.Is(err, domainerrors.ErrMapNotFound) {
				return domainerrors.ErrReportMapNotFound
			}
			return err
		}
		row := reportModelFromEntity(report)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}
		return insertOutbox(tx, envelope)
	})
}

func (r *Repository) GetReport(ctx context.Context, reportID string) (entities.Report, error) {
	var row reportModel
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Report{}, domainerrors.ErrReportNotFound
		}
		return entities.Report{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListReports(ctx context.Context) ([]entities.Report, error) {
	var rows []reportModel
	if err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "report_id"}, Desc: true}).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Report, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateReport(ctx context.Context, report entities.Report) error {
	result := r.db.WithContext(ctx).
		Model(&reportModel{}).
		Where("report_id = ?", report.ReportID).
		Updates(map[string]any{
			"status":  string(report.Status),
			"comment": report.Comment,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrReportNotFound
	}
	return nil
}

func (r *Repository) DeleteReport(ctx context.Context, reportID string) error {
	result := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Delete(&reportModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrReportNotFound
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", key).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return row.toPort(), true, nil
}

// Reserve inserts a payload-less row for the key. An expired holder is
// removed and the insert retried once.
func (r *Repository) Reserve(ctx context.Context, record ports.IdempotencyRecord, now time.Time) (ports.IdempotencyRecord, bool, error) {
	record.Payload = nil
	for attempt := 0; attempt < 2; attempt++ {
		row := idempotencyModelFromPort(record)
		createResult := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoNothing: true,
			}).
			Create(&row)
		if createResult.Error != nil {
			return ports.IdempotencyRecord{}, false, createResult.Error
		}
		if createResult.RowsAffected > 0 {
			return record, true, nil
		}

		var existing idempotencyModel
		err := r.db.WithContext(ctx).
			Where("key = ?", record.Key).
			First(&existing).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		if existing.ExpiresAt.IsZero() || !now.UTC().After(existing.ExpiresAt.UTC()) {
			return existing.toPort(), false, nil
		}
		if err := r.db.WithContext(ctx).
			Where("key = ? AND expires_at = ?", record.Key, existing.ExpiresAt).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
	}
	return ports.IdempotencyRecord{}, false, domainerrors.ErrIdempotencyInProgress
}

func (r *Repository) Complete(ctx context.Context, key string, payload []byte) error {
	result := r.db.WithContext(ctx).
		Model(&idempotencyModel{}).
		Where("key = ?", key).
		Update("payload", payload)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func (r *Repository) Release(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&idempotencyModel{}).
		Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outbox.StatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func lockMap(tx *gorm.DB, mapID string) (entities.Map, error) {
	var row mapModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("map_id = ?", mapID).
		First(&row).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Map{}, domainerrors.ErrMapNotFound
		}
		return entities.Map{}, err
	}
	return row.toEntity(), nil
}

func touchMap(tx *gorm.DB, parent entities.Map, touchedAt time.Time) error {
	parent.Touch(touchedAt)
	return tx.Model(&mapModel{}).
		Where("map_id = ?", parent.MapID).
		Update("updated_at", parent.UpdatedAt).
		Error
}

func insertOutbox(tx *gorm.DB, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:  envelope.EventID,
		EventType: envelope.EventType,
		EntityID:  envelope.EntityID,
		Payload:   payload,
		Status:    outbox.StatusPending,
		CreatedAt: envelope.OccurredAt.UTC(),
	}
	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.MapRepository = (*Repository)(nil)
var _ ports.ElementRepository = (*Repository)(nil)
var _ ports.ReportRepository = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
