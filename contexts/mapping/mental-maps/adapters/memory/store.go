package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
	"mentalmaps/contexts/mapping/mental-maps/ports"
	"mentalmaps/internal/shared/events"
	"mentalmaps/internal/shared/outbox"
)

// Store is the in-memory resource store. It owns maps, their element lists and
// reports, and keeps the cascade invariant: once a map is gone no element or
// report referencing it survives. State lives for the lifetime of the process.
type Store struct {
	mu sync.RWMutex

	maps        map[string]entities.Map
	mapOrder    []string
	elements    map[string][]entities.Element
	reports     map[string]entities.Report
	reportIndex []string // newest first
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outbox.Message
	outboxOrder []string
	// sentRetention bounds how many already-published rows stay readable.
	sentRetention int
	sentCount     int
	sequence      uint64
	clock         func() time.Time
	logger        *slog.Logger
}

const defaultSentRetention = 256

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		maps:          make(map[string]entities.Map),
		mapOrder:      make([]string, 0),
		elements:      make(map[string][]entities.Element),
		reports:       make(map[string]entities.Report),
		reportIndex:   make([]string, 0),
		idempotency:   make(map[string]ports.IdempotencyRecord),
		outbox:        make(map[string]outbox.Message),
		outboxOrder:   make([]string, 0),
		sentRetention: defaultSentRetention,
		clock:         func() time.Time { return time.Now().UTC() },
		logger:        logger,
	}
}

// SetClock replaces the wall clock; tests use it to get distinct, ordered timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.clock = now
	}
}

func (s *Store) CreateMap(_ context.Context, m entities.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.maps[m.MapID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.maps[m.MapID] = m
	s.mapOrder = append(s.mapOrder, m.MapID)
	s.elements[m.MapID] = make([]entities.Element, 0)
	return nil
}

func (s *Store) GetMap(_ context.Context, mapID string) (entities.Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.maps[mapID]
	if !ok {
		return entities.Map{}, domainerrors.ErrMapNotFound
	}
	return m, nil
}

func (s *Store) ListMapsByOwner(_ context.Context, ownerID string) ([]entities.Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Map, 0)
	for _, mapID := range s.mapOrder {
		m, ok := s.maps[mapID]
		if ok && m.OwnerID == ownerID {
			items = append(items, m)
		}
	}
	return items, nil
}

func (s *Store) UpdateMap(_ context.Context, m entities.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.maps[m.MapID]; !ok {
		return domainerrors.ErrMapNotFound
	}
	s.maps[m.MapID] = m
	return nil
}

func (s *Store) DeleteMapCascade(_ context.Context, event ports.MapDeletedEvent) (ports.CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.maps[event.MapID]
	if !ok {
		return ports.CascadeResult{}, domainerrors.ErrMapNotFound
	}
	if _, dup := s.outbox[event.EventID]; dup {
		return ports.CascadeResult{}, domainerrors.ErrRepositoryInvariantBroke
	}

	result := ports.CascadeResult{
		MapID:            m.MapID,
		OwnerID:          m.OwnerID,
		ElementsRemoved:  len(s.elements[m.MapID]),
		ReportIDsRemoved: make([]string, 0),
	}
	keptIndex := make([]string, 0, len(s.reportIndex))
	for _, reportID := range s.reportIndex {
		report, exists := s.reports[reportID]
		if exists && report.MapID == m.MapID {
			result.ReportIDsRemoved = append(result.ReportIDsRemoved, reportID)
			continue
		}
		keptIndex = append(keptIndex, reportID)
	}

	if event.OwnerID == "" {
		event.OwnerID = m.OwnerID
	}
	envelope, err := event.Envelope(result)
	if err != nil {
		return ports.CascadeResult{}, err
	}
	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return ports.CascadeResult{}, err
	}

	// Nothing below can fail, so the cascade is all-or-nothing.
	delete(s.maps, m.MapID)
	s.mapOrder = removeID(s.mapOrder, m.MapID)
	delete(s.elements, m.MapID)
	for _, reportID := range result.ReportIDsRemoved {
		delete(s.reports, reportID)
	}
	s.reportIndex = keptIndex
	s.appendOutbox(envelope.EventID, envelope.EventType, m.MapID, payload, event.OccurredAt)

	s.logger.Debug("map cascade removed from memory store",
		"event", "memory_delete_map_cascade",
		"module", "mapping/mental-maps",
		"layer", "adapter",
		"map_id", m.MapID,
		"elements_removed", result.ElementsRemoved,
		"reports_removed", len(result.ReportIDsRemoved),
	)
	return result, nil
}

func (s *Store) ListElements(_ context.Context, mapID string) ([]entities.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.maps[mapID]; !ok {
		return nil, domainerrors.ErrMapNotFound
	}
	list := s.elements[mapID]
	items := make([]entities.Element, 0, len(list))
	for _, element := range list {
		items = append(items, element.Clone())
	}
	return items, nil
}

func (s *Store) GetElement(_ context.Context, mapID string, elementID string) (entities.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.maps[mapID]; !ok {
		return entities.Element{}, domainerrors.ErrMapNotFound
	}
	index := findElement(s.elements[mapID], elementID)
	if index < 0 {
		return entities.Element{}, domainerrors.ErrElementNotFound
	}
	return s.elements[mapID][index].Clone(), nil
}

func (s *Store) AddElement(_ context.Context, element entities.Element, touchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[element.MapID]
	if !ok {
		return domainerrors.ErrMapNotFound
	}
	if findElement(s.elements[element.MapID], element.ElementID) >= 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.elements[element.MapID] = append(s.elements[element.MapID], element.Clone())
	m.Touch(touchedAt)
	s.maps[m.MapID] = m
	return nil
}

func (s *Store) UpdateElement(_ context.Context, element entities.Element, touchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[element.MapID]
	if !ok {
		return domainerrors.ErrMapNotFound
	}
	list := s.elements[element.MapID]
	index := findElement(list, element.ElementID)
	if index < 0 {
		return domainerrors.ErrElementNotFound
	}
	list[index] = element.Clone()
	m.Touch(touchedAt)
	s.maps[m.MapID] = m
	return nil
}

func (s *Store) DeleteElement(_ context.Context, mapID string, elementID string, touchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[mapID]
	if !ok {
		return domainerrors.ErrMapNotFound
	}
	list := s.elements[mapID]
	index := findElement(list, elementID)
	if index < 0 {
		return domainerrors.ErrElementNotFound
	}
	s.elements[mapID] = append(list[:index:index], list[index+1:]...)
	m.Touch(touchedAt)
	s.maps[mapID] = m
	return nil
}

func (s *Store) CreateReportWithOutbox(_ context.Context, report entities.Report, event ports.ReportCreatedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.maps[report.MapID]; !ok {
		return domainerrors.ErrReportMapNotFound
	}
	if _, exists := s.reports[report.ReportID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	if _, dup := s.outbox[event.EventID]; dup {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	envelope, err := event.Envelope()
	if err != nil {
		return err
	}
	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return err
	}

	s.reports[report.ReportID] = report
	s.reportIndex = append([]string{report.ReportID}, s.reportIndex...)
	s.appendOutbox(envelope.EventID, envelope.EventType, report.ReportID, payload, event.OccurredAt)
	return nil
}

func (s *Store) GetReport(_ context.Context, reportID string) (entities.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[reportID]
	if !ok {
		return entities.Report{}, domainerrors.ErrReportNotFound
	}
	return report, nil
}

func (s *Store) ListReports(_ context.Context) ([]entities.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Report, 0, len(s.reportIndex))
	for _, reportID := range s.reportIndex {
		if report, ok := s.reports[reportID]; ok {
			items = append(items, report)
		}
	}
	return items, nil
}

func (s *Store) UpdateReport(_ context.Context, report entities.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[report.ReportID]; !ok {
		return domainerrors.ErrReportNotFound
	}
	s.reports[report.ReportID] = report
	return nil
}

func (s *Store) DeleteReport(_ context.Context, reportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[reportID]; !ok {
		return domainerrors.ErrReportNotFound
	}
	delete(s.reports, reportID)
	s.reportIndex = removeID(s.reportIndex, reportID)
	return nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.UTC().After(record.ExpiresAt.UTC()) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Reserve(_ context.Context, record ports.IdempotencyRecord, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.idempotency[record.Key]; ok {
		if existing.ExpiresAt.IsZero() || !now.UTC().After(existing.ExpiresAt.UTC()) {
			return existing, false, nil
		}
	}
	record.Payload = nil
	s.idempotency[record.Key] = record
	return record, true, nil
}

func (s *Store) Complete(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.idempotency[key]
	if !ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	record.Payload = append([]byte(nil), payload...)
	s.idempotency[key] = record
	return nil
}

func (s *Store) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.idempotency, key)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]outbox.Message, 0, limit)
	for _, id := range s.outboxOrder {
		message, ok := s.outbox[id]
		if !ok || message.Status != outbox.StatusPending {
			continue
		}
		items = append(items, message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	message, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	if message.Status == outbox.StatusSent {
		return nil
	}
	sent := sentAt.UTC()
	message.Status = outbox.StatusSent
	message.SentAt = &sent
	s.outbox[outboxID] = message
	s.sentCount++
	s.pruneSentLocked()
	return nil
}

// pruneSentLocked drops the oldest sent rows beyond sentRetention. Pending
// rows are never dropped.
func (s *Store) pruneSentLocked() {
	if s.sentCount <= s.sentRetention {
		return
	}
	kept := s.outboxOrder[:0]
	for _, id := range s.outboxOrder {
		message := s.outbox[id]
		if s.sentCount > s.sentRetention && message.Status == outbox.StatusSent {
			delete(s.outbox, id)
			s.sentCount--
			continue
		}
		kept = append(kept, id)
	}
	s.outboxOrder = kept
}

// OutboxEvents returns every outbox row in write order.
func (s *Store) OutboxEvents() []outbox.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]outbox.Message, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		if message, ok := s.outbox[id]; ok {
			items = append(items, message)
		}
	}
	return items
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock().UTC()
}

func (s *Store) NewID(_ context.Context, prefix string) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	if strings.TrimSpace(prefix) == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s_%d", prefix, n), nil
}

func (s *Store) appendOutbox(id string, eventType string, entityID string, payload []byte, createdAt time.Time) {
	s.outbox[id] = outbox.Message{
		ID:        id,
		EventType: eventType,
		EntityID:  entityID,
		Payload:   payload,
		Status:    outbox.StatusPending,
		CreatedAt: createdAt.UTC(),
	}
	s.outboxOrder = append(s.outboxOrder, id)
}

func marshalEnvelope(envelope events.Envelope) ([]byte, error) {
	return json.Marshal(envelope)
}

func findElement(list []entities.Element, elementID string) int {
	for i, element := range list {
		if element.ElementID == elementID {
			return i
		}
	}
	return -1
}

func removeID(ids []string, target string) []string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != target {
			kept = append(kept, id)
		}
	}
	return kept
}

var _ ports.MapRepository = (*Store)(nil)
var _ ports.ElementRepository = (*Store)(nil)
var _ ports.ReportRepository = (*Store)(nil)
var _ ports.IdempotencyStore = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
