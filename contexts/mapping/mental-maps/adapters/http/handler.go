package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "mentalmaps/contexts/mapping/mental-maps/application"
	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	httptransport "mentalmaps/contexts/mapping/mental-maps/transport/http"
)

// TimestampLayout renders UTC timestamps with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type Handler struct {
	Maps    application.MapService
	Reports application.ReportService
	Logger  *slog.Logger
}

// CreateMapHandler godoc
// @Summary Create map
// @Description Creates a map owned by the caller. Visibility defaults to private.
// @Tags maps
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param X-User-Role header string false "regular or moderator"
// @Param Idempotency-Key header string false "Replay key for safe retries"
// @Param request body httptransport.CreateMapRequest true "Map"
// @Success 201 {object} httptransport.MapDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /maps [post]
func (h Handler) CreateMapHandler(ctx context.Context, actor entities.Actor, idempotencyKey string, req httptransport.CreateMapRequest) (httptransport.MapDTO, error) {
	m, err := h.Maps.Create(ctx, actor, application.CreateMapCommand{
		IdempotencyKey: idempotencyKey,
		Title:          req.Title,
		Description:    req.Description,
		Visibility:     req.Visibility,
	})
	if err != nil {
		return httptransport.MapDTO{}, err
	}
	return mapMap(m), nil
}

// ListMapsHandler godoc
// @Summary List own maps
// @Description Lists the caller's maps, most recently updated first.
// @Tags maps
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param visibility query string false "private or public"
// @Param limit query int false "Page size (1-50, default 20)"
// @Param cursor query string false "Offset cursor from a previous page"
// @Success 200 {object} httptransport.ListMapsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /maps [get]
func (h Handler) ListMapsHandler(ctx context.Context, actor entities.Actor, req httptransport.ListMapsRequest) (httptransport.ListMapsResponse, error) {
	page, err := h.Maps.List(ctx, actor, application.ListMapsQuery{
		Visibility: req.Visibility,
		Limit:      req.Limit,
		Cursor:     req.Cursor,
	})
	if err != nil {
		return httptransport.ListMapsResponse{}, err
	}
	items := make([]httptransport.MapSummaryDTO, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, httptransport.MapSummaryDTO{
			MapID:      m.MapID,
			Title:      m.Title,
			Visibility: string(m.Visibility),
			UpdatedAt:  formatTime(m.UpdatedAt),
		})
	}
	return httptransport.ListMapsResponse{Items: items, NextCursor: page.NextCursor}, nil
}

// GetMapHandler godoc
// @Summary Get map
// @Tags maps
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param mapId path string true "Map id"
// @Success 200 {object} httptransport.MapDTO
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /maps/{mapId} [get]
func (h Handler) GetMapHandler(ctx context.Context, actor entities.Actor, mapID string) (httptransport.MapDTO, error) {
	m, err := h.Maps.Get(ctx, actor, mapID)
	if err != nil {
		return httptransport.MapDTO{}, err
	}
	return mapMap(m), nil
}

// UpdateMapHandler godoc
// @Summary Update map
// @Description Applies a partial update; at least one field is required.
// @Tags maps
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param mapId path string true "Map id"
// @Param request body httptransport.UpdateMapRequest true "Patch"
// @Success 200 {object} httptransport.MapDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /maps/{mapId} [put]
func (h Handler) UpdateMapHandler(ctx context.Context, actor entities.Actor, mapID string, req httptransport.UpdateMapRequest) (httptransport.MapDTO, error) {
	m, err := h.Maps.Update(ctx, actor, mapID, application.UpdateMapCommand{
		Title:       req.Title,
		Description: req.Description,
		Visibility:  req.Visibility,
	})
	if err != nil {
		return httptransport.MapDTO{}, err
	}
	return mapMap(m), nil
}

// DeleteMapHandler godoc
// @Summary Delete map
// @Description Deletes the map with its elements and every report filed against it.
// @Tags maps
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param mapId path string true "Map id"
// @Success 200 {object} httptransport.DeleteMapResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /maps/{mapId} [delete]
func (h Handler) DeleteMapHandler(ctx context.Context, actor entities.Actor, mapID string) (httptransport.DeleteMapResponse, error) {
	result, err := h.Maps.Delete(ctx, actor, mapID)
	if err != nil {
		return httptransport.DeleteMapResponse{}, err
	}
	return httptransport.DeleteMapResponse{MapID: result.MapID, Deleted: true}, nil
}

// AddElementHandler godoc
// @Summary Add element
// @Tags elements
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param mapId path string true "Map id"
// @Param request body httptransport.AddElementRequest true "Element"
// @Success 201 {object} httptransport.ElementDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /maps/{mapId}/elements [post]
func (h Handler) AddElementHandler(ctx context.Context, actor entities.Actor, mapID string, req httptransport.AddElementRequest) (httptransport.ElementDTO, error) {
	element, err := h.Maps.AddElement(ctx, actor, mapID, application.AddElementCommand{
		Type:    req.Type,
		X:       req.X,
		Y:       req.Y,
		Content: req.Content,
		Style:   req.Style,
	})
	if err != nil {
		return httptransport.ElementDTO{}, err
	}
	return mapElement(element), nil
}

// ListElementsHandler godoc
// @Summary List elements
// @Description Lists a map's elements in insertion order.
// @Tags elements
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param mapId path string true "Map id"
// @Success 200 {object} httptransport.ListElementsResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /maps/{mapId}/elements [get]
func (h Handler) ListElementsHandler(ctx context.Context, actor entities.Actor, mapID string) (httptransport.ListElementsResponse, error) {
	elements, err := h.Maps.ListElements(ctx, actor, mapID)
	if err != nil {
		return httptransport.ListElementsResponse{}, err
	}
	items := make([]httptransport.ElementSummaryDTO, 0, len(elements))
	for _, element := range elements {
		items = append(items, httptransport.ElementSummaryDTO{
			ElementID: element.ElementID,
			Type:      element.Type,
			X:         element.X,
			Y:         element.Y,
			Content:   element.Content,
		})
	}
	return httptransport.ListElementsResponse{Items: items}, nil
}

// UpdateElementHandler godoc
// @Summary Update element
// @Tags elements
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param mapId path string true "Map id"
// @Param elementId path string true "Element id"
// @Param request body httptransport.UpdateElementRequest true "Patch"
// @Success 200 {object} httptransport.ElementDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /maps/{mapId}/elements/{elementId} [put]
func (h Handler) UpdateElementHandler(ctx context.Context, actor entities.Actor, mapID string, elementID string, req httptransport.UpdateElementRequest) (httptransport.ElementDTO, error) {
	element, err := h.Maps.UpdateElement(ctx, actor, mapID, elementID, application.UpdateElementCommand{
		Type:    req.Type,
		X:       req.X,
		Y:       req.Y,
		Content: req.Content,
		Style:   req.Style,
	})
	if err != nil {
		return httptransport.ElementDTO{}, err
	}
	return mapElement(element), nil
}

// DeleteElementHandler godoc
// @Summary Delete element
// @Tags elements
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param mapId path string true "Map id"
// @Param elementId path string true "Element id"
// @Success 200 {object} httptransport.DeleteElementResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /maps/{mapId}/elements/{elementId} [delete]
func (h Handler) DeleteElementHandler(ctx context.Context, actor entities.Actor, mapID string, elementID string) (httptransport.DeleteElementResponse, error) {
	if err := h.Maps.DeleteElement(ctx, actor, mapID, elementID); err != nil {
		return httptransport.DeleteElementResponse{}, err
	}
	return httptransport.DeleteElementResponse{ElementID: elementID, Deleted: true}, nil
}

// CreateReportHandler godoc
// @Summary File report
// @Description Any authenticated caller may report an existing map.
// @Tags reports
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param Idempotency-Key header string false "Replay key for safe retries"
// @Param request body httptransport.CreateReportRequest true "Report"
// @Success 201 {object} httptransport.ReportDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /reports [post]
func (h Handler) CreateReportHandler(ctx context.Context, actor entities.Actor, idempotencyKey string, req httptransport.CreateReportRequest) (httptransport.ReportDTO, error) {
	report, err := h.Reports.Create(ctx, actor, application.CreateReportCommand{
		IdempotencyKey: idempotencyKey,
		MapID:          req.MapID,
		Reason:         req.Reason,
		Comment:        req.Comment,
	})
	if err != nil {
		return httptransport.ReportDTO{}, err
	}
	return mapReport(report), nil
}

// ListReportsHandler godoc
// @Summary List reports
// @Description Moderator only. Newest first.
// @Tags reports
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param X-User-Role header string true "moderator"
// @Param status query string false "Exact status filter"
// @Param limit query int false "Page size (1-50, default 20)"
// @Param cursor query string false "Offset cursor from a previous page"
// @Success 200 {object} httptransport.ListReportsResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /reports [get]
func (h Handler) ListReportsHandler(ctx context.Context, actor entities.Actor, req httptransport.ListReportsRequest) (httptransport.ListReportsResponse, error) {
	page, err := h.Reports.List(ctx, actor, application.ListReportsQuery{
		Status:    req.Status,
		HasStatus: req.HasStatus,
		Limit:     req.Limit,
		Cursor:    req.Cursor,
	})
	if err != nil {
		return httptransport.ListReportsResponse{}, err
	}
	items := make([]httptransport.ReportSummaryDTO, 0, len(page.Items))
	for _, report := range page.Items {
		items = append(items, httptransport.ReportSummaryDTO{
			ReportID:  report.ReportID,
			MapID:     report.MapID,
			Status:    string(report.Status),
			Reason:    report.Reason,
			CreatedAt: formatTime(report.CreatedAt),
		})
	}
	return httptransport.ListReportsResponse{Items: items, NextCursor: page.NextCursor}, nil
}

// UpdateReportHandler godoc
// @Summary Update report
// @Description Moderator only. Any status may move to any other.
// @Tags reports
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param X-User-Role header string true "moderator"
// @Param reportId path string true "Report id"
// @Param request body httptransport.UpdateReportRequest true "Patch"
// @Success 200 {object} httptransport.ReportDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /reports/{reportId} [put]
func (h Handler) UpdateReportHandler(ctx context.Context, actor entities.Actor, reportID string, req httptransport.UpdateReportRequest) (httptransport.ReportDTO, error) {
	report, err := h.Reports.Update(ctx, actor, reportID, application.UpdateReportCommand{
		Status:  req.Status,
		Comment: req.Comment,
	})
	if err != nil {
		return httptransport.ReportDTO{}, err
	}
	return mapReport(report), nil
}

// DeleteReportHandler godoc
// @Summary Delete report
// @Tags reports
// @Produce json
// @Param X-User-Id header string true "Caller id"
// @Param X-User-Role header string true "moderator"
// @Param reportId path string true "Report id"
// @Success 200 {object} httptransport.DeleteReportResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /reports/{reportId} [delete]
func (h Handler) DeleteReportHandler(ctx context.Context, actor entities.Actor, reportID string) (httptransport.DeleteReportResponse, error) {
	if err := h.Reports.Delete(ctx, actor, reportID); err != nil {
		return httptransport.DeleteReportResponse{}, err
	}
	return httptransport.DeleteReportResponse{ReportID: reportID, Deleted: true}, nil
}

func mapMap(m entities.Map) httptransport.MapDTO {
	return httptransport.MapDTO{
		MapID:       m.MapID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Visibility:  string(m.Visibility),
		CreatedAt:   formatTime(m.CreatedAt),
		UpdatedAt:   formatTime(m.UpdatedAt),
	}
}

func mapElement(element entities.Element) httptransport.ElementDTO {
	style := element.Style
	if style == nil {
		style = map[string]any{}
	}
	return httptransport.ElementDTO{
		ElementID: element.ElementID,
		MapID:     element.MapID,
		Type:      element.Type,
		X:         element.X,
		Y:         element.Y,
		Content:   element.Content,
		Style:     style,
		CreatedAt: formatTime(element.CreatedAt),
	}
}

func mapReport(report entities.Report) httptransport.ReportDTO {
	return httptransport.ReportDTO{
		ReportID:  report.ReportID,
		MapID:     report.MapID,
		AuthorID:  report.AuthorID,
		Reason:    report.Reason,
		Comment:   report.Comment,
		Status:    string(report.Status),
		CreatedAt: formatTime(report.CreatedAt),
	}
}

func formatTime(value time.Time) string {
	return value.UTC().Format(TimestampLayout)
}
