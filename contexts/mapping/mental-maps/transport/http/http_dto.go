package httptransport

import "mentalmaps/contexts/mapping/mental-maps/domain/valueobjects"

// Request bodies use valueobjects.Field so that absent, null and wrongly typed
// values stay distinguishable for validation.

type CreateMapRequest struct {
	Title       valueobjects.Field[string] `json:"title" swaggertype:"string"`
	Description valueobjects.Field[string] `json:"description" swaggertype:"string"`
	Visibility  valueobjects.Field[string] `json:"visibility" swaggertype:"string" enums:"private,public"`
}

type UpdateMapRequest struct {
	Title       valueobjects.Field[string] `json:"title" swaggertype:"string"`
	Description valueobjects.Field[string] `json:"description" swaggertype:"string"`
	Visibility  valueobjects.Field[string] `json:"visibility" swaggertype:"string" enums:"private,public"`
}

type AddElementRequest struct {
	Type    valueobjects.Field[string]         `json:"type" swaggertype:"string"`
	X       valueobjects.Field[float64]        `json:"x" swaggertype:"number"`
	Y       valueobjects.Field[float64]        `json:"y" swaggertype:"number"`
	Content valueobjects.Field[string]         `json:"content" swaggertype:"string"`
	Style   valueobjects.Field[map[string]any] `json:"style" swaggertype:"object"`
}

type UpdateElementRequest struct {
	Type    valueobjects.Field[string]         `json:"type" swaggertype:"string"`
	X       valueobjects.Field[float64]        `json:"x" swaggertype:"number"`
	Y       valueobjects.Field[float64]        `json:"y" swaggertype:"number"`
	Content valueobjects.Field[string]         `json:"content" swaggertype:"string"`
	Style   valueobjects.Field[map[string]any] `json:"style" swaggertype:"object"`
}

type CreateReportRequest struct {
	MapID   valueobjects.Field[string] `json:"mapId" swaggertype:"string"`
	Reason  valueobjects.Field[string] `json:"reason" swaggertype:"string"`
	Comment valueobjects.Field[string] `json:"comment" swaggertype:"string"`
}

type UpdateReportRequest struct {
	Status  valueobjects.Field[string] `json:"status" swaggertype:"string" enums:"new,in_progress,resolved,rejected"`
	Comment valueobjects.Field[string] `json:"comment" swaggertype:"string"`
}

type ListMapsRequest struct {
	Visibility string
	Limit      string
	Cursor     string
}

type ListReportsRequest struct {
	Status    string
	HasStatus bool
	Limit     string
	Cursor    string
}

type MapDTO struct {
	MapID       string `json:"mapId"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type MapSummaryDTO struct {
	MapID      string `json:"mapId"`
	Title      string `json:"title"`
	Visibility string `json:"visibility"`
	UpdatedAt  string `json:"updatedAt"`
}

type ListMapsResponse struct {
	Items      []MapSummaryDTO `json:"items"`
	NextCursor *string         `json:"nextCursor"`
}

type DeleteMapResponse struct {
	MapID   string `json:"mapId"`
	Deleted bool   `json:"deleted"`
}

type ElementDTO struct {
	ElementID string         `json:"elementId"`
	MapID     string         `json:"mapId"`
	Type      string         `json:"type"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Content   string         `json:"content"`
	Style     map[string]any `json:"style"`
	CreatedAt string         `json:"createdAt"`
}

type ElementSummaryDTO struct {
	ElementID string  `json:"elementId"`
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Content   string  `json:"content"`
}

type ListElementsResponse struct {
	Items []ElementSummaryDTO `json:"items"`
}

type DeleteElementResponse struct {
	ElementID string `json:"elementId"`
	Deleted   bool   `json:"deleted"`
}

type ReportDTO struct {
	ReportID  string `json:"reportId"`
	MapID     string `json:"mapId"`
	AuthorID  string `json:"authorId"`
	Reason    string `json:"reason"`
	Comment   string `json:"comment"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type ReportSummaryDTO struct {
	ReportID  string `json:"reportId"`
	MapID     string `json:"mapId"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"createdAt"`
}

type ListReportsResponse struct {
	Items      []ReportSummaryDTO `json:"items"`
	NextCursor *string            `json:"nextCursor"`
}

type DeleteReportResponse struct {
	ReportID string `json:"reportId"`
	Deleted  bool   `json:"deleted"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type FieldIssueDTO struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ErrorResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details []FieldIssueDTO `json:"details,omitempty"`
}
