package application

import (
	"mentalmaps/contexts/mapping/mental-maps/domain/valueobjects"
)

// CreateMapCommand is the decoded body of a map creation request.
type CreateMapCommand struct {
	IdempotencyKey string
	Title          valueobjects.Field[string]
	Description    valueobjects.Field[string]
	Visibility     valueobjects.Field[string]
}

// ListMapsQuery carries raw query parameters; the pagination codec normalizes them.
type ListMapsQuery struct {
	Visibility string
	Limit      string
	Cursor     string
}

type UpdateMapCommand struct {
	Title       valueobjects.Field[string]
	Description valueobjects.Field[string]
	Visibility  valueobjects.Field[string]
}

func (c UpdateMapCommand) empty() bool {
	return !c.Title.Present && !c.Description.Present && !c.Visibility.Present
}

type AddElementCommand struct {
	Type    valueobjects.Field[string]
	X       valueobjects.Field[float64]
	Y       valueobjects.Field[float64]
	Content valueobjects.Field[string]
	Style   valueobjects.Field[map[string]any]
}

type UpdateElementCommand struct {
	Type    valueobjects.Field[string]
	X       valueobjects.Field[float64]
	Y       valueobjects.Field[float64]
	Content valueobjects.Field[string]
	Style   valueobjects.Field[map[string]any]
}

func (c UpdateElementCommand) empty() bool {
	return !c.Type.Present && !c.X.Present && !c.Y.Present && !c.Content.Present && !c.Style.Present
}

type CreateReportCommand struct {
	IdempotencyKey string
	MapID          valueobjects.Field[string]
	Reason         valueobjects.Field[string]
	Comment        valueobjects.Field[string]
}

// ListReportsQuery filters by Status only when HasStatus is set; the match is exact.
type ListReportsQuery struct {
	Status    string
	HasStatus bool
	Limit     string
	Cursor    string
}

type UpdateReportCommand struct {
	Status  valueobjects.Field[string]
	Comment valueobjects.Field[string]
}

func (c UpdateReportCommand) empty() bool {
	return !c.Status.Present && !c.Comment.Present
}
