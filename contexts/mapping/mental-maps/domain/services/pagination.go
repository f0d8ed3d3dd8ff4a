package services

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// PageRequest is a normalized limit/offset pair. Cursors are plain decimal
// offsets into the current filtered sequence, so they are not stable when the
// sequence changes between page requests.
type PageRequest struct {
	Limit  int
	Offset int
}

// NewPageRequest never fails: unusable limits fall back to the default or the
// ceiling, and unusable cursors restart from the beginning.
func NewPageRequest(limitRaw string, cursorRaw string) PageRequest {
	return PageRequest{
		Limit:  parseLimit(limitRaw),
		Offset: DecodeCursor(cursorRaw),
	}
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPageLimit
	}
	limit, err := strconv.Atoi(raw)
	if overflowsUp(err, limit) {
		return MaxPageLimit
	}
	if err != nil || limit < 1 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// DecodeCursor turns a cursor into an offset; anything unusable is offset 0.
// A cursor beyond int range lands past every sequence.
func DecodeCursor(cursor string) int {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return 0
	}
	offset, err := strconv.Atoi(cursor)
	if overflowsUp(err, offset) {
		return math.MaxInt
	}
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// overflowsUp reports a decimal too large for int. Atoi returns the clamped
// bound alongside ErrRange, so the sign tells the two overflows apart.
func overflowsUp(err error, parsed int) bool {
	return errors.Is(err, strconv.ErrRange) && parsed > 0
}

func EncodeCursor(offset int) string {
	return strconv.Itoa(offset)
}

// Paginate returns items[offset:offset+limit] and the cursor of the next page,
// or nil once the sequence is exhausted.
func Paginate[T any](items []T, page PageRequest) ([]T, *string) {
	limit := page.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	start := page.Offset
	if start < 0 {
		start = 0
	}
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	out := append([]T(nil), items[start:end]...)
	if end >= len(items) {
		return out, nil
	}
	next := EncodeCursor(end)
	return out, &next
}
