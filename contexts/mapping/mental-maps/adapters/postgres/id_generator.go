package postgresadapter

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// eventIDPrefix marks outbox event ids. They are never shown to clients and
// carry the full UUID.
const eventIDPrefix = "evt"

// UUIDGenerator issues short ids of the form "map_1f2e3d4c": the prefix plus
// the first eight hex characters of a UUIDv4. Event ids keep the whole UUID.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context, prefix string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	if prefix == eventIDPrefix {
		return prefix + "_" + id.String(), nil
	}
	short := strings.ReplaceAll(id.String(), "-", "")[:8]
	if prefix == "" {
		return short, nil
	}
	return prefix + "_" + short, nil
}
