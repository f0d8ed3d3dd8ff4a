package application

import (
	"errors"

	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
)

// maxIDAttempts bounds how often a write is retried after its generated id
// turned out to be taken.
const maxIDAttempts = 5

// withFreshIDs runs write, which must draw new ids on every call, until the
// store stops reporting a key collision.
func withFreshIDs(write func() error) error {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		err = write()
		if !errors.Is(err, domainerrors.ErrRepositoryInvariantBroke) {
			return err
		}
	}
	return err
}
