package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "mentalmaps/contexts/mapping/mental-maps/domain/errors"
	"mentalmaps/contexts/mapping/mental-maps/ports"
)

const defaultIdempotencyTTL = 24 * time.Hour

// idempotentRunner replays stored creation payloads for repeated keys.
// The key is reserved before exec runs, so concurrent duplicates never both
// create. An empty key disables replay and runs exec directly.
type idempotentRunner struct {
	store  ports.IdempotencyStore
	ttl    time.Duration
	now    time.Time
	logger *slog.Logger
}

func (r idempotentRunner) run(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	key = strings.TrimSpace(key)
	if key == "" || r.store == nil {
		payload, err := exec()
		if err != nil {
			return err
		}
		return decode(payload)
	}

	ttl := r.ttl
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	record, reserved, err := r.store.Reserve(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		ExpiresAt:   r.now.Add(ttl),
	}, r.now)
	if err != nil {
		return err
	}
	if !reserved {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		if len(record.Payload) == 0 {
			return domainerrors.ErrIdempotencyInProgress
		}
		r.logger.Debug("idempotent creation replayed",
			"event", "mentalmaps_idempotent_replay",
			"module", moduleName,
			"layer", "application",
			"idempotency_key", key,
		)
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		if releaseErr := r.store.Release(ctx, key); releaseErr != nil {
			r.logger.Warn("idempotency reservation release failed",
				"event", "mentalmaps_idempotency_release_failed",
				"module", moduleName,
				"layer", "application",
				"idempotency_key", key,
				"error", releaseErr.Error(),
			)
		}
		return err
	}
	if err := r.store.Complete(ctx, key, payload); err != nil {
		return err
	}
	return decode(payload)
}

// scopedKey keeps two callers that pick the same key from replaying each other's records.
func scopedKey(scope string, actorID string, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return "mentalmaps:" + scope + ":" + actorID + ":" + key
}

func hashRequest(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
