package mentalmaps

import (
	"log/slog"
	"time"

	httpadapter "mentalmaps/contexts/mapping/mental-maps/adapters/http"
	"mentalmaps/contexts/mapping/mental-maps/adapters/memory"
	"mentalmaps/contexts/mapping/mental-maps/application"
	"mentalmaps/contexts/mapping/mental-maps/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Outbox  ports.OutboxRepository
	Clock   ports.Clock
}

// Dependencies are injected by the composition root; each module owns its own
// store instance so tests never share state.
type Dependencies struct {
	Maps           ports.MapRepository
	Elements       ports.ElementRepository
	Reports        ports.ReportRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxRepository
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Maps: application.MapService{
				Maps:           deps.Maps,
				Elements:       deps.Elements,
				Idempotency:    deps.Idempotency,
				Clock:          deps.Clock,
				IDGenerator:    deps.IDGenerator,
				IdempotencyTTL: deps.IdempotencyTTL,
				Logger:         deps.Logger,
			},
			Reports: application.ReportService{
				Maps:           deps.Maps,
				Reports:        deps.Reports,
				Idempotency:    deps.Idempotency,
				Clock:          deps.Clock,
				IDGenerator:    deps.IDGenerator,
				IdempotencyTTL: deps.IdempotencyTTL,
				Logger:         deps.Logger,
			},
			Logger: deps.Logger,
		},
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
	}
}

// NewInMemoryModule wires every port to one fresh memory store.
func NewInMemoryModule(logger *slog.Logger, idempotencyTTL time.Duration) Module {
	store := memory.NewStore(logger)
	module := NewModule(Dependencies{
		Maps:           store,
		Elements:       store,
		Reports:        store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: idempotencyTTL,
		Logger:         logger,
	})
	module.Store = store
	return module
}
