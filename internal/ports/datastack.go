package ports

import (
	"context"
	"time"

	"materialization-audit/internal/types"
)

type DatastackListerPort interface {
	ListDatastacks(ctx context.Context, server types.ServerEndpoint) ([]types.DatastackID, error)
}

// MaterializationClientPort is the per-datastack view of a materialization
// service. Implementations are scoped to a single datastack.
type MaterializationClientPort interface {
	ListVersions(ctx context.Context, includeExpired bool) ([]int, error)
	GetTimestamp(ctx context.Context, version int) (time.Time, error)
	ServerVersion(ctx context.Context) (string, error)
	ServerEndpoint() string
}

type ClientResolverPort interface {
	Resolve(ctx context.Context, datastack types.DatastackID) (MaterializationClientPort, error)
}
