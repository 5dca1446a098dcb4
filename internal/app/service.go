package app

import (
	"time"

	"github.com/google/uuid"

	"materialization-audit/internal/ports"
)

// Service wires the audit use case to its ports. Nil ports are built from
// the request's connection settings.
type Service struct {
	Lister   ports.DatastackListerPort
	Resolver ports.ClientResolverPort
	Progress ports.ProgressPort
	Clock    func() time.Time
	NewRunID func() string
}

func NewService() Service {
	return Service{
		Clock:    time.Now,
		NewRunID: uuid.NewString,
	}
}
