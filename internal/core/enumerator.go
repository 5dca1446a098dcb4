package core

import (
	"context"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"materialization-audit/internal/ports"
	"materialization-audit/internal/types"
)

// DatastackEnumerator produces the ordered list of datastacks to audit.
type DatastackEnumerator struct {
	Lister   ports.DatastackListerPort
	Config   types.AuditConfig
	Progress ports.ProgressPort
}

func NewDatastackEnumerator(lister ports.DatastackListerPort, config types.AuditConfig) DatastackEnumerator {
	return DatastackEnumerator{
		Lister: lister,
		Config: config,
	}
}

// Enumerate returns the override list sorted when one is configured, without
// touching the network. Otherwise every server is listed in configured order
// and each server's datastacks are sorted within their own group. A listing
// failure is returned as is and ends the audit.
func (e DatastackEnumerator) Enumerate(ctx context.Context) ([]types.DatastackID, error) {
	if len(e.Config.DatastackOverride) > 0 {
		override := sortedDatastacks(e.Config.DatastackOverride)
		log.Ctx(ctx).Debug().Int("datastacks", len(override)).Msg("using datastack override")
		return override, nil
	}
	if e.Lister == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("datastack lister is required without a datastack override")
	}

	if e.Progress != nil {
		e.Progress.Start("Fetching datastacks from servers", len(e.Config.Servers))
		defer e.Progress.Finish()
	}
	datastacks := []types.DatastackID{}
	for _, server := range e.Config.Servers {
		listed, err := e.Lister.ListDatastacks(ctx, server)
		if err != nil {
			return nil, err
		}
		group := sortedDatastacks(listed)
		log.Ctx(ctx).Debug().
			Str("server", string(server)).
			Int("datastacks", len(group)).
			Msg("datastacks listed")
		datastacks = append(datastacks, group...)
		if e.Progress != nil {
			e.Progress.Increment()
		}
	}
	return datastacks, nil
}

func sortedDatastacks(values []types.DatastackID) []types.DatastackID {
	sorted := append([]types.DatastackID(nil), values...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	return sorted
}
