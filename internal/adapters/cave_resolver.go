package adapters

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"materialization-audit/internal/ports"
	"materialization-audit/internal/shared"
	"materialization-audit/internal/types"
)

const DefaultGlobalServer types.ServerEndpoint = "https://global.daf-apis.com"

// CAVEClientResolverAdapter finds the server hosting a datastack and returns
// a materialization client bound to that datastack's local server.
type CAVEClientResolverAdapter struct {
	Info    CAVEInfoAdapter
	Servers []types.ServerEndpoint
}

func NewCAVEClientResolverAdapter(transport HTTPTransport, servers []types.ServerEndpoint) CAVEClientResolverAdapter {
	return CAVEClientResolverAdapter{
		Info:    NewCAVEInfoAdapter(transport),
		Servers: servers,
	}
}

// Resolve probes the configured servers in order. A 404 moves on to the next
// server; any other failure ends the lookup.
func (a CAVEClientResolverAdapter) Resolve(ctx context.Context, datastack types.DatastackID) (ports.MaterializationClientPort, error) {
	servers := a.Servers
	if len(servers) == 0 {
		servers = []types.ServerEndpoint{DefaultGlobalServer}
	}
	for _, server := range servers {
		base := shared.TrimBaseURL(string(server))
		if base == "" {
			continue
		}
		info, err := a.Info.datastackInfo(ctx, base, datastack)
		if err != nil {
			if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
				log.Ctx(ctx).Debug().
					Str("datastack", string(datastack)).
					Str("server", base).
					Msg("datastack not hosted on server")
				continue
			}
			return nil, err
		}
		localServer := shared.TrimBaseURL(info.LocalServer)
		if localServer == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("datastack info has no local server: " + string(datastack))
		}
		return NewCAVEMaterializationAdapter(a.Info.Transport, datastack, localServer), nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("datastack not found on any server: " + strings.TrimSpace(string(datastack)))
}

var _ ports.ClientResolverPort = CAVEClientResolverAdapter{}
