package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"materialization-audit/internal/ports"
	"materialization-audit/internal/shared"
	"materialization-audit/internal/types"
)

// CAVEInfoAdapter talks to the info service of a CAVE global server.
type CAVEInfoAdapter struct {
	Transport HTTPTransport
}

type caveDatastackInfo struct {
	LocalServer string `json:"local_server"`
}

func NewCAVEInfoAdapter(transport HTTPTransport) CAVEInfoAdapter {
	return CAVEInfoAdapter{Transport: transport}
}

func (a CAVEInfoAdapter) ListDatastacks(ctx context.Context, server types.ServerEndpoint) ([]types.DatastackID, error) {
	base := shared.TrimBaseURL(string(server))
	if base == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("server endpoint is empty")
	}
	var names []string
	if err := a.Transport.getJSON(ctx, base+"/info/api/v2/datastacks", &names); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeOf(err)).
			WithMsg("failed to list datastacks on " + base).
			WithCause(err)
	}
	datastacks := make([]types.DatastackID, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		datastacks = append(datastacks, types.DatastackID(trimmed))
	}
	return datastacks, nil
}

func (a CAVEInfoAdapter) datastackInfo(ctx context.Context, server string, datastack types.DatastackID) (caveDatastackInfo, error) {
	infoURL := fmt.Sprintf("%s/info/api/v2/datastack/full/%s", server, url.PathEscape(string(datastack)))
	var info caveDatastackInfo
	if err := a.Transport.getJSON(ctx, infoURL, &info); err != nil {
		return caveDatastackInfo{}, err
	}
	return info, nil
}

var _ ports.DatastackListerPort = CAVEInfoAdapter{}
