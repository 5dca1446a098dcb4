package core

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"materialization-audit/internal/ports"
	"materialization-audit/internal/types"
)

type fakeLister struct {
	byServer map[types.ServerEndpoint][]types.DatastackID
	errs     map[types.ServerEndpoint]error
	calls    []types.ServerEndpoint
}

func (f *fakeLister) ListDatastacks(_ context.Context, server types.ServerEndpoint) ([]types.DatastackID, error) {
	f.calls = append(f.calls, server)
	if err := f.errs[server]; err != nil {
		return nil, err
	}
	return f.byServer[server], nil
}

type fakeClient struct {
	endpoint      string
	active        []int
	expected      []int
	timestamps    map[int]time.Time
	serverVersion string

	activeErr    error
	expectedErr  error
	timestampErr error
	versionErr   error
}

func (f fakeClient) ListVersions(_ context.Context, includeExpired bool) ([]int, error) {
	if includeExpired {
		return f.expected, f.expectedErr
	}
	return f.active, f.activeErr
}

func (f fakeClient) GetTimestamp(_ context.Context, version int) (time.Time, error) {
	if f.timestampErr != nil {
		return time.Time{}, f.timestampErr
	}
	return f.timestamps[version], nil
}

func (f fakeClient) ServerVersion(_ context.Context) (string, error) {
	return f.serverVersion, f.versionErr
}

func (f fakeClient) ServerEndpoint() string {
	return f.endpoint
}

type fakeResolver struct {
	clients map[types.DatastackID]fakeClient
}

func (f fakeResolver) Resolve(_ context.Context, datastack types.DatastackID) (ports.MaterializationClientPort, error) {
	client, ok := f.clients[datastack]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("datastack not found: " + string(datastack))
	}
	return client, nil
}

type recordingProgress struct {
	phases     []string
	totals     []int
	increments int
	finished   int
}

func (p *recordingProgress) Start(phase string, total int) {
	p.phases = append(p.phases, phase)
	p.totals = append(p.totals, total)
}

func (p *recordingProgress) Increment() {
	p.increments++
}

func (p *recordingProgress) Finish() {
	p.finished++
}
