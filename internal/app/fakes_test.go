package app

import (
	"context"
	"sync"
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
	timestamp     time.Time
	serverVersion string
	delay         time.Duration
}

func (f fakeClient) ListVersions(_ context.Context, includeExpired bool) ([]int, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if includeExpired {
		return f.expected, nil
	}
	return f.active, nil
}

func (f fakeClient) GetTimestamp(_ context.Context, _ int) (time.Time, error) {
	return f.timestamp, nil
}

func (f fakeClient) ServerVersion(_ context.Context) (string, error) {
	return f.serverVersion, nil
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
	mu         sync.Mutex
	phases     []string
	increments int
	finished   int
}

func (p *recordingProgress) Start(phase string, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phases = append(p.phases, phase)
}

func (p *recordingProgress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.increments++
}

func (p *recordingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished++
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
}

func fixedRunID() string {
	return "run-1"
}
