package types

import "time"

type ServerEndpoint string

type DatastackID string

// VersionRecord is the reduced materialization state of one datastack.
// LatestExpectedVersion includes expired versions, so it is never below
// LatestActiveVersion.
type VersionRecord struct {
	Datastack             DatastackID
	ServerEndpoint        string
	ServerVersionLabel    string
	LatestActiveVersion   int
	LatestExpectedVersion int
	LatestTimestamp       time.Time
	Success               bool
}

type AuditConfig struct {
	Servers           []ServerEndpoint
	DatastackOverride []DatastackID
}

func DatastackIDs(values []string) []DatastackID {
	if len(values) == 0 {
		return nil
	}
	ids := make([]DatastackID, 0, len(values))
	for _, value := range values {
		ids = append(ids, DatastackID(value))
	}
	return ids
}

func ServerEndpoints(values []string) []ServerEndpoint {
	if len(values) == 0 {
		return nil
	}
	servers := make([]ServerEndpoint, 0, len(values))
	for _, value := range values {
		servers = append(servers, ServerEndpoint(value))
	}
	return servers
}
