package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"materialization-audit/internal/ports"
	"materialization-audit/internal/types"
)

// CAVEMaterializationAdapter queries the materialization engine for one
// datastack on its local server.
type CAVEMaterializationAdapter struct {
	Transport   HTTPTransport
	Datastack   types.DatastackID
	LocalServer string
}

type caveVersionMetadata struct {
	Version   int    `json:"version"`
	TimeStamp string `json:"time_stamp"`
	Valid     bool   `json:"valid"`
}

func NewCAVEMaterializationAdapter(transport HTTPTransport, datastack types.DatastackID, localServer string) CAVEMaterializationAdapter {
	return CAVEMaterializationAdapter{
		Transport:   transport,
		Datastack:   datastack,
		LocalServer: localServer,
	}
}

func (a CAVEMaterializationAdapter) ListVersions(ctx context.Context, includeExpired bool) ([]int, error) {
	versionsURL := fmt.Sprintf("%s/versions?expired=%s", a.datastackURL(), strconv.FormatBool(includeExpired))
	var versions []int
	if err := a.Transport.getJSON(ctx, versionsURL, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (a CAVEMaterializationAdapter) GetTimestamp(ctx context.Context, version int) (time.Time, error) {
	versionURL := fmt.Sprintf("%s/version/%d", a.datastackURL(), version)
	var metadata caveVersionMetadata
	if err := a.Transport.getJSON(ctx, versionURL, &metadata); err != nil {
		return time.Time{}, err
	}
	timestamp := parseTimeFlexible(metadata.TimeStamp)
	if timestamp.IsZero() {
		return time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("unparseable time_stamp %q for version %d", metadata.TimeStamp, version))
	}
	return timestamp, nil
}

func (a CAVEMaterializationAdapter) ServerVersion(ctx context.Context) (string, error) {
	body, err := a.Transport.get(ctx, a.LocalServer+"/materialize/version")
	if err != nil {
		return "", err
	}
	var label string
	if err := json.Unmarshal(body, &label); err == nil {
		return strings.TrimSpace(label), nil
	}
	return strings.TrimSpace(string(body)), nil
}

func (a CAVEMaterializationAdapter) ServerEndpoint() string {
	return a.LocalServer
}

func (a CAVEMaterializationAdapter) datastackURL() string {
	return fmt.Sprintf("%s/materialize/api/v2/datastack/%s", a.LocalServer, url.PathEscape(string(a.Datastack)))
}

var _ ports.MaterializationClientPort = CAVEMaterializationAdapter{}
