package core

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
)

// ServerVersionPolicy flags services running a build older than the configured minimum.
// Labels that do not parse as PEP 440 versions are never flagged.
type ServerVersionPolicy struct {
	minimum    pep440.Version
	hasMinimum bool
}

func NewServerVersionPolicy(minimum string) (ServerVersionPolicy, error) {
	trimmed := strings.TrimSpace(minimum)
	if trimmed == "" {
		return ServerVersionPolicy{}, nil
	}
	parsed, err := pep440.Parse(trimmed)
	if err != nil {
		return ServerVersionPolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid minimum server version: " + trimmed).
			WithCause(err)
	}
	return ServerVersionPolicy{minimum: parsed, hasMinimum: true}, nil
}

func (p ServerVersionPolicy) Outdated(label string) bool {
	if !p.hasMinimum {
		return false
	}
	parsed, err := pep440.Parse(strings.TrimSpace(label))
	if err != nil {
		return false
	}
	return parsed.LessThan(p.minimum)
}
