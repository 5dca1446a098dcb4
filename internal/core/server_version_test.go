package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerVersionPolicyOutdated(t *testing.T) {
	policy, err := NewServerVersionPolicy("4.30.0")
	require.NoError(t, err)

	tests := []struct {
		label string
		want  bool
	}{
		{label: "4.29.9", want: true},
		{label: "4.30.0", want: false},
		{label: "4.31.2", want: false},
		{label: "5.0.0rc1", want: false},
		{label: " 3.8 ", want: true},
		{label: "not a version!!", want: false},
		{label: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Outdated(tt.label))
		})
	}
}

func TestServerVersionPolicyWithoutMinimum(t *testing.T) {
	policy, err := NewServerVersionPolicy("  ")
	require.NoError(t, err)
	assert.False(t, policy.Outdated("0.0.1"))
}

func TestServerVersionPolicyInvalidMinimum(t *testing.T) {
	_, err := NewServerVersionPolicy("latest!!")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
