package qrs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireTypesMappingsAreValid(t *testing.T) {
	for _, wireType := range wireTypes {
		assert.NoError(t, validateMapping(wireType), wireType.Name())
	}
}

func TestValidateMappingRejectsUnmappedAttribute(t *testing.T) {
	type broken struct {
		Name   string `json:"name"`
		Orphan string
	}

	err := validateMapping(reflect.TypeOf(broken{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Orphan")
}

func TestValidateMappingRejectsCollision(t *testing.T) {
	type broken struct {
		Name  string `json:"name"`
		Alias string `json:"name"`
	}

	err := validateMapping(reflect.TypeOf(broken{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestValidateMappingWalksEmbedded(t *testing.T) {
	type Inner struct {
		ID string `json:"id"`
	}

	type outer struct {
		Inner

		ID string `json:"id"`
	}

	// Embedded fields still count: a collision across embedding levels
	// would silently drop one attribute on the wire.
	err := validateMapping(reflect.TypeOf(outer{}))
	require.Error(t, err)
}
