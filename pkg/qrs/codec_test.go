package qrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDecodeEncodePreservesUnknownWireFields(t *testing.T) {
	// The payload carries a field no mapped attribute knows about.
	payload := []byte(`{
		"id": "0c5d1c1e-46fe-4cbf-b3a3-0d1c6e4f2a01",
		"name": "Everyone",
		"schemaPath": "Stream",
		"unknownServerField": {"nested": true}
	}`)

	stream := &Stream{}
	require.NoError(t, DecodeEntity(payload, stream))
	assert.Equal(t, "Everyone", stream.Name)

	stream.Name = "Everybody"

	encoded, err := EncodeEntity(stream)
	require.NoError(t, err)

	assert.Equal(t, "Everybody", gjson.GetBytes(encoded, "name").String())
	assert.True(t, gjson.GetBytes(encoded, "unknownServerField.nested").Bool(),
		"fields outside the mapping survive a fetch-modify-update round trip")
	assert.Equal(t, "Stream", gjson.GetBytes(encoded, "schemaPath").String())
}

func TestEncodeDropsClearedAttributes(t *testing.T) {
	payload := []byte(`{
		"id": "0c5d1c1e-46fe-4cbf-b3a3-0d1c6e4f2a01",
		"name": "Sales",
		"description": "quarterly numbers",
		"unknownServerField": 7
	}`)

	app := &App{}
	require.NoError(t, DecodeEntity(payload, app))
	require.Equal(t, "quarterly numbers", app.Description)

	app.Description = ""

	encoded, err := EncodeEntity(app)
	require.NoError(t, err)

	assert.False(t, gjson.GetBytes(encoded, "description").Exists(),
		"a cleared attribute must not revert to the fetched value")
	assert.Equal(t, "Sales", gjson.GetBytes(encoded, "name").String())
	assert.Equal(t, int64(7), gjson.GetBytes(encoded, "unknownServerField").Int(),
		"fields outside the mapping are untouched by the clear")
}

func TestEncodeWithoutSnapshot(t *testing.T) {
	stream := &Stream{StreamCondensed: StreamCondensed{Name: "Finance"}}

	encoded, err := EncodeEntity(stream)
	require.NoError(t, err)

	assert.Equal(t, "Finance", gjson.GetBytes(encoded, "name").String())
	assert.False(t, gjson.GetBytes(encoded, "id").Exists(), "empty optional attributes stay off the wire")
}

func TestDecodeEntityMalformed(t *testing.T) {
	err := DecodeEntity([]byte(`{"name": 12`), &Tag{})
	require.Error(t, err)
}

func TestDecodeEntitySnapshotsACopy(t *testing.T) {
	payload := []byte(`{"id":"0c5d1c1e-46fe-4cbf-b3a3-0d1c6e4f2a01","name":"Everyone"}`)

	stream := &Stream{}
	require.NoError(t, DecodeEntity(payload, stream))

	// Mutating the caller's buffer must not corrupt the snapshot.
	payload[0] = 'X'

	encoded, err := EncodeEntity(stream)
	require.NoError(t, err)
	assert.Equal(t, "Everyone", gjson.GetBytes(encoded, "name").String())
}
