package qrs

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DecodeEntity unmarshals wire JSON into the entity and snapshots the raw
// payload on it. The snapshot makes EncodeEntity a merge instead of a
// rewrite, so wire fields the mapping does not know about survive a
// fetch-modify-update round trip.
func DecodeEntity(data []byte, e Entity) error {
	if err := json.Unmarshal(data, e); err != nil {
		return fmt.Errorf("decoding %T: %w", e, err)
	}

	raw := make([]byte, len(data))
	copy(raw, data)
	e.setWire(raw)

	return nil
}

// EncodeEntity marshals the entity for the wire. When the entity carries a
// snapshot from a previous decode, the mapped fields are written over the
// snapshot key by key; otherwise the mapped fields alone form the payload.
func EncodeEntity(e Entity) ([]byte, error) {
	mapped, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", e, err)
	}

	raw := e.wireJSON()
	if raw == nil {
		return mapped, nil
	}

	merged := raw

	var mergeErr error

	gjson.ParseBytes(mapped).ForEach(func(key, value gjson.Result) bool {
		merged, mergeErr = sjson.SetRawBytes(merged, key.String(), []byte(value.Raw))

		return mergeErr == nil
	})

	if mergeErr != nil {
		return nil, fmt.Errorf("merging %T over wire snapshot: %w", e, mergeErr)
	}

	// omitempty keeps cleared attributes out of the marshalled form, so a
	// mapped key absent there was cleared by the caller. It must not ride
	// back with the value from the snapshot.
	for _, name := range mappedWireFields(e) {
		if gjson.GetBytes(mapped, name).Exists() {
			continue
		}

		merged, mergeErr = sjson.DeleteBytes(merged, name)
		if mergeErr != nil {
			return nil, fmt.Errorf("dropping cleared field %q of %T: %w", name, e, mergeErr)
		}
	}

	return merged, nil
}
