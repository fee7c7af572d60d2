package lacework

import (
	"bytes"
	"encoding/json"
)

// Entity is the response envelope of a single resource: {"data": {...}}.
// Some endpoints wrap a single resource in a one element array; both decode.
type Entity struct {
	Data map[string]interface{}
}

func (e *Entity) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	data := bytes.TrimSpace(raw.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		e.Data = nil
		return nil
	}
	if data[0] == '[' {
		var items []map[string]interface{}
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		e.Data = nil
		if len(items) > 0 {
			e.Data = items[0]
		}
		return nil
	}
	return json.Unmarshal(data, &e.Data)
}

// Collection is the response envelope of a list: {"data": [...]}.
type Collection struct {
	Data []map[string]interface{} `json:"data"`
}
