package mock

import (
	"context"
	"encoding/json"
)

// RequesterCall is one call made through MockRequester.
type RequesterCall struct {
	Method string
	Path   string
	Body   interface{}
}

// MockRequester records calls and answers each with the next canned response.
// Responses are json documents decoded into the caller's out value.
type MockRequester struct {
	Calls     []RequesterCall
	Responses []string
	Err       error
}

func (m *MockRequester) Do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	m.Calls = append(m.Calls, RequesterCall{Method: method, Path: path, Body: body})
	if m.Err != nil {
		return m.Err
	}
	if len(m.Responses) == 0 {
		return nil
	}
	response := m.Responses[0]
	m.Responses = m.Responses[1:]
	if out == nil || response == "" {
		return nil
	}
	return json.Unmarshal([]byte(response), out)
}
