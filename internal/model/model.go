package model

import (
	"encoding/json"
	"strconv"
)

// ResourceModel is the declarative representation of a resource. Keys are the
// PascalCase property names of the resource schema.
type ResourceModel map[string]interface{}

// NewResourceModel copies the top level of partial into a new model.
func NewResourceModel(partial map[string]interface{}) ResourceModel {
	m := make(ResourceModel, len(partial))
	for key, value := range partial {
		m[key] = value
	}
	return m
}

// Clone returns a shallow copy.
func (m ResourceModel) Clone() ResourceModel {
	return NewResourceModel(m)
}

// Identifier returns the value of field when it holds a non-empty identifier.
func (m ResourceModel) Identifier(field string) (string, bool) {
	switch v := m[field].(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// Without returns a copy minus the named fields.
func (m ResourceModel) Without(fields ...string) ResourceModel {
	out := m.Clone()
	for _, field := range fields {
		delete(out, field)
	}
	return out
}

// Compact returns a copy without nil values. Unset properties arrive as nulls
// and must not be sent to the api.
func (m ResourceModel) Compact() ResourceModel {
	out := make(ResourceModel, len(m))
	for key, value := range m {
		if value == nil {
			continue
		}
		out[key] = value
	}
	return out
}

// Map exposes the model as a plain map for the transform package.
func (m ResourceModel) Map() map[string]interface{} {
	return map[string]interface{}(m)
}

// SetModelFrom reconciles a freshly ingested model with a local one. The
// identifier comes from local when it has one, every other field from
// ingested. A nil ingested model leaves local untouched.
func SetModelFrom(local ResourceModel, ingested ResourceModel, identifierField string) ResourceModel {
	if ingested == nil {
		return local
	}
	out := ingested.Clone()
	if _, ok := local.Identifier(identifierField); ok {
		out[identifierField] = local[identifierField]
	}
	return out
}
