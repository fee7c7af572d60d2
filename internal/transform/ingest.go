package transform

// Omit returns a shallow copy of payload without the named top level keys.
func Omit(payload map[string]interface{}, keys ...string) map[string]interface{} {
	if payload == nil {
		return nil
	}
	deny := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		deny[key] = struct{}{}
	}
	out := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		if _, ok := deny[key]; ok {
			continue
		}
		out[key] = value
	}
	return out
}

// Retain returns a shallow copy of payload holding only the named top level keys.
func Retain(payload map[string]interface{}, keys ...string) map[string]interface{} {
	if payload == nil {
		return nil
	}
	out := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		if value, ok := payload[key]; ok {
			out[key] = value
		}
	}
	return out
}

// Ingestion turns a wire payload into model fields: server-only keys are dropped
// by wire name, the remaining keys are rewritten, and anything the schema does
// not declare is discarded.
type Ingestion struct {
	Deny       []string   // wire names
	Convention Convention // wire to model
	Properties []string   // model names; empty keeps everything
}

// Apply runs the ingestion once. The payload is not modified.
func (i Ingestion) Apply(payload map[string]interface{}) map[string]interface{} {
	if payload == nil {
		return map[string]interface{}{}
	}
	out := TransformMap(Omit(payload, i.Deny...), i.Convention)
	if len(i.Properties) > 0 {
		out = Retain(out, i.Properties...)
	}
	return out
}
