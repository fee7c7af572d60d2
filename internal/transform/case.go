// Package transform rewrites the keys of decoded JSON structures between the
// naming conventions used by resource schemas (PascalCase) and the Lacework
// API (camelCase, occasionally snake_case), and filters wire payloads before
// they become resource models.
package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Convention names a key rewrite from one naming convention to another.
type Convention int

const (
	Identity Convention = iota
	PascalToCamel
	CamelToPascal
	PascalToSnake
	SnakeToPascal
	CamelToSnake
	SnakeToCamel
)

var conventionNames = map[Convention]string{
	Identity:      "IDENTITY",
	PascalToCamel: "PASCAL_TO_CAMEL",
	CamelToPascal: "CAMEL_TO_PASCAL",
	PascalToSnake: "PASCAL_TO_SNAKE",
	SnakeToPascal: "SNAKE_TO_PASCAL",
	CamelToSnake:  "CAMEL_TO_SNAKE",
	SnakeToCamel:  "SNAKE_TO_CAMEL",
}

func (c Convention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Inverse returns the convention that undoes c.
func (c Convention) Inverse() Convention {
	switch c {
	case PascalToCamel:
		return CamelToPascal
	case CamelToPascal:
		return PascalToCamel
	case PascalToSnake:
		return SnakeToPascal
	case SnakeToPascal:
		return PascalToSnake
	case CamelToSnake:
		return SnakeToCamel
	case SnakeToCamel:
		return CamelToSnake
	}
	return Identity
}

// Key rewrites a single key.
func (c Convention) Key(key string) string {
	switch c {
	case PascalToCamel:
		return lowerFirst(key)
	case CamelToPascal:
		return upperFirst(key)
	case PascalToSnake, CamelToSnake:
		return toSnake(key)
	case SnakeToPascal:
		return upperFirst(fromSnake(key))
	case SnakeToCamel:
		return lowerFirst(fromSnake(key))
	}
	return key
}

// TransformKeys returns a copy of value with every map key rewritten by c.
// Maps and slices are copied recursively, everything else is returned as is.
// The input is never modified.
func TransformKeys(value interface{}, c Convention) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return TransformMap(v, c)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = TransformKeys(item, c)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = TransformMap(item, c)
		}
		return out
	}
	return value
}

// TransformMap is TransformKeys for a map. A nil map stays nil.
func TransformMap(m map[string]interface{}, c Convention) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		out[c.Key(key)] = TransformKeys(value, c)
	}
	return out
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// toSnake splits on case boundaries. Acronym runs stay together: "AWSAccountId" becomes
// "aws_account_id".
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fromSnake joins snake_case words into camelCase. Keys without underscores pass through.
func fromSnake(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(upperFirst(part))
	}
	return b.String()
}
