package shared

import (
	"encoding/json"
	"log"
)

// ScalarAttributes keeps the top level string, number and bool values of a model.
// CloudFormation custom resources can only expose those through Fn::GetAtt.
func ScalarAttributes(values map[string]interface{}) map[string]interface{} {
	attributes := make(map[string]interface{})
	if values == nil {
		log.Println("values null. returning empty attributes")
		return attributes
	}
	for key, value := range values {
		switch value.(type) {
		case string, bool, float64, int, int64, json.Number:
			attributes[key] = value
		}
	}
	return attributes
}
