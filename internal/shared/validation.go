package shared

import (
	"fmt"
	"log"
	"regexp"

	"go.uber.org/multierr"
)

const (
	// lacework account names are dns labels
	laceworkAccountPattern = `^[a-z0-9][a-z0-9-]*$`
)

// validate lacework account name
func IsValidAccountName(account string) bool {
	matched, err := regexp.MatchString(laceworkAccountPattern, account)
	if err != nil {
		log.Printf("error validating lacework account name: %s", err)
		return false
	}
	return matched
}

// IsPresent reports whether a value counts as supplied. nil, empty strings and
// empty collections do not.
func IsPresent(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	}
	return true
}

// RequireFields returns one error per missing field, combined.
func RequireFields(values map[string]interface{}, fields ...string) error {
	var err error
	for _, field := range fields {
		if !IsPresent(values[field]) {
			err = multierr.Append(err, fmt.Errorf("required property [%s] is missing", field))
		}
	}
	return err
}

// MissingFields lists the fields whose presence check failed, in the order given.
func MissingFields(values map[string]interface{}, fields ...string) []string {
	missing := []string{}
	for _, field := range fields {
		if !IsPresent(values[field]) {
			missing = append(missing, field)
		}
	}
	return missing
}
