package resource

import (
	"fmt"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
)

// Lookup returns the definition registered for a CloudFormation type name.
func Lookup(typeName string) (Definition, error) {
	switch typeName {
	case shared.AlertChannelTypeName:
		return AlertChannel(), nil
	case shared.AlertProfileTypeName:
		return AlertProfile(), nil
	case shared.CloudAccountTypeName:
		return CloudAccount(), nil
	}
	return Definition{}, fmt.Errorf("unknown resource type [%s]", typeName)
}
