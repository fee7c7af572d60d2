package resource

import (
	"net/http"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/transform"
)

// AlertChannel is Lacework::Alerts::Channel, served by /AlertChannels.
// Updates replace the whole channel. The server assigns IntgGuid.
func AlertChannel() Definition {
	return Definition{
		TypeName:        shared.AlertChannelTypeName,
		Collection:      "AlertChannels",
		IdentifierField: "IntgGuid",
		UpdateMethod:    http.MethodPut,
		Properties:      []string{"IntgGuid", "Name", "Type", "Enabled", "Data"},
		InboundDeny:     serverMetadata,
		Outbound:        transform.PascalToCamel,
		Inbound:         transform.CamelToPascal,
	}
}

// serverMetadata lists the bookkeeping fields the integration endpoints add to
// every entity.
var serverMetadata = []string{"createdOrUpdatedBy", "createdOrUpdatedTime", "isOrg", "props", "state"}
