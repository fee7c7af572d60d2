package resource

import (
	"net/http"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/transform"
)

// AlertProfile is Lacework::Alerts::Profile, served by /AlertProfiles. The
// identifier is chosen by the caller. PATCH bodies may not carry the
// identifier or the profile it extends.
func AlertProfile() Definition {
	return Definition{
		TypeName:         shared.AlertProfileTypeName,
		Collection:       "AlertProfiles",
		IdentifierField:  "AlertProfileId",
		ClientIdentifier: true,
		UpdateMethod:     http.MethodPatch,
		Properties:       []string{"AlertProfileId", "Extends", "Alerts"},
		Required:         []string{"AlertProfileId", "Extends"},
		OutboundDeny:     []string{"AlertProfileId", "Extends"},
		InboundDeny:      []string{"fields", "descriptionKeys", "alerts"},
		Outbound:         transform.PascalToCamel,
		Inbound:          transform.CamelToPascal,
	}
}
