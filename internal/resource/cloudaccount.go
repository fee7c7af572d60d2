package resource

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/model"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/transform"
)

// CloudAccount is Lacework::Integration::CloudAccount, served by
// /CloudAccounts. Data is declared as a json encoded string and has to be sent
// as a structure; the api returns it expanded, so it is not read back.
func CloudAccount() Definition {
	return Definition{
		TypeName:        shared.CloudAccountTypeName,
		Collection:      "CloudAccounts",
		IdentifierField: "IntgGuid",
		UpdateMethod:    http.MethodPatch,
		Properties:      []string{"IntgGuid", "Name", "Type", "Enabled", "Data"},
		Required:        []string{"Name", "Type", "Data"},
		InboundDeny:     append([]string{"data"}, serverMetadata...),
		Outbound:        transform.PascalToCamel,
		Inbound:         transform.CamelToPascal,
		BeforeSend:      parseCloudAccountData,
	}
}

func parseCloudAccountData(m model.ResourceModel) (model.ResourceModel, error) {
	raw, ok := m["Data"].(string)
	if !ok {
		return m, nil
	}
	var data interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, &InvalidRequestError{
			TypeName: shared.CloudAccountTypeName,
			Err:      errors.Wrap(err, "property [Data] is not valid json"),
		}
	}
	out := m.Clone()
	out["Data"] = data
	return out, nil
}
