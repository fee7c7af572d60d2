package handlers

// Provider actions.
const (
	ActionCreate string = "CREATE"
	ActionRead   string = "READ"
	ActionUpdate string = "UPDATE"
	ActionDelete string = "DELETE"
	ActionList   string = "LIST"
)

// ProviderRequest is the payload the resource provider host sends for one
// handler invocation.
type ProviderRequest struct {
	Action            string                 `json:"action"`
	ResourceType      string                 `json:"resourceType,omitempty"`
	TypeConfiguration map[string]interface{} `json:"typeConfiguration,omitempty"`
	CallbackContext   map[string]interface{} `json:"callbackContext,omitempty"`
	Request           ResourceRequest        `json:"request"`
}

type ResourceRequest struct {
	ClientRequestToken        string                 `json:"clientRequestToken,omitempty"`
	DesiredResourceState      map[string]interface{} `json:"desiredResourceState,omitempty"`
	PreviousResourceState     map[string]interface{} `json:"previousResourceState,omitempty"`
	LogicalResourceIdentifier string                 `json:"logicalResourceIdentifier,omitempty"`
}
