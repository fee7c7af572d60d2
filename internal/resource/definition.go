package resource

import (
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/model"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/transform"
)

// Definition is everything that differs between resource types. Each type's
// contract with its endpoint is spelled out field by field; nothing here is
// derived from the others.
type Definition struct {
	TypeName        string
	Collection      string // path segment, e.g. "AlertChannels"
	IdentifierField string // model name of the identifier
	UpdateMethod    string // PUT or PATCH, whichever the endpoint accepts

	// ClientIdentifier is set when the caller chooses the identifier on
	// create. Otherwise the server assigns it and a local value is not sent.
	ClientIdentifier bool

	Properties []string // every property of the resource schema
	Required   []string // properties that must be present on create

	OutboundDeny []string // model fields stripped from the update body
	InboundDeny  []string // wire fields dropped from responses

	Outbound transform.Convention // model to wire
	Inbound  transform.Convention // wire to model

	// BeforeSend adjusts the model before create and update, after deny
	// listing and before the key transform.
	BeforeSend func(m model.ResourceModel) (model.ResourceModel, error)
}

func (d Definition) ingestion() transform.Ingestion {
	return transform.Ingestion{
		Deny:       d.InboundDeny,
		Convention: d.Inbound,
		Properties: d.Properties,
	}
}

func (d Definition) collectionPath() string {
	return "/" + d.Collection
}

func (d Definition) itemPath(id string) string {
	return "/" + d.Collection + "/" + id
}
