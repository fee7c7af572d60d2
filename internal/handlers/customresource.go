package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-lambda-go/cfn"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/lacework"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/model"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/resource"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
)

const serviceTokenProperty string = "ServiceToken"

// HandleCustomResource serves a Custom::* resource backed by this type. The
// physical id is the resource identifier and the returned data holds the
// scalar properties for Fn::GetAtt.
func (h *_ResourceHandler) HandleCustomResource(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	def := h.adapter.Definition()
	log.Printf("custom resource [%s] [%s] [%s]\n", event.RequestType, event.LogicalResourceID, event.PhysicalResourceID)

	tc, err := h.loader.Load(ctx, nil)
	if err != nil {
		return event.PhysicalResourceID, nil, err
	}

	properties := model.NewResourceModel(event.ResourceProperties).Without(serviceTokenProperty)

	switch event.RequestType {
	case cfn.RequestCreate:
		return h.createCustomResource(ctx, properties, tc)

	case cfn.RequestUpdate:
		// a changed identifier means a new resource; CloudFormation deletes the old one afterwards
		if id, ok := properties.Identifier(def.IdentifierField); ok && id != event.PhysicalResourceID {
			log.Printf("identifier changed from [%s] to [%s], replacing\n", event.PhysicalResourceID, id)
			return h.createCustomResource(ctx, properties, tc)
		}
		properties[def.IdentifierField] = event.PhysicalResourceID
		updated, err := h.adapter.Update(ctx, properties, tc)
		if err != nil {
			return event.PhysicalResourceID, nil, err
		}
		return event.PhysicalResourceID, shared.ScalarAttributes(updated), nil

	case cfn.RequestDelete:
		properties[def.IdentifierField] = event.PhysicalResourceID
		err := h.adapter.Delete(ctx, properties, tc)
		if errors.Is(err, resource.ErrNotFound) || lacework.IsNotFound(err) {
			log.Printf("[%s] already deleted\n", event.PhysicalResourceID)
			return event.PhysicalResourceID, nil, nil
		}
		return event.PhysicalResourceID, nil, err
	}

	return event.PhysicalResourceID, nil, errors.New("unsupported request type : " + string(event.RequestType))
}

func (h *_ResourceHandler) createCustomResource(ctx context.Context, properties model.ResourceModel, tc model.TypeConfiguration) (string, map[string]interface{}, error) {
	created, err := h.adapter.Create(ctx, properties, tc)
	if err != nil {
		return "", nil, err
	}
	id, _ := created.Identifier(h.adapter.Definition().IdentifierField)
	return id, shared.ScalarAttributes(created), nil
}
