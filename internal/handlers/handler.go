// Package handlers exposes the resource adapters to their two callers: the
// resource provider host and CloudFormation custom resources.
package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/model"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/resource"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/s3api"
)

type Handler interface {
	// Invoke accepts either payload shape and returns the response to send back.
	Invoke(ctx context.Context, payload json.RawMessage) (interface{}, error)
	HandleProviderRequest(ctx context.Context, request ProviderRequest) ProgressEvent
	HandleCustomResource(ctx context.Context, event cfn.Event) (physicalResourceID string, data map[string]interface{}, err error)
}

type _ResourceHandler struct {
	adapter *resource.Adapter
	loader  ConfigurationLoader
}

type ResourceHandlerConfig struct {
	Definition    resource.Definition
	Version       string
	ClientFactory resource.ClientFactory // defaults to resource.NewLaceworkClient
	S3Api         s3api.S3Api            // optional, reads the type configuration object
	ConfigBucket  string
	ConfigKey     string
}

func NewResourceHandler(config ResourceHandlerConfig) (Handler, error) {
	if config.Definition.TypeName == "" {
		return nil, errors.New("resource definition required")
	}
	return &_ResourceHandler{
		adapter: resource.NewAdapter(resource.AdapterConfig{
			Definition:    config.Definition,
			Version:       config.Version,
			ClientFactory: config.ClientFactory,
		}),
		loader: ConfigurationLoader{
			S3Api:  config.S3Api,
			Bucket: config.ConfigBucket,
			Key:    config.ConfigKey,
		},
	}, nil
}

// payload keys that only a custom resource event carries
type eventShape struct {
	RequestType string `json:"RequestType"`
	ResponseURL string `json:"ResponseURL"`
}

func (h *_ResourceHandler) Invoke(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log.Printf("aws request id : [%s]\n", lc.AwsRequestID)
	}

	var shape eventShape
	if err := json.Unmarshal(payload, &shape); err != nil {
		return nil, errors.Wrap(err, "failed to decode invocation payload")
	}

	if shape.RequestType != "" && shape.ResponseURL != "" {
		var event cfn.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode custom resource event")
		}
		reason, err := cfn.LambdaWrap(h.HandleCustomResource)(ctx, event)
		return reason, err
	}

	var request ProviderRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return nil, errors.Wrap(err, "failed to decode provider request")
	}
	return h.HandleProviderRequest(ctx, request), nil
}

func (h *_ResourceHandler) HandleProviderRequest(ctx context.Context, request ProviderRequest) ProgressEvent {
	def := h.adapter.Definition()
	token := request.Request.ClientRequestToken
	if token == "" {
		token = uuid.NewString()
	}
	log.Printf("[%s] [%s] client request token : [%s]\n", request.Action, def.TypeName, token)

	event := h.dispatch(ctx, request)
	event.ClientRequestToken = token
	if event.Status == StatusFailed {
		log.Printf("error : [%s] [%v]\n", event.ErrorCode, event.Message)
	}
	return event
}

func (h *_ResourceHandler) dispatch(ctx context.Context, request ProviderRequest) ProgressEvent {
	def := h.adapter.Definition()
	if request.ResourceType != "" && request.ResourceType != def.TypeName {
		return failed(&resource.InvalidRequestError{
			TypeName: def.TypeName,
			Err:      errors.Errorf("handler cannot serve [%s]", request.ResourceType),
		})
	}

	tc, err := h.loader.Load(ctx, request.TypeConfiguration)
	if err != nil {
		return failed(err)
	}

	desired := model.NewResourceModel(request.Request.DesiredResourceState)

	switch request.Action {
	case ActionCreate:
		created, err := h.adapter.Create(ctx, desired, tc)
		if err != nil {
			return failed(err)
		}
		return success(created)

	case ActionRead:
		current, err := h.adapter.Get(ctx, desired, tc)
		if err != nil {
			return failed(err)
		}
		return success(current)

	case ActionUpdate:
		if _, ok := desired.Identifier(def.IdentifierField); !ok {
			previous := model.NewResourceModel(request.Request.PreviousResourceState)
			if id, ok := previous[def.IdentifierField]; ok {
				desired[def.IdentifierField] = id
			}
		}
		updated, err := h.adapter.Update(ctx, desired, tc)
		if err != nil {
			return failed(err)
		}
		return success(updated)

	case ActionDelete:
		if err := h.adapter.Delete(ctx, desired, tc); err != nil {
			return failed(err)
		}
		return ProgressEvent{Status: StatusSuccess}

	case ActionList:
		models, err := h.adapter.List(ctx, desired, tc)
		if err != nil {
			return failed(err)
		}
		return ProgressEvent{Status: StatusSuccess, ResourceModels: models}
	}

	return failed(&resource.InvalidRequestError{
		TypeName: def.TypeName,
		Err:      errors.Errorf("unsupported action [%s]", request.Action),
	})
}
