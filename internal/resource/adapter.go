// Package resource maps the five provider verbs of a resource type onto the
// Lacework api. One Adapter serves every type; a Definition carries the
// differences.
package resource

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/cache"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/lacework"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/model"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/transform"
)

// ClientFactory builds the requester used by a single operation.
type ClientFactory func(tc model.TypeConfiguration, userAgent string) (lacework.Requester, error)

// tokens outlive a single invocation in a warm function
var tokenCache = cache.NewTokenCache()

// NewLaceworkClient is the production ClientFactory.
func NewLaceworkClient(tc model.TypeConfiguration, userAgent string) (lacework.Requester, error) {
	access := tc.LaceworkAccess
	return lacework.NewClient(lacework.Credentials{
		Account:     access.Account,
		SubAccount:  access.SubAccount,
		AccessKeyId: access.AccessKeyId,
		SecretKey:   access.SecretKey,
	}, lacework.WithUserAgent(userAgent), lacework.WithTokenCache(tokenCache))
}

type Adapter struct {
	def       Definition
	newClient ClientFactory
	userAgent string
}

type AdapterConfig struct {
	Definition    Definition
	Version       string
	ClientFactory ClientFactory // defaults to NewLaceworkClient
}

func NewAdapter(config AdapterConfig) *Adapter {
	factory := config.ClientFactory
	if factory == nil {
		factory = NewLaceworkClient
	}
	version := config.Version
	if version == "" {
		version = "dev"
	}
	return &Adapter{
		def:       config.Definition,
		newClient: factory,
		userAgent: lacework.BuildUserAgent(config.Definition.TypeName, version),
	}
}

func (a *Adapter) Definition() Definition {
	return a.def
}

func (a *Adapter) UserAgent() string {
	return a.userAgent
}

// Create posts the model to the collection and returns the created resource.
func (a *Adapter) Create(ctx context.Context, m model.ResourceModel, tc model.TypeConfiguration) (model.ResourceModel, error) {
	log.Printf("creating [%s]\n", a.def.TypeName)
	if missing := shared.MissingFields(m, a.def.Required...); len(missing) > 0 {
		return nil, &InvalidRequestError{
			TypeName: a.def.TypeName,
			Missing:  missing,
			Err:      shared.RequireFields(m, a.def.Required...),
		}
	}

	local := m
	if !a.def.ClientIdentifier {
		if id, ok := m.Identifier(a.def.IdentifierField); ok {
			log.Printf("dropping [%s] [%s] from create, the server assigns it\n", a.def.IdentifierField, id)
		}
		local = m.Without(a.def.IdentifierField)
	}

	body, err := a.outbound(local)
	if err != nil {
		return nil, err
	}
	client, err := a.newClient(tc, a.userAgent)
	if err != nil {
		return nil, err
	}

	var resp lacework.Entity
	if err := client.Do(ctx, http.MethodPost, a.def.collectionPath(), body, &resp); err != nil {
		return nil, err
	}
	created := a.ingest(local, resp.Data)
	log.Printf("created [%s] with [%s]\n", a.def.TypeName, a.identifierOf(created))
	return created, nil
}

// Get reads the resource named by the model's identifier.
func (a *Adapter) Get(ctx context.Context, m model.ResourceModel, tc model.TypeConfiguration) (model.ResourceModel, error) {
	id, err := a.requireIdentifier(m)
	if err != nil {
		return nil, err
	}
	log.Printf("reading [%s] [%s]\n", a.def.TypeName, id)
	client, err := a.newClient(tc, a.userAgent)
	if err != nil {
		return nil, err
	}

	var resp lacework.Entity
	if err := client.Do(ctx, http.MethodGet, a.def.itemPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return a.ingest(m, resp.Data), nil
}

// Update replaces or patches the resource, depending on the endpoint.
func (a *Adapter) Update(ctx context.Context, m model.ResourceModel, tc model.TypeConfiguration) (model.ResourceModel, error) {
	id, err := a.requireIdentifier(m)
	if err != nil {
		return nil, err
	}
	log.Printf("updating [%s] [%s] with [%s]\n", a.def.TypeName, id, a.def.UpdateMethod)

	body, err := a.outbound(m.Without(a.def.OutboundDeny...))
	if err != nil {
		return nil, err
	}
	client, err := a.newClient(tc, a.userAgent)
	if err != nil {
		return nil, err
	}

	var resp lacework.Entity
	if err := client.Do(ctx, a.def.UpdateMethod, a.def.itemPath(id), body, &resp); err != nil {
		return nil, err
	}
	return a.ingest(m, resp.Data), nil
}

// Delete removes the resource named by the model's identifier.
func (a *Adapter) Delete(ctx context.Context, m model.ResourceModel, tc model.TypeConfiguration) error {
	id, err := a.requireIdentifier(m)
	if err != nil {
		return err
	}
	log.Printf("deleting [%s] [%s]\n", a.def.TypeName, id)
	client, err := a.newClient(tc, a.userAgent)
	if err != nil {
		return err
	}
	return client.Do(ctx, http.MethodDelete, a.def.itemPath(id), nil, nil)
}

// List returns the first page the api serves, in server order. An absent or
// empty data array yields an empty, non-nil slice.
func (a *Adapter) List(ctx context.Context, _ model.ResourceModel, tc model.TypeConfiguration) ([]model.ResourceModel, error) {
	log.Printf("listing [%s]\n", a.def.TypeName)
	client, err := a.newClient(tc, a.userAgent)
	if err != nil {
		return nil, err
	}

	var resp lacework.Collection
	if err := client.Do(ctx, http.MethodGet, a.def.collectionPath(), nil, &resp); err != nil {
		return nil, err
	}

	models := make([]model.ResourceModel, 0, len(resp.Data))
	for _, item := range resp.Data {
		models = append(models, a.ingest(model.ResourceModel{}, item))
	}
	log.Printf("listed [%d] [%s]\n", len(models), a.def.TypeName)
	return models, nil
}

func (a *Adapter) requireIdentifier(m model.ResourceModel) (string, error) {
	id, ok := m.Identifier(a.def.IdentifierField)
	if !ok {
		return "", &NotFoundError{TypeName: a.def.TypeName, IdentifierField: a.def.IdentifierField}
	}
	return url.PathEscape(id), nil
}

func (a *Adapter) identifierOf(m model.ResourceModel) string {
	id, _ := m.Identifier(a.def.IdentifierField)
	return id
}

// outbound turns a model into a wire body.
func (a *Adapter) outbound(m model.ResourceModel) (map[string]interface{}, error) {
	m = m.Compact()
	if a.def.BeforeSend != nil {
		var err error
		if m, err = a.def.BeforeSend(m); err != nil {
			return nil, err
		}
	}
	return transform.TransformMap(m.Map(), a.def.Outbound), nil
}

// ingest filters a wire entity into a model and reconciles it with local.
func (a *Adapter) ingest(local model.ResourceModel, payload map[string]interface{}) model.ResourceModel {
	ingested := model.ResourceModel(a.def.ingestion().Apply(payload))
	return model.SetModelFrom(local, ingested, a.def.IdentifierField)
}
