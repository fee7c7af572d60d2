package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/model"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/s3api"
)

// TypeConfigurationError reports a type configuration that could not be
// loaded or is incomplete.
type TypeConfigurationError struct {
	Source string
	Err    error
}

func (e *TypeConfigurationError) Error() string {
	return fmt.Sprintf("invalid type configuration from [%s]: %v", e.Source, e.Err)
}

func (e *TypeConfigurationError) Unwrap() error {
	return e.Err
}

const (
	sourceRequest     string = "request"
	sourceS3          string = "s3"
	sourceEnvironment string = "environment"
)

// ConfigurationLoader resolves the type configuration for an invocation. The
// request wins, then the s3 configuration object, then the LW_* environment.
type ConfigurationLoader struct {
	S3Api  s3api.S3Api // optional
	Bucket string
	Key    string
}

func (l ConfigurationLoader) Load(ctx context.Context, fromRequest map[string]interface{}) (model.TypeConfiguration, error) {
	tc, source, err := l.resolve(ctx, fromRequest)
	if err != nil {
		return tc, &TypeConfigurationError{Source: source, Err: err}
	}
	log.Printf("type configuration from [%s] : [%v]\n", source, tc.LaceworkAccess)
	if err := tc.Validate(); err != nil {
		return tc, &TypeConfigurationError{Source: source, Err: err}
	}
	return tc, nil
}

func (l ConfigurationLoader) resolve(ctx context.Context, fromRequest map[string]interface{}) (model.TypeConfiguration, string, error) {
	if len(fromRequest) > 0 {
		tc, err := model.DecodeTypeConfiguration(fromRequest)
		return tc, sourceRequest, err
	}

	if l.S3Api != nil && l.Bucket != "" && l.Key != "" {
		content, err := s3api.ReadObject(ctx, l.S3Api, l.Bucket, l.Key)
		// return errors
		if err != nil {
			return model.TypeConfiguration{}, sourceS3, errors.Wrapf(err, "failed to read [%s/%s]", l.Bucket, l.Key)
		}
		// yaml is a superset of json, so either encoding is accepted
		var document map[string]interface{}
		if err := yaml.Unmarshal(content, &document); err != nil {
			return model.TypeConfiguration{}, sourceS3, errors.Wrap(err, "failed to parse configuration object")
		}
		tc, err := model.DecodeTypeConfiguration(document)
		return tc, sourceS3, err
	}

	return model.TypeConfigurationFromEnv(), sourceEnvironment, nil
}
