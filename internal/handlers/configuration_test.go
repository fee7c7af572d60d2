package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/mock"
)

func TestConfigurationLoader(t *testing.T) {
	t.Setenv("LW_ACCOUNT", "ENV-Account.lacework.net")
	t.Setenv("LW_SUBACCOUNT", "")
	t.Setenv("LW_API_KEY", "ENV_KEY")
	t.Setenv("LW_API_SECRET", "_ENV_SECRET")

	s3Api := &mock.MockS3Api{Objects: map[string][]byte{
		"config-bucket/lacework.yaml": []byte("LaceworkAccess:\n  Account: s3account\n  SubAccount: child\n  AccessKeyId: S3_KEY\n  SecretKey: _S3_SECRET\n"),
		"config-bucket/lacework.json": []byte(`{"laceworkAccess": {"account": "jsonaccount", "accessKeyId": "JSON_KEY", "secretKey": "_JSON_SECRET"}}`),
		"config-bucket/broken.yaml":   []byte("LaceworkAccess: [unterminated"),
	}}

	var tests = []struct {
		name            string
		loader          ConfigurationLoader
		fromRequest     map[string]interface{}
		expectedAccount string
		expectedKey     string
		expectedError   bool
	}{
		{"request wins", ConfigurationLoader{S3Api: s3Api, Bucket: "config-bucket", Key: "lacework.yaml"}, testTypeConfiguration, "acme", "ACME_KEY", false},
		{"yaml object", ConfigurationLoader{S3Api: s3Api, Bucket: "config-bucket", Key: "lacework.yaml"}, nil, "s3account", "S3_KEY", false},
		{"json object", ConfigurationLoader{S3Api: s3Api, Bucket: "config-bucket", Key: "lacework.json"}, nil, "jsonaccount", "JSON_KEY", false},
		{"environment without bucket", ConfigurationLoader{S3Api: s3Api}, nil, "env-account", "ENV_KEY", false},
		{"environment without s3 api", ConfigurationLoader{Bucket: "config-bucket", Key: "lacework.yaml"}, nil, "env-account", "ENV_KEY", false},
		{"missing object", ConfigurationLoader{S3Api: s3Api, Bucket: "config-bucket", Key: "missing.yaml"}, nil, "", "", true},
		{"unparseable object", ConfigurationLoader{S3Api: s3Api, Bucket: "config-bucket", Key: "broken.yaml"}, nil, "", "", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertion := assert.New(t)
			tc, err := test.loader.Load(context.Background(), test.fromRequest)
			if test.expectedError {
				var configErr *TypeConfigurationError
				assertion.True(errors.As(err, &configErr))
				assertion.Equal(sourceS3, configErr.Source)
				return
			}
			assertion.NoError(err)
			assertion.Equal(test.expectedAccount, tc.LaceworkAccess.Account)
			assertion.Equal(test.expectedKey, tc.LaceworkAccess.AccessKeyId)
		})
	}
}

func TestConfigurationLoaderIncomplete(t *testing.T) {
	assertion := assert.New(t)
	t.Setenv("LW_ACCOUNT", "")
	t.Setenv("LW_API_KEY", "")
	t.Setenv("LW_API_SECRET", "")

	_, err := ConfigurationLoader{}.Load(context.Background(), nil)
	var configErr *TypeConfigurationError
	if assertion.True(errors.As(err, &configErr)) {
		assertion.Equal(sourceEnvironment, configErr.Source)
	}
	assertion.Equal(ErrorCodeInvalidTypeConfiguration, ErrorCodeFor(err))
	assertion.NotContains(err.Error(), "_SECRET")
}
