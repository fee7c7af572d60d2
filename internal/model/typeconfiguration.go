package model

import (
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
)

// LaceworkAccess holds the api key used to reach a Lacework account.
type LaceworkAccess struct {
	Account     string `mapstructure:"Account" json:"Account"`
	SubAccount  string `mapstructure:"SubAccount" json:"SubAccount,omitempty"`
	AccessKeyId string `mapstructure:"AccessKeyId" json:"AccessKeyId"`
	SecretKey   string `mapstructure:"SecretKey" json:"SecretKey"`
}

// TypeConfiguration is supplied by the host with every invocation and is
// read only to the handlers.
type TypeConfiguration struct {
	LaceworkAccess LaceworkAccess `mapstructure:"LaceworkAccess" json:"LaceworkAccess"`
}

// DecodeTypeConfiguration decodes the host supplied map. Key matching is case
// insensitive, so camelCase input decodes as well.
func DecodeTypeConfiguration(input map[string]interface{}) (TypeConfiguration, error) {
	var tc TypeConfiguration
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &tc,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return tc, err
	}
	if err := decoder.Decode(input); err != nil {
		return tc, errors.Wrap(err, "failed to decode type configuration")
	}
	tc.LaceworkAccess.Account = shared.NormalizeAccountName(tc.LaceworkAccess.Account)
	return tc, nil
}

// TypeConfigurationFromEnv reads the LW_* fallback variables.
func TypeConfigurationFromEnv() TypeConfiguration {
	return TypeConfiguration{
		LaceworkAccess: LaceworkAccess{
			Account:     shared.NormalizeAccountName(os.Getenv(shared.EnvLaceworkAccount)),
			SubAccount:  os.Getenv(shared.EnvLaceworkSubAccount),
			AccessKeyId: os.Getenv(shared.EnvLaceworkApiKey),
			SecretKey:   os.Getenv(shared.EnvLaceworkApiSecret),
		},
	}
}

// IsEmpty reports whether nothing at all was configured.
func (tc TypeConfiguration) IsEmpty() bool {
	return tc.LaceworkAccess == LaceworkAccess{}
}

// Validate checks that the fields needed to authenticate are present and
// reports all missing ones together.
func (tc TypeConfiguration) Validate() error {
	access := tc.LaceworkAccess
	err := shared.RequireFields(map[string]interface{}{
		"LaceworkAccess.Account":     access.Account,
		"LaceworkAccess.AccessKeyId": access.AccessKeyId,
		"LaceworkAccess.SecretKey":   access.SecretKey,
	}, "LaceworkAccess.Account", "LaceworkAccess.AccessKeyId", "LaceworkAccess.SecretKey")
	return err
}

// String never prints the secret.
func (a LaceworkAccess) String() string {
	return "LaceworkAccess{Account: " + a.Account + ", SubAccount: " + a.SubAccount + ", AccessKeyId: " + a.AccessKeyId + "}"
}
