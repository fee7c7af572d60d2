package handlers

import (
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/resource"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/sdkapimgr"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
)

// NewHandlerFromEnvironment builds the handler a lambda function runs. When
// CONFIG_FILE_BUCKET_NAME and CONFIG_FILE_KEY are set the type configuration
// object is read from s3, through CONFIG_ROLE_ARN when that is set too.
func NewHandlerFromEnvironment(cfg aws.Config, def resource.Definition, version string) (Handler, error) {
	configBucketName := os.Getenv(shared.EnvBucketName)
	log.Printf("config bucket name : [%s]\n", configBucketName)
	configFileObjectKey := os.Getenv(shared.EnvConfigFileKey)
	log.Printf("config file object key : [%s]\n", configFileObjectKey)

	config := ResourceHandlerConfig{
		Definition: def,
		Version:    version,
	}

	if configBucketName != "" && configFileObjectKey != "" {
		awscm, err := sdkapimgr.InitAwsClientMgr(sdkapimgr.SDKApiMgrConfig{
			Cfg:           cfg,
			ConfigRoleArn: os.Getenv(shared.EnvConfigRoleArn),
		})
		// return errors
		if err != nil {
			return nil, err
		}
		s3Client, err := sdkapimgr.S3(awscm)
		if err != nil {
			return nil, err
		}
		config.S3Api = s3Client
		config.ConfigBucket = configBucketName
		config.ConfigKey = configFileObjectKey
	}

	return NewResourceHandler(config)
}
