package sdkapimgr

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/s3api"
)

type SdkApiMgr interface {
	GetApi(serviceName string) (interface{}, bool)
	SetApi(serviceName string, client interface{}) error
}

type awsApiMgr struct {
	apiMap map[string]interface{}
}

type SDKApiMgrConfig struct {
	Cfg           aws.Config
	ConfigRoleArn string // optional role to assume for reading the configuration bucket
}

const (
	S3Service string = "s3" // simple storage service (s3)
)

// initialize instance of aws client mgr
func InitAwsClientMgr(config SDKApiMgrConfig) (SdkApiMgr, error) {

	// check if credentials are nil
	if config.Cfg.Credentials == nil {
		return nil, errors.New("valid config credentials provider required")
	}

	awscm := NewAwsApiMgr()

	cfgCopy := config.Cfg.Copy() // create copy of aws config

	// read the configuration bucket through an assumed role when one is given
	if config.ConfigRoleArn != "" {
		stsClient := sts.NewFromConfig(cfgCopy)
		cfgCopy.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(stsClient, config.ConfigRoleArn))
	}

	s3Api := s3api.NewS3SDKClient(s3.NewFromConfig(cfgCopy)) // create s3 api
	if err := awscm.SetApi(S3Service, s3Api); err != nil {
		return nil, err
	}

	return awscm, nil
}

func NewAwsApiMgr() SdkApiMgr {
	return &awsApiMgr{
		apiMap: make(map[string]interface{}),
	}
}

// get sdk client
func (awscm *awsApiMgr) GetApi(serviceName string) (interface{}, bool) {
	if serviceName == "" {
		return nil, false
	}
	client, ok := awscm.apiMap[serviceName]
	return client, ok
}

// set sdk client
func (awscm *awsApiMgr) SetApi(serviceName string, client interface{}) error {
	if serviceName == "" || client == nil {
		return errors.New("required field(s) cannot be empty")
	}

	switch serviceName {
	case S3Service:
		if _, ok := client.(s3api.S3Api); !ok {
			return errors.New("invalid s3 client")
		}
	default:
		return errors.New("invalid service name")
	}

	awscm.apiMap[serviceName] = client
	return nil
}

// S3 returns the registered s3 api.
func S3(mgr SdkApiMgr) (s3api.S3Api, error) {
	client, ok := mgr.GetApi(S3Service)
	if !ok {
		return nil, errors.New("error retrieving s3 client from sdk client manager interface")
	}
	s3Client, ok := client.(s3api.S3Api)
	if !ok {
		return nil, errors.New("error type assertion for s3 client")
	}
	return s3Client, nil
}
