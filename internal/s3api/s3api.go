package s3api

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Api interface {
	// get object
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type _S3SDKClient struct {
	s3Client *s3.Client
}

func NewS3SDKClient(client *s3.Client) S3Api {
	return &_S3SDKClient{
		s3Client: client,
	}
}

// get object
func (c *_S3SDKClient) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return c.s3Client.GetObject(ctx, params, optFns...)
}

// ReadObject fetches an object and returns its full content.
func ReadObject(ctx context.Context, api S3Api, bucket, key string) ([]byte, error) {
	output, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	// return errors
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()
	return io.ReadAll(output.Body)
}
