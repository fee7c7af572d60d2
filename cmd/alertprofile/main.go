package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/handlers"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/resource"
)

// set at build time with -ldflags "-X main.version=..."
var version = "dev"

func handler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithRetryMaxAttempts(3))
	// return errors
	if err != nil {
		return nil, errors.New("failed to load aws config : " + err.Error())
	}

	alertProfileHandler, err := handlers.NewHandlerFromEnvironment(cfg, resource.AlertProfile(), version)
	if err != nil {
		log.Printf("error : [%v]\n", err.Error())
		return nil, err
	}

	response, err := alertProfileHandler.Invoke(ctx, payload)
	if err != nil {
		log.Printf("error : [%v]\n", err.Error())
	}
	return response, err
}

func main() {
	log.Printf("alert profile handler version : [%s]\n", version)
	lambda.Start(handler)
}
