package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/handlers"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/lacework"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/model"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/resource"
)

var version = "dev"

func usage(flags *flag.FlagSet) {
	message := `Usage: %s -type <type name> [options] <event file>

    Runs one handler invocation locally. The event file holds a provider
    request or a custom resource event, as yaml or json. Use - for STDIN.
    The type configuration falls back to LW_ACCOUNT, LW_SUBACCOUNT,
    LW_API_KEY and LW_API_SECRET.

Options:
`
	fmt.Fprintf(os.Stderr, message, os.Args[0])
	flags.PrintDefaults()
}

func main() {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags.Usage = func() { usage(flags) }
	typeName := flags.String("type", "", "resource type name, e.g. Lacework::Alerts::Channel")
	baseURL := flags.String("base-url", "", "lacework api host, defaults to https://<account>.lacework.net")
	_ = flags.Parse(os.Args[1:])

	if *typeName == "" || flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), *typeName, *baseURL, flags.Arg(0), os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, typeName, baseURL, path string, stdin io.Reader, stdout io.Writer) error {
	def, err := resource.Lookup(typeName)
	if err != nil {
		return err
	}

	content, err := readEvent(path, stdin)
	if err != nil {
		return err
	}
	payload, err := eventToJSON(content)
	if err != nil {
		return err
	}

	config := handlers.ResourceHandlerConfig{
		Definition: def,
		Version:    version,
	}
	if baseURL != "" {
		config.ClientFactory = func(tc model.TypeConfiguration, userAgent string) (lacework.Requester, error) {
			access := tc.LaceworkAccess
			return lacework.NewClient(lacework.Credentials{
				Account:     access.Account,
				SubAccount:  access.SubAccount,
				AccessKeyId: access.AccessKeyId,
				SecretKey:   access.SecretKey,
			}, lacework.WithBaseURL(baseURL), lacework.WithUserAgent(userAgent))
		}
	}

	handler, err := handlers.NewResourceHandler(config)
	if err != nil {
		return err
	}
	response, err := handler.Invoke(ctx, payload)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

func readEvent(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// eventToJSON accepts yaml or json and returns json.
func eventToJSON(content []byte) (json.RawMessage, error) {
	var event map[string]interface{}
	if err := yaml.Unmarshal(content, &event); err != nil {
		return nil, errors.Wrap(err, "failed to parse event")
	}
	if event == nil {
		return nil, errors.New("event is empty")
	}
	return json.Marshal(event)
}
