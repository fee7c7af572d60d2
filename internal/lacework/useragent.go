package lacework

const userAgentProduct = "AWS CloudFormation (+https://aws.amazon.com/cloudformation/) CloudFormation resource"

// BuildUserAgent identifies the resource type and provider version making the call.
func BuildUserAgent(typeName, version string) string {
	return userAgentProduct + " " + typeName + "/" + version
}
