package shared

const (
	AlertChannelTypeName string = "Lacework::Alerts::Channel"
	AlertProfileTypeName string = "Lacework::Alerts::Profile"
	CloudAccountTypeName string = "Lacework::Integration::CloudAccount"

	// variables for retrieving the type configuration from s3
	EnvBucketName    string = "CONFIG_FILE_BUCKET_NAME"
	EnvConfigFileKey string = "CONFIG_FILE_KEY"
	EnvConfigRoleArn string = "CONFIG_ROLE_ARN"

	// fallback variables for lacework api access
	EnvLaceworkAccount    string = "LW_ACCOUNT"
	EnvLaceworkSubAccount string = "LW_SUBACCOUNT"
	EnvLaceworkApiKey     string = "LW_API_KEY"
	EnvLaceworkApiSecret  string = "LW_API_SECRET"

	LaceworkDomain string = "lacework.net"
)

// Key addresses an entry in a key value store.
type Key struct {
	PrimaryKey string `json:"primaryKey"`
	SortKey    string `json:"sortKey"`
}

func (k *Key) ToString() string {
	return k.PrimaryKey + "||" + k.SortKey
}
