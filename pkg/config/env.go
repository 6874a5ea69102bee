package config

import "os"

// Environment variable names recognized by ApplyEnv. Resolution is
// something the caller does explicitly, once; the reader itself never
// consults the environment.
const (
	EnvBucket      = "DO_SPACES_BUCKET"
	EnvPrefix      = "DO_SPACES_PREFIX"
	EnvRegion      = "DO_SPACES_REGION"
	EnvEndpointURL = "DO_SPACES_ENDPOINT_URL"
	EnvKeyID       = "DO_SPACES_KEY_ID"
	EnvSecretKey   = "DO_SPACES_SECRET_KEY"
)

// ApplyEnv fills empty ReaderConfig fields from the DO_SPACES_*
// environment variables. File values win over environment values.
func ApplyEnv(cfg *ReaderConfig) {
	setIfEmpty(&cfg.Bucket, EnvBucket)
	setIfEmpty(&cfg.Prefix, EnvPrefix)
	setIfEmpty(&cfg.Region, EnvRegion)
	setIfEmpty(&cfg.EndpointURL, EnvEndpointURL)
	setIfEmpty(&cfg.AccessKeyID, EnvKeyID)
	setIfEmpty(&cfg.SecretAccessKey, EnvSecretKey)
}

func setIfEmpty(field *string, envName string) {
	if *field == "" {
		*field = os.Getenv(envName)
	}
}
