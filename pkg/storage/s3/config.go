package s3

// Config holds S3-compatible storage configuration. DigitalOcean Spaces
// only needs Endpoint set; plain AWS S3 leaves it empty.
type Config struct {
	Endpoint        string `json:"endpoint"`          // Optional: Spaces/MinIO endpoint URL
	Region          string `json:"region"`            // Region (Spaces accepts any non-empty value)
	Bucket          string `json:"bucket"`            // Bucket name
	Prefix          string `json:"prefix"`            // Base key prefix for all operations
	AccessKeyID     string `json:"access_key_id"`     // Credentials
	SecretAccessKey string `json:"secret_access_key"`
	UseSSL          bool   `json:"use_ssl"`          // Default: true
	ForcePathStyle  bool   `json:"force_path_style"` // For MinIO/localstack
}
