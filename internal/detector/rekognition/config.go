package rekognition

// Config holds configuration for the AWS Rekognition detector
type Config struct {
	// Region is the AWS region where Rekognition will be called (e.g., "us-east-1")
	Region string

	// MaxImageBytes caps the frame size sent to the API. Zero means
	// the Rekognition service limit (5MB).
	MaxImageBytes int
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region:        "us-east-1",
		MaxImageBytes: maxImageSize,
	}
}
