package openapifx

type Config struct {
	Enabled bool
	// Host shown in the generated document, e.g. api.example.com
	PublicHost string
	// Base path shown in the generated document
	PublicPath string
}
