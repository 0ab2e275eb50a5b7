package gateway

import "time"

// defaultMaxAudioBytes caps uploaded recordings at 25MB, matching the
// transcription provider's own upload limit.
const defaultMaxAudioBytes = 25 << 20

// Config holds HTTP gateway configuration.
type Config struct {
	Bind            string        `yaml:"bind"`
	Auth            AuthConfig    `yaml:"auth"`
	CORS            CORSConfig    `yaml:"cors"`
	MaxAudioBytes   int64         `yaml:"max_audio_bytes"`
	AudioTypes      []string      `yaml:"audio_types"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// defaults fills zero values with sensible defaults.
func (c *Config) defaults() {
	if c.Bind == "" {
		c.Bind = "127.0.0.1:8080"
	}
	if c.MaxAudioBytes <= 0 {
		c.MaxAudioBytes = defaultMaxAudioBytes
	}
	if len(c.AudioTypes) == 0 {
		c.AudioTypes = []string{
			"audio/mp3", "audio/mpeg", "audio/wav",
			"audio/webm", "audio/ogg", "audio/m4a",
		}
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout <= 0 {
		// Three provider round trips can run inside one request.
		c.WriteTimeout = 3 * time.Minute
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// AuthConfig configures the shared app token. An empty token disables
// authentication.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// IsConfigured returns true if a token is set.
func (a AuthConfig) IsConfigured() bool {
	return a.Token != ""
}

// CORSConfig configures cross-origin access for the browser client.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}
