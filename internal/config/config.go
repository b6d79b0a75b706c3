package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		CORSOrigins  []string
	}
	Log struct {
		Level string
	}
	Database struct {
		// Driver is "postgres" or "sqlite".
		Driver   string
		URL      string
		Path     string
		MaxConns int32
	}
	Upload struct {
		Dir          string
		MaxBytes     int64
		PublicPrefix string
	}
	Storage struct {
		// Backend is "disk" or "s3".
		Backend   string
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Mail struct {
		SendGridKey string
		From        string
		To          string
	}
	Redis struct {
		Addr     string
		Password string
	}
	RateLimit struct {
		Requests int
		Window   time.Duration
	}
	Auth struct {
		JWTSecret       string
		TokenTTLMinutes int
		AdminUsername   string
		AdminPassword   string
	}
	Janitor struct {
		Schedule string
		Grace    time.Duration
	}
}

// Load reads configuration from environment variables (DEVFOLIO_ prefix, a
// .env file included) and an optional config file in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load() // optional .env, never overrides the real environment

	v := viper.New()
	v.SetEnvPrefix("DEVFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.readtimeout", 30*time.Second)
	v.SetDefault("server.writetimeout", 5*time.Minute)
	v.SetDefault("server.corsorigins", []string{})
	v.SetDefault("log.level", "info")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "")
	v.SetDefault("database.path", "data/devfolio.db")
	v.SetDefault("database.maxconns", 10)

	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.maxbytes", 50<<20)
	v.SetDefault("upload.publicprefix", "/uploads")

	v.SetDefault("storage.backend", "disk")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "devfolio-uploads")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetDefault("mail.sendgridkey", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.to", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("ratelimit.requests", 5)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlminutes", 24*60)
	v.SetDefault("auth.adminusername", "")
	v.SetDefault("auth.adminpassword", "")

	v.SetDefault("janitor.schedule", "@hourly")
	v.SetDefault("janitor.grace", 24*time.Hour)
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "postgres":
		if strings.TrimSpace(c.Database.URL) == "" {
			errs = append(errs, errors.New("database.url is required for the postgres driver"))
		}
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			errs = append(errs, errors.New("database.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	switch c.Storage.Backend {
	case "disk":
		if strings.TrimSpace(c.Upload.Dir) == "" {
			errs = append(errs, errors.New("upload.dir is required for the disk backend"))
		}
	case "s3":
		if strings.TrimSpace(c.Storage.Bucket) == "" {
			errs = append(errs, errors.New("storage.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}

	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.maxbytes must be positive"))
	}
	if !strings.HasPrefix(c.Upload.PublicPrefix, "/") {
		errs = append(errs, errors.New("upload.publicprefix must start with /"))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("ratelimit.requests and ratelimit.window must be positive"))
	}
	if c.Mail.SendGridKey != "" && (c.Mail.From == "" || c.Mail.To == "") {
		errs = append(errs, errors.New("mail.from and mail.to are required with mail.sendgridkey"))
	}
	if c.Auth.AdminUsername != "" && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwtsecret is required when an admin user is configured"))
	}
	return errors.Join(errs...)
}

// TokenTTL is Auth.TokenTTLMinutes as a duration.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}
