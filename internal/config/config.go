package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	Assets struct {
		// Backend selects the asset store: "local" (default) or "s3".
		Backend string
		// LocalDir is the directory for the local backend.
		LocalDir string
		// BaseURL is the public URL prefix under which stored assets are served.
		BaseURL string
		S3      struct {
			Endpoint  string
			Bucket    string
			AccessKey string
			SecretKey string
			UseSSL    bool
		}
	}
	// AllowAnonymousPets permits unauthenticated pet creation. Records created
	// this way have no owner and can never be updated or deleted.
	AllowAnonymousPets bool
	SessionLifetime    time.Duration
	InsecureCookies    bool
}

// Load reads config from environment (PAWMART_ prefix) and optional pawmart.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAWMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("pawmart")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.lifetime", "168h")
	v.SetDefault("assets.backend", "local")
	v.SetDefault("assets.local_dir", "./uploads")
	v.SetDefault("assets.base_url", "/uploads")
	v.SetDefault("allow_anonymous_pets", false)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.Assets.Backend = v.GetString("assets.backend")
	cfg.Assets.LocalDir = v.GetString("assets.local_dir")
	cfg.Assets.BaseURL = v.GetString("assets.base_url")
	cfg.Assets.S3.Endpoint = v.GetString("assets.s3.endpoint")
	cfg.Assets.S3.Bucket = v.GetString("assets.s3.bucket")
	cfg.Assets.S3.AccessKey = v.GetString("assets.s3.access_key")
	cfg.Assets.S3.SecretKey = v.GetString("assets.s3.secret_key")
	cfg.Assets.S3.UseSSL = v.GetBool("assets.s3.use_ssl")
	cfg.AllowAnonymousPets = v.GetBool("allow_anonymous_pets")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAWMART_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("PAWMART_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("PAWMART_DB_DSN is required")
	}
	if cfg.OIDC.Issuer == "" {
		return nil, fmt.Errorf("PAWMART_OIDC_ISSUER is required")
	}
	if cfg.OIDC.ClientID == "" {
		return nil, fmt.Errorf("PAWMART_OIDC_CLIENT_ID is required")
	}
	if cfg.OIDC.ClientSecret == "" {
		return nil, fmt.Errorf("PAWMART_OIDC_CLIENT_SECRET is required")
	}
	if cfg.OIDC.RedirectURL == "" {
		return nil, fmt.Errorf("PAWMART_OIDC_REDIRECT_URL is required")
	}
	switch cfg.Assets.Backend {
	case "local":
	case "s3":
		if cfg.Assets.S3.Endpoint == "" || cfg.Assets.S3.Bucket == "" {
			return nil, fmt.Errorf("PAWMART_ASSETS_S3_ENDPOINT and PAWMART_ASSETS_S3_BUCKET are required for the s3 backend")
		}
	default:
		return nil, fmt.Errorf("unsupported assets backend %q: must be local or s3", cfg.Assets.Backend)
	}

	return cfg, nil
}
