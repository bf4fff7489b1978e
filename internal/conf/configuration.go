package conf

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultMinPasswordLength int = 6

// APIConfiguration holds all the API related configuration.
type APIConfiguration struct {
	Host            string
	Port            string `envconfig:"PORT" default:"8081"`
	RequestIDHeader string `envconfig:"REQUEST_ID_HEADER"`
	ExternalURL     string `json:"external_url" envconfig:"API_EXTERNAL_URL"`
}

func (c *APIConfiguration) Validate() error {
	return nil
}

// DBConfiguration holds all the database related configuration.
type DBConfiguration struct {
	Driver    string `json:"driver" required:"true"`
	URL       string `json:"url" envconfig:"DATABASE_URL" required:"true"`
	Namespace string `json:"namespace" envconfig:"DB_NAMESPACE" default:"lodge"`
	// MaxPoolSize defaults to 0 (unlimited).
	MaxPoolSize       int           `json:"max_pool_size" split_words:"true"`
	MaxIdlePoolSize   int           `json:"max_idle_pool_size" split_words:"true"`
	ConnMaxLifetime   time.Duration `json:"conn_max_lifetime,omitempty" split_words:"true"`
	ConnMaxIdleTime   time.Duration `json:"conn_max_idle_time,omitempty" split_words:"true"`
	HealthCheckPeriod time.Duration `json:"health_check_period" split_words:"true"`
	MigrationsPath    string        `json:"migrations_path" split_words:"true" default:"./migrations"`
}

func (c *DBConfiguration) Validate() error {
	return nil
}

// JWTConfiguration holds all the JWT related configuration.
type JWTConfiguration struct {
	Secret         string   `json:"secret" required:"true"`
	Exp            int      `json:"exp" default:"86400"`
	Aud            string   `json:"aud" default:"lodge"`
	Issuer         string   `json:"issuer" default:"lodge"`
	AdminGroupName string   `json:"admin_group_name" split_words:"true" default:"Administrators"`
	ValidMethods   []string `json:"-"`
}

// SMTPConfiguration holds all the SMTP related configuration.
type SMTPConfiguration struct {
	Host       string `json:"host"`
	Port       int    `json:"port,omitempty" default:"587"`
	User       string `json:"user"`
	Pass       string `json:"pass,omitempty"`
	AdminEmail string `json:"admin_email" split_words:"true"`
	SenderName string `json:"sender_name" split_words:"true"`
}

func (c *SMTPConfiguration) Validate() error {
	return nil
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level  string                 `json:"log_level"`
	File   string                 `json:"log_file"`
	SQL    string                 `json:"log_sql"`
	Fields map[string]interface{} `json:"fields"`
}

// RateLimitConfiguration caps how often the unauthenticated submission
// endpoints (contact records, information cards, token grants) may be hit,
// expressed in requests per hour.
type RateLimitConfiguration struct {
	Header      string  `split_words:"true"`
	Submissions float64 `split_words:"true" default:"30"`
	TokenGrants float64 `split_words:"true" default:"30"`
}

// ChapterConfiguration holds chapter-specific knobs that the original site
// kept scattered through its settings module.
type ChapterConfiguration struct {
	// RegistrationKey gates self-registration; AdminKey gates the
	// "make me an administrator" checkbox. Both are SHA-224 digests.
	RegistrationKey      string `json:"registration_key" split_words:"true"`
	AdminKey             string `json:"admin_key" split_words:"true"`
	MinPasswordLength    int    `json:"min_password_length" split_words:"true"`
	MaxLoginAttempts     int    `json:"max_login_attempts" split_words:"true" default:"3"`
	PostsPerPage         int    `json:"posts_per_page" split_words:"true" default:"20"`
	AnnouncementsPerPage int    `json:"announcements_per_page" split_words:"true" default:"15"`
	MessengerEmail       string `json:"messenger_email" split_words:"true"`
}

// GlobalConfiguration holds all the configuration that applies to all instances.
type GlobalConfiguration struct {
	API       APIConfiguration
	DB        DBConfiguration
	Logging   LoggingConfig `envconfig:"LOG"`
	JWT       JWTConfiguration
	SMTP      SMTPConfiguration `json:"smtp"`
	RateLimit RateLimitConfiguration
	Chapter   ChapterConfiguration
	SiteURL   string `json:"site_url" split_words:"true" required:"true"`
}

func loadEnvironment(filename string) error {
	var err error
	if filename != "" {
		err = godotenv.Overload(filename)
	} else {
		err = godotenv.Load()
		// handle if .env file does not exist, this is OK
		if os.IsNotExist(err) {
			return nil
		}
	}
	return err
}

// LoadGlobal loads configuration from file and environment variables.
func LoadGlobal(filename string) (*GlobalConfiguration, error) {
	if err := loadEnvironment(filename); err != nil {
		return nil, err
	}

	config := new(GlobalConfiguration)
	if err := envconfig.Process("lodge", config); err != nil {
		return nil, err
	}

	if err := config.ApplyDefaults(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyDefaults sets defaults for a GlobalConfiguration
func (config *GlobalConfiguration) ApplyDefaults() error {
	if config.JWT.AdminGroupName == "" {
		config.JWT.AdminGroupName = "Administrators"
	}

	if len(config.JWT.ValidMethods) == 0 {
		config.JWT.ValidMethods = []string{"HS256"}
	}

	if config.Chapter.MinPasswordLength < defaultMinPasswordLength {
		config.Chapter.MinPasswordLength = defaultMinPasswordLength
	}

	if config.Chapter.MaxLoginAttempts < 1 {
		config.Chapter.MaxLoginAttempts = 3
	}

	return nil
}

// Validate validates all of configuration.
func (c *GlobalConfiguration) Validate() error {
	if c.SiteURL == "" {
		return errors.New("conf: site url not configured")
	}

	validatables := []interface {
		Validate() error
	}{
		&c.API,
		&c.DB,
		&c.SMTP,
	}

	for _, validatable := range validatables {
		if err := validatable.Validate(); err != nil {
			return err
		}
	}

	return nil
}
