package initializers

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/Kariqs/storefront-api/utils"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type AppConfig struct {
	Env          string        `envconfig:"APP_ENV" default:"development"`
	Port         string        `envconfig:"PORT" default:"8080"`
	DBDriver     string        `envconfig:"DB_DRIVER" default:"mysql"`
	DBDSN        string        `envconfig:"DB_DSN"`
	JWTSecret    string        `envconfig:"JWT_SECRET"`
	JWTExpiresIn time.Duration `envconfig:"JWT_EXPIRES_IN" default:"144h"`
	CORSOrigins  []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string        `envconfig:"LOG_FORMAT" default:"json"`

	UploadProvider      string `envconfig:"UPLOAD_PROVIDER" default:"s3"`
	S3Bucket            string `envconfig:"S3_BUCKET"`
	S3PublicRead        bool   `envconfig:"S3_PUBLIC_READ" default:"true"`
	CloudinaryCloudName string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `envconfig:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `envconfig:"CLOUDINARY_API_SECRET"`

	SMTPAddress       string `envconfig:"SMTP_ADDRESS"`
	SMTPHost          string `envconfig:"SMTP_HOST"`
	FromEmail         string `envconfig:"FROM_EMAIL"`
	FromEmailPassword string `envconfig:"FROM_EMAIL_PASSWORD"`
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

func (c AppConfig) Mail() utils.MailConfig {
	return utils.MailConfig{
		Address:  c.SMTPAddress,
		Host:     c.SMTPHost,
		From:     c.FromEmail,
		Password: c.FromEmailPassword,
	}
}

var Config AppConfig

// LoadEnv reads .env when present and fills Config from the environment.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return err
	}
	Config = cfg
	return nil
}
