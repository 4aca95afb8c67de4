package config

import (
	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"HOST"`
		Port        int    `default:"8000" env:"PORT"`
		CompanyName string `default:"TalentFlow" env:"COMPANY_NAME"`
		HREmail     string `default:"hr@company.com" env:"HR_EMAIL"`

		// ErrNotifyURL receives a JSON event for every 5xx answer when set.
		ErrNotifyURL  string `default:"" env:"ERR_NOTIFY_URL"`
		BodyLimitMB   int64  `default:"2" env:"BODY_LIMIT_MB"`
		UploadLimitMB int    `default:"20" env:"UPLOAD_LIMIT_MB"`
	}
	Log struct {
		Level        string `default:"info" env:"LOG_LEVEL"`
		Format       string `default:"json" env:"LOG_FORMAT"` // json | text
		RequestLevel string `default:"debug" env:"LOG_REQUEST_LEVEL"`
		BodySize     int    `default:"2048" env:"LOG_BODY_SIZE"`
	}
	Database struct {
		Enabled        *bool  `default:"false" env:"DB_ENABLED"`
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hr-agent" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		MaxOpenConns   int    `default:"10" env:"DB_MAX_OPEN_CONNS"`
	}
	DocStore struct {
		Driver            string `default:"mongo" env:"DOCSTORE_DRIVER"` // mongo | memory
		URL               string `default:"mongodb://localhost:27017" env:"MONGODB_URL"`
		Name              string `default:"HR_AGENT" env:"DATABASE_NAME"`
		ConnectTimeoutSec int    `default:"10" env:"MONGODB_CONNECT_TIMEOUT"`
	}
	Smtp struct {
		User       string `default:"" env:"SENDER_EMAIL"`
		Password   string `default:"" env:"SENDER_APP_PASSWORD"`
		Host       string `default:"smtp.gmail.com" env:"SMTP_HOST"`
		Port       string `default:"465" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"hr-agent" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	}
	AI struct {
		Provider    string `default:"gemini" env:"AI_PROVIDER"` // gemini | openai | anthropic | yandexgpt | ollama
		PromptsFile string `default:"" env:"AI_PROMPTS_FILE"`
		Gemini      struct {
			APIKey string `default:"" env:"GEMINI_API_KEY"`
			Model  string `default:"gemini-2.0-flash" env:"GEMINI_MODEL"`
		}
		OpenAI struct {
			APIKey string `default:"" env:"OPENAI_API_KEY"`
			Model  string `default:"gpt-4o-mini" env:"OPENAI_MODEL"`
		}
		Anthropic struct {
			APIKey string `default:"" env:"ANTHROPIC_API_KEY"`
			Model  string `default:"claude-3-5-haiku-latest" env:"ANTHROPIC_MODEL"`
		}
		YandexGPT struct {
			IAMToken  string `default:"" env:"YANDEXGPT_IAM_TOKEN"`
			CatalogID string `default:"" env:"YANDEXGPT_CATALOG_ID"`
		}
		Ollama struct {
			OllamaURL   string `default:"http://localhost:11434/api/generate" env:"OLLAMA_URL"`
			OllamaModel string `default:"" env:"OLLAMA_MODEL"`
		}
	}
	Models struct {
		Dir string `default:"models" env:"MODEL_DIR"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"JWT_SECRET_KEY"`
	}
	Router struct {
		QuestionPrefixLen int `default:"20" env:"ROUTER_QUESTION_PREFIX_LEN"`
	}
	Workers struct {
		ReminderEnabled     *bool `default:"true" env:"REMINDER_WORKER_ENABLED"`
		ReminderIntervalMin int   `default:"30" env:"REMINDER_WORKER_INTERVAL_MIN"`
		ReminderHoursBefore int   `default:"24" env:"REMINDER_HOURS_BEFORE"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug(".env not loaded, using process environment")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
