package config

import (
	"fmt"
	"os"

	"github.com/hugofmello/startup-pitch/model"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Minio      MinioConfig      `yaml:"minio"`
	Dynamo     DynamoConfig     `yaml:"dynamo"`
	Redis      RedisConfig      `yaml:"redis"`
	Extraction ExtractionConfig `yaml:"extraction"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

type DynamoConfig struct {
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"` // optional, for local DynamoDB
	TasksTable    string `yaml:"tasks_table"`
	StartupsTable string `yaml:"startups_table"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ExtractionConfig configures the external document-extraction API and the
// deployment id used for each extraction profile.
type ExtractionConfig struct {
	APIURL          string `yaml:"api_url"`
	APIKey          string `yaml:"api_key"`
	PDFDeployment   string `yaml:"pdf_deployment"`
	TXTDeployment   string `yaml:"txt_deployment"`
	ExcelDeployment string `yaml:"excel_deployment"`
}

// DeploymentID resolves the deployment id for an extraction profile.
func (c *ExtractionConfig) DeploymentID(p model.Profile) (string, error) {
	switch p {
	case model.ProfilePDF:
		return c.PDFDeployment, nil
	case model.ProfileTXT:
		return c.TXTDeployment, nil
	case model.ProfileSpreadsheet:
		return c.ExcelDeployment, nil
	default:
		return "", fmt.Errorf("no deployment configured for profile %q", p)
	}
}

// Load reads the YAML config file, applies defaults and environment
// overrides, and returns the assembled configuration. Secrets are taken from
// the environment when present so they can stay out of the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Minio.ExpireDays == 0 {
		cfg.Minio.ExpireDays = 7
	}
	if cfg.Dynamo.Region == "" {
		cfg.Dynamo.Region = "us-east-1"
	}
	if cfg.Dynamo.TasksTable == "" {
		cfg.Dynamo.TasksTable = "tasks"
	}
	if cfg.Dynamo.StartupsTable == "" {
		cfg.Dynamo.StartupsTable = "startups"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}

	// Environment overrides
	applyEnv(&cfg.Extraction.APIKey, "EXTRACTION_API_KEY")
	applyEnv(&cfg.Extraction.APIURL, "EXTRACTION_API_URL")
	applyEnv(&cfg.Minio.AccessKey, "MINIO_ACCESS_KEY")
	applyEnv(&cfg.Minio.SecretKey, "MINIO_SECRET_KEY")
	applyEnv(&cfg.Redis.Addr, "REDIS_ADDR")
	applyEnv(&cfg.Redis.Password, "REDIS_PASSWORD")
	applyEnv(&cfg.Dynamo.Endpoint, "DYNAMO_ENDPOINT")

	if cfg.Extraction.APIURL == "" {
		return nil, fmt.Errorf("extraction.api_url is required")
	}

	return &cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
