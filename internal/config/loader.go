package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the tool.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	HFToken      string `json:"hf_token" yaml:"hf_token" toml:"hf_token"`
	HubURL       string `json:"hub_url" yaml:"hub_url" toml:"hub_url"`
	RouterURL    string `json:"router_url" yaml:"router_url" toml:"router_url"`
	Provider     string `json:"provider" yaml:"provider" toml:"provider"`
	ModelText    string `json:"model_text" yaml:"model_text" toml:"model_text"`
	ModelChat    string `json:"model_chat" yaml:"model_chat" toml:"model_chat"`
	ModelImage   string `json:"model_image" yaml:"model_image" toml:"model_image"`
	HTTPRetryMax int    `json:"http_retry_max" yaml:"http_retry_max" toml:"http_retry_max"`
	HTTPTimeoutS int    `json:"http_timeout_seconds" yaml:"http_timeout_seconds" toml:"http_timeout_seconds"`

	BestModelsPath string `json:"best_models_path" yaml:"best_models_path" toml:"best_models_path"`
	RegistryPath   string `json:"registry_path" yaml:"registry_path" toml:"registry_path"`
	MinLikes       int    `json:"min_likes" yaml:"min_likes" toml:"min_likes"`

	ProjectsDir       string `json:"projects_dir" yaml:"projects_dir" toml:"projects_dir"`
	TemplatesDir      string `json:"templates_dir" yaml:"templates_dir" toml:"templates_dir"`
	BackendPortStart  int    `json:"backend_port_start" yaml:"backend_port_start" toml:"backend_port_start"`
	BackendPortEnd    int    `json:"backend_port_end" yaml:"backend_port_end" toml:"backend_port_end"`
	FrontendPortStart int    `json:"frontend_port_start" yaml:"frontend_port_start" toml:"frontend_port_start"`
	FrontendPortEnd   int    `json:"frontend_port_end" yaml:"frontend_port_end" toml:"frontend_port_end"`
	DatabaseURL       string `json:"database_url" yaml:"database_url" toml:"database_url"`

	APIHost      string   `json:"api_host" yaml:"api_host" toml:"api_host"`
	APIPortStart int      `json:"api_port_start" yaml:"api_port_start" toml:"api_port_start"`
	APIPortEnd   int      `json:"api_port_end" yaml:"api_port_end" toml:"api_port_end"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Defaults returns a Config with every field set to its default.
func Defaults() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	setStr(&c.HubURL, "https://huggingface.co")
	setStr(&c.RouterURL, "https://router.huggingface.co")
	setInt(&c.HTTPRetryMax, 3)
	setInt(&c.HTTPTimeoutS, 120)
	setStr(&c.BestModelsPath, "best_models.json")
	setInt(&c.MinLikes, 100)
	setStr(&c.ProjectsDir, "projects")
	setStr(&c.TemplatesDir, "templates")
	setInt(&c.BackendPortStart, 3001)
	setInt(&c.BackendPortEnd, 3999)
	setInt(&c.FrontendPortStart, 3000)
	setInt(&c.FrontendPortEnd, 3999)
	setStr(&c.APIHost, "127.0.0.1")
	setInt(&c.APIPortStart, 8080)
	setInt(&c.APIPortEnd, 8099)
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	setStr(&c.LogLevel, "info")
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables on top of cfg. Unset variables leave
// the existing value alone.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := firstNonEmpty(getenv("HF_TOKEN"), getenv("HUGGINGFACEHUB_API_TOKEN")); v != "" {
		c.HFToken = v
	}
	envStr(getenv, "HF_HUB_URL", &c.HubURL)
	envStr(getenv, "HF_ROUTER_URL", &c.RouterURL)
	envStr(getenv, "HF_PROVIDER", &c.Provider)
	envStr(getenv, "HF_MODEL", &c.ModelText)
	envStr(getenv, "HF_MODEL_CHAT", &c.ModelChat)
	envStr(getenv, "HF_MODEL_IMAGE", &c.ModelImage)
	envStr(getenv, "DATABASE_URL", &c.DatabaseURL)
	envStr(getenv, "AUTODEVSTACK_PROJECTS_DIR", &c.ProjectsDir)
	envStr(getenv, "AUTODEVSTACK_TEMPLATES_DIR", &c.TemplatesDir)
	envStr(getenv, "AUTODEVSTACK_BEST_MODELS", &c.BestModelsPath)
	envStr(getenv, "AUTODEVSTACK_REGISTRY", &c.RegistryPath)
	envStr(getenv, "AUTODEVSTACK_LOG_LEVEL", &c.LogLevel)
	envInt(getenv, "AUTODEVSTACK_MIN_LIKES", &c.MinLikes)
	envInt(getenv, "AUTODEVSTACK_API_PORT_START", &c.APIPortStart)
	envInt(getenv, "AUTODEVSTACK_API_PORT_END", &c.APIPortEnd)
	if v := getenv("AUTODEVSTACK_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = SplitCSV(v)
	}
}

// Resolve builds the effective configuration: defaults, then the optional
// file at path, then the environment (after loading .env).
func Resolve(path string) (Config, error) {
	var cfg Config
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	if err := LoadDotEnv(".env"); err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyDefaults()
	return cfg, nil
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setStr(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}

func envStr(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func envInt(getenv func(string) string, key string, dst *int) {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
