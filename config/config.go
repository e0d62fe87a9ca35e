package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	IngestModeSimulated = "simulated"
	IngestModeLocal     = "local"
	IngestModeRemote    = "remote"

	StoreDriverMySQL    = "mysql"
	StoreDriverJSONFile = "jsonfile"
)

// Cfg 全局配置实例，由 Init 填充
var Cfg *Config

// Duration 支持 "600ms"、"5s" 形式的时长配置
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Model  ModelConfig  `yaml:"model"`
	Milvus MilvusConfig `yaml:"milvus"`
	Ingest IngestConfig `yaml:"ingest"`
	MQ     MQConfig     `yaml:"mq"`
	OSS    OSSConfig    `yaml:"oss"`
	JWT    JWTConfig    `yaml:"jwt"`
	CORS   CORSConfig   `yaml:"cors"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// StoreConfig 记录存储配置
// mysql 为生产驱动；jsonfile 为离线演示驱动，按集合持久化为单个JSON数组文件
type StoreConfig struct {
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
	DataDir string `yaml:"data_dir"`
}

type ModelConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

type MilvusConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// IngestConfig 摄取执行配置
// mode: simulated | local | remote
type IngestConfig struct {
	Mode         string   `yaml:"mode"`
	RemoteBase   string   `yaml:"remote_base"`
	PollInterval Duration `yaml:"poll_interval"`

	// 模拟执行器的延迟与结果数范围
	SimMinLatency Duration `yaml:"sim_min_latency"`
	SimMaxLatency Duration `yaml:"sim_max_latency"`
	SimMinCount   int      `yaml:"sim_min_count"`
	SimMaxCount   int      `yaml:"sim_max_count"`
}

type MQConfig struct {
	Enabled    bool     `yaml:"enabled"`
	NameServer []string `yaml:"name_server"`
}

// OSSConfig 对象存储配置，未启用时使用本地目录驱动
type OSSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket_name"`
	AccessKeyID     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
	LocalDir        string `yaml:"local_dir"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// Init 加载配置文件并应用环境变量覆盖，校验失败立即返回错误
func Init(path string) error {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	Cfg = cfg
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8000",
		},
		Log: LogConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Driver:  StoreDriverJSONFile,
			DataDir: "data",
		},
		Model: ModelConfig{
			ChatModel:      "gpt-4.1-mini",
			EmbeddingModel: "text-embedding-3-small",
		},
		Milvus: MilvusConfig{
			Collection: "rag_chunks",
		},
		Ingest: IngestConfig{
			Mode:          IngestModeSimulated,
			PollInterval:  Duration(5 * time.Second),
			SimMinLatency: Duration(600 * time.Millisecond),
			SimMaxLatency: Duration(1400 * time.Millisecond),
			SimMinCount:   5,
			SimMaxCount:   25,
		},
		OSS: OSSConfig{
			LocalDir: "data/objects",
		},
	}
}

// 密钥类配置优先从环境变量读取，避免写入配置文件
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.Model.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("MILVUS_API_KEY")); v != "" {
		cfg.Milvus.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("MYSQL_DSN")); v != "" {
		cfg.Store.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWT.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OSS_ACCESS_KEY_ID")); v != "" {
		cfg.OSS.AccessKeyID = v
	}
	if v := strings.TrimSpace(os.Getenv("OSS_ACCESS_KEY_SECRET")); v != "" {
		cfg.OSS.AccessKeySecret = v
	}
}

// Validate 按启用的功能逐项校验，缺失时报出具体的配置键
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is missing (set JWT_SECRET)")
	}

	switch c.Store.Driver {
	case StoreDriverMySQL:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is missing (set MYSQL_DSN)")
		}
	case StoreDriverJSONFile:
		if c.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir is missing")
		}
	default:
		return fmt.Errorf("unknown store.driver: %s", c.Store.Driver)
	}

	switch c.Ingest.Mode {
	case IngestModeSimulated:
	case IngestModeLocal:
		if c.Model.APIKey == "" {
			return fmt.Errorf("model.api_key is missing (set OPENAI_API_KEY)")
		}
		if c.Milvus.Endpoint == "" {
			return fmt.Errorf("milvus.endpoint is missing")
		}
	case IngestModeRemote:
		if c.Ingest.RemoteBase == "" {
			return fmt.Errorf("ingest.remote_base is missing")
		}
	default:
		return fmt.Errorf("unknown ingest.mode: %s", c.Ingest.Mode)
	}

	if c.Ingest.SimMinLatency > c.Ingest.SimMaxLatency {
		return fmt.Errorf("ingest.sim_min_latency must not exceed ingest.sim_max_latency")
	}
	if c.Ingest.SimMinCount > c.Ingest.SimMaxCount {
		return fmt.Errorf("ingest.sim_min_count must not exceed ingest.sim_max_count")
	}

	if c.MQ.Enabled && len(c.MQ.NameServer) == 0 {
		return fmt.Errorf("mq.name_server is missing")
	}

	if c.OSS.Enabled {
		if c.OSS.Region == "" || c.OSS.BucketName == "" {
			return fmt.Errorf("oss.region and oss.bucket_name are required when oss is enabled")
		}
		if c.OSS.AccessKeyID == "" || c.OSS.AccessKeySecret == "" {
			return fmt.Errorf("oss credentials are missing (set OSS_ACCESS_KEY_ID / OSS_ACCESS_KEY_SECRET)")
		}
	}

	return nil
}

// ChatEnabled 聊天接口依赖模型与向量库配置
func (c *Config) ChatEnabled() bool {
	return c.Model.APIKey != "" && c.Milvus.Endpoint != ""
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
