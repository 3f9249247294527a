package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

// DSN renders a go-sql-driver/mysql connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	Pass string `mapstructure:"pass"`
	DB   int    `mapstructure:"db"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type OllamaConfig struct {
	URLs []string `mapstructure:"urls"`
}

type WhisperConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// VADConfig gates chunks through voice activity detection before they are
// sent to the speech engine.
type VADConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	URL          string  `mapstructure:"url"`
	Threshold    float32 `mapstructure:"threshold"`
	MinSpeechMs  int     `mapstructure:"min_speech_ms"`
	MinSilenceMs int     `mapstructure:"min_silence_ms"`
}

// TranscriptionConfig selects the speech engine and audio preprocessing.
type TranscriptionConfig struct {
	Engine       string        `mapstructure:"engine"` // whisper | openai
	Model        string        `mapstructure:"model"`
	Language     string        `mapstructure:"language"`
	Prompt       string        `mapstructure:"prompt"`
	FFmpegPath   string        `mapstructure:"ffmpeg_path"`
	SampleRate   int           `mapstructure:"sample_rate"`
	ChunkSeconds int           `mapstructure:"chunk_seconds"`
	Whisper      WhisperConfig `mapstructure:"whisper"`
	VAD          VADConfig     `mapstructure:"vad"`
}

func (t TranscriptionConfig) ChunkDuration() time.Duration {
	return time.Duration(t.ChunkSeconds) * time.Second
}

// ExtractionConfig selects the language-understanding engine.
type ExtractionConfig struct {
	Engine      string  `mapstructure:"engine"` // openai | gemini | ollama
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

type WeeekConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Token     string `mapstructure:"token"`
	ProjectID string `mapstructure:"project_id"`
	BoardID   string `mapstructure:"board_id"`
}

type JiraConfig struct {
	URL        string `mapstructure:"url"`
	Token      string `mapstructure:"token"`
	ProjectKey string `mapstructure:"project_key"`
}

type TrackerConfig struct {
	Kind  string      `mapstructure:"kind"` // "" | weeek | jira
	Weeek WeeekConfig `mapstructure:"weeek"`
	Jira  JiraConfig  `mapstructure:"jira"`
}

func (t TrackerConfig) Enabled() bool {
	return t.Kind != ""
}

type ProtocolConfig struct {
	TemplatePath string `mapstructure:"template_path"`
	OutputDir    string `mapstructure:"output_dir"`
}

type AuditConfig struct {
	Sink     string        `mapstructure:"sink"` // "" | file | mysql | redis
	Dir      string        `mapstructure:"dir"`
	RedisTTL time.Duration `mapstructure:"redis_ttl"`
}

type Settings struct {
	Env           string              `mapstructure:"env"`
	Debug         bool                `mapstructure:"debug"`
	LogLevel      string              `mapstructure:"log_level"`
	WorkDir       string              `mapstructure:"work_dir"`
	Server        ServerConfig        `mapstructure:"server"`
	DB            DBConfig            `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	OpenAI        OpenAIConfig        `mapstructure:"openai"`
	Gemini        GeminiConfig        `mapstructure:"gemini"`
	Ollama        OllamaConfig        `mapstructure:"ollama"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Extraction    ExtractionConfig    `mapstructure:"extraction"`
	Tracker       TrackerConfig       `mapstructure:"tracker"`
	Protocol      ProtocolConfig      `mapstructure:"protocol"`
	Audit         AuditConfig         `mapstructure:"audit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_upload_mb", 200)
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("transcription.engine", "whisper")
	v.SetDefault("transcription.model", "gpt-4o-mini-transcribe")
	v.SetDefault("transcription.language", "ru")
	v.SetDefault("transcription.ffmpeg_path", "ffmpeg")
	v.SetDefault("transcription.sample_rate", 16000)
	v.SetDefault("transcription.chunk_seconds", 45)
	v.SetDefault("transcription.whisper.url", "http://localhost:9000")
	v.SetDefault("transcription.whisper.timeout", 5*time.Minute)
	v.SetDefault("transcription.vad.min_speech_ms", 250)
	v.SetDefault("transcription.vad.min_silence_ms", 500)
	v.SetDefault("extraction.engine", "openai")
	v.SetDefault("extraction.model", "gpt-4")
	v.SetDefault("extraction.temperature", 0.3)
	v.SetDefault("tracker.weeek.base_url", "https://api.weeek.net/public/v1")
	v.SetDefault("tracker.jira.project_key", "MEET")
	v.SetDefault("protocol.output_dir", "protocols")
	v.SetDefault("audit.dir", "audit")
}

// Load reads config_<env>.yaml (MEETSEC_ENV, default dev) from the working
// directory. Keys can be overridden with MEETSEC_ prefixed environment
// variables, e.g. MEETSEC_OPENAI_API_KEY.
func Load() (*Settings, error) {
	return LoadFrom(".")
}

func LoadFrom(paths ...string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("meetsec")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config_" + genEnv(v))
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate rejects engine names nothing can be built for.
func (s *Settings) Validate() error {
	switch s.Transcription.Engine {
	case "whisper", "openai":
	default:
		return fmt.Errorf("unknown transcription engine %q", s.Transcription.Engine)
	}
	switch s.Extraction.Engine {
	case "openai", "gemini", "ollama":
	default:
		return fmt.Errorf("unknown extraction engine %q", s.Extraction.Engine)
	}
	switch s.Tracker.Kind {
	case "", "weeek", "jira":
	default:
		return fmt.Errorf("unknown tracker kind %q", s.Tracker.Kind)
	}
	switch s.Audit.Sink {
	case "", "file", "mysql", "redis":
	default:
		return fmt.Errorf("unknown audit sink %q", s.Audit.Sink)
	}
	if s.Transcription.ChunkSeconds <= 0 {
		return fmt.Errorf("transcription.chunk_seconds must be positive")
	}
	return nil
}

func genEnv(v *viper.Viper) string {
	env := v.GetString("env")
	if env == "" {
		return "dev"
	}
	return env
}
