package configs

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type WireConfig struct {
	LogFolder string `mapstructure:"log_folder"`
	LogLevel  string `mapstructure:"log_level"`

	// ListenAddr is a multiaddr, e.g. /ip4/0.0.0.0/tcp/40102
	ListenAddr     string        `mapstructure:"listen_addr"`
	MaxFrameSize   int           `mapstructure:"max_frame_size"`
	ReadChunkSize  int           `mapstructure:"read_chunk_size"`
	MaxConnections int           `mapstructure:"max_connections"`
	WorkerPoolSize int           `mapstructure:"worker_pool_size"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`

	AdminAddr        string `mapstructure:"admin_addr"`
	MetricsNamespace string `mapstructure:"metrics_namespace"`
}

func Default() WireConfig {
	return WireConfig{
		LogLevel:         "info",
		ListenAddr:       "/ip4/0.0.0.0/tcp/40102",
		MaxFrameSize:     16 << 20,
		ReadChunkSize:    64 << 10,
		MaxConnections:   256,
		WorkerPoolSize:   64,
		DialTimeout:      5 * time.Second,
		ReadTimeout:      2 * time.Minute,
		AdminAddr:        "127.0.0.1:8080",
		MetricsNamespace: "golem",
	}
}

// ReadConfigFromFile loads filePath (JSON or YAML by extension) over the
// defaults. Environment variables prefixed with GOLEM_ take precedence,
// e.g. GOLEM_MAX_FRAME_SIZE. An empty path reads defaults and environment
// only.
func ReadConfigFromFile(filePath string) (WireConfig, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("GOLEM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_folder", cfg.LogFolder)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("max_frame_size", cfg.MaxFrameSize)
	v.SetDefault("read_chunk_size", cfg.ReadChunkSize)
	v.SetDefault("max_connections", cfg.MaxConnections)
	v.SetDefault("worker_pool_size", cfg.WorkerPoolSize)
	v.SetDefault("dial_timeout", cfg.DialTimeout)
	v.SetDefault("read_timeout", cfg.ReadTimeout)
	v.SetDefault("admin_addr", cfg.AdminAddr)
	v.SetDefault("metrics_namespace", cfg.MetricsNamespace)

	if filePath != "" {
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return WireConfig{}, err
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return WireConfig{}, err
	}
	return cfg, nil
}
