package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Game      GameConfig      `mapstructure:"game"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Log       LogConfig       `mapstructure:"log"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Security  SecurityConfig  `mapstructure:"security"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	Path              string        `mapstructure:"path"`
	ReadBufferSize    int           `mapstructure:"read_buffer_size"`
	WriteBufferSize   int           `mapstructure:"write_buffer_size"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	PingInterval      time.Duration `mapstructure:"ping_interval"`
	PongTimeout       time.Duration `mapstructure:"pong_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// GameConfig 战斗老虎机配置
type GameConfig struct {
	Boosts         []BoostConfig `mapstructure:"boosts"`
	InitialTronium int64         `mapstructure:"initial_tronium"`
	VillainMaxHP   int64         `mapstructure:"villain_max_hp"`
	RandomSource   string        `mapstructure:"random_source"` // crypto | seeded
	Seed           uint64        `mapstructure:"seed"`
}

// BoostConfig 加成档位
type BoostConfig struct {
	Label      string  `mapstructure:"label"`
	Cost       int64   `mapstructure:"cost"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// StatsConfig 排行统计配置
type StatsConfig struct {
	CacheSize int           `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	TopN      int           `mapstructure:"top_n"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  string            `mapstructure:"output"`
	File    LogFileConfig     `mapstructure:"file"`
	Modules map[string]string `mapstructure:"modules"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// MonitorConfig 监控配置
type MonitorConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret       string `mapstructure:"secret"`
	ExpireHours  int    `mapstructure:"expire_hours"`
	RefreshHours int    `mapstructure:"refresh_hours"`
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
	v    *viper.Viper
)

// Init 初始化配置
func Init(configPath string) error {
	var err error
	once.Do(func() {
		var loaded *Config
		v, loaded, err = load(configPath)
		if err != nil {
			return
		}
		mu.Lock()
		cfg = loaded
		mu.Unlock()
	})

	return err
}

// Load 读取并校验配置，不影响全局实例
func Load(configPath string) (*Config, error) {
	_, c, err := load(configPath)
	return c, err
}

func load(configPath string) (*viper.Viper, *Config, error) {
	vp := viper.New()

	// 设置配置文件路径
	if configPath != "" {
		vp.SetConfigFile(configPath)
	} else {
		vp.SetConfigName("config")
		vp.SetConfigType("yaml")
		vp.AddConfigPath("./config")
		vp.AddConfigPath(".")
	}

	// 设置环境变量前缀
	vp.SetEnvPrefix("BATTLE_SLOT")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	setDefaults(vp)

	// 配置文件不存在时使用默认配置
	if err := vp.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	c := &Config{}
	if err := vp.Unmarshal(c); err != nil {
		return nil, nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	return vp, c, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// 数据库默认配置
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/battle-slot.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	// WebSocket默认配置
	v.SetDefault("websocket.path", "/ws")
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.max_message_size", 8192)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.enable_compression", true)

	// 游戏默认配置
	v.SetDefault("game.boosts", []map[string]interface{}{
		{"label": "Normal", "cost": 10, "multiplier": 1.0},
		{"label": "Strong", "cost": 30, "multiplier": 1.15},
		{"label": "Max", "cost": 50, "multiplier": 1.3},
		{"label": "Epic", "cost": 100, "multiplier": 1.5},
	})
	v.SetDefault("game.initial_tronium", 1000)
	v.SetDefault("game.villain_max_hp", 100)
	v.SetDefault("game.random_source", "crypto")
	v.SetDefault("game.seed", 0)

	// 排行默认配置
	v.SetDefault("stats.cache_size", 16)
	v.SetDefault("stats.cache_ttl", "30s")
	v.SetDefault("stats.top_n", 10)

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "both")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "battle-slot.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.metrics_path", "/metrics")

	v.SetDefault("security.jwt.secret", "battle-slot-dev-secret")
	v.SetDefault("security.jwt.expire_hours", 24)
	v.SetDefault("security.jwt.refresh_hours", 168)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Game.Boosts) == 0 {
		return fmt.Errorf("game.boosts 不能为空")
	}
	for i, b := range c.Game.Boosts {
		if b.Label == "" || b.Cost <= 0 || b.Multiplier <= 0 {
			return fmt.Errorf("game.boosts[%d] 配置无效: %+v", i, b)
		}
	}
	if c.Game.InitialTronium < 0 {
		return fmt.Errorf("game.initial_tronium 不能为负数: %d", c.Game.InitialTronium)
	}
	if c.Game.VillainMaxHP <= 0 {
		return fmt.Errorf("game.villain_max_hp 必须大于0: %d", c.Game.VillainMaxHP)
	}
	switch c.Game.RandomSource {
	case "crypto", "seeded":
	default:
		return fmt.Errorf("game.random_source 只能是 crypto 或 seeded: %q", c.Game.RandomSource)
	}
	if c.Stats.TopN <= 0 {
		return fmt.Errorf("stats.top_n 必须大于0: %d", c.Stats.TopN)
	}
	if c.Security.JWT.Secret == "" {
		return fmt.Errorf("security.jwt.secret 不能为空")
	}
	return nil
}

// Address 服务监听地址
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Get 获取配置实例
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Watch 监听配置文件变化
// 新配置校验失败时保留旧配置
func Watch(callback func(*Config)) {
	if v == nil {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			fmt.Printf("配置重载失败: %v\n", err)
			return
		}
		if err := newCfg.Validate(); err != nil {
			fmt.Printf("配置重载失败: %v\n", err)
			return
		}

		mu.Lock()
		cfg = newCfg
		mu.Unlock()

		if callback != nil {
			callback(newCfg)
		}

		fmt.Println("配置已重新加载")
	})
	v.WatchConfig()
}

// GetString 获取字符串配置
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetDuration 获取时间间隔配置
func GetDuration(key string) time.Duration {
	return v.GetDuration(key)
}

// IsSet 检查配置项是否存在
func IsSet(key string) bool {
	return v.IsSet(key)
}
