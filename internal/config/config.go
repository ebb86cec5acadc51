package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/adrg/xdg"
)

var (
	cfgFile = "rangechess/config.json"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	StrategyNegamax = "negamax"
	StrategyRollout = "rollout"
)

// AIConfig 内置 AI 的参数
type AIConfig struct {
	Strategy     string `json:"strategy"`
	MaxDepth     int    `json:"max_depth"`
	Parallel     bool   `json:"parallel"`
	RolloutDepth int    `json:"rollout_depth"`
	RolloutCount int    `json:"rollout_count"`
	RolloutSeed  int64  `json:"rollout_seed"`
	Verbose      bool   `json:"verbose"`
}

// ClockConfig 时间用 Go 的 duration 写法，例如 "5m"、"2s"
type ClockConfig struct {
	Total     string `json:"total"`
	Increment string `json:"increment"`
}

type Config struct {
	Addr   string      `json:"addr"`
	WebDir string      `json:"web_dir"`
	Clock  ClockConfig `json:"clock"`
	AI     AIConfig    `json:"ai"`
}

var DefaultConfig = Config{
	Addr:   "127.0.0.1:8080",
	WebDir: "web",
	Clock: ClockConfig{
		Total:     "5m",
		Increment: "2s",
	},
	AI: AIConfig{
		Strategy:     StrategyNegamax,
		MaxDepth:     0,
		Parallel:     true,
		RolloutDepth: 7,
		RolloutCount: 40,
	},
}

// InitConfig 读用户配置目录下的 rangechess/config.json，没有就用默认值
func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFile 读指定文件（相对路径也会到可执行文件旁边找）
func LoadFile(path string) (*Config, error) {
	absPath, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig
	if err := readCfgFile(absPath, &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty addr", ErrInvalidConfig)
	}
	total, err := c.TotalTime()
	if err != nil {
		return err
	}
	if total <= 0 {
		return fmt.Errorf("%w: total time must be positive", ErrInvalidConfig)
	}
	inc, err := c.IncrementTime()
	if err != nil {
		return err
	}
	if inc < 0 {
		return fmt.Errorf("%w: negative increment", ErrInvalidConfig)
	}
	switch c.AI.Strategy {
	case StrategyNegamax, StrategyRollout:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.AI.Strategy)
	}
	if c.AI.MaxDepth < 0 || c.AI.RolloutDepth < 0 || c.AI.RolloutCount < 0 {
		return fmt.Errorf("%w: negative search parameter", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) TotalTime() (time.Duration, error) {
	return parseDuration("total", c.Clock.Total)
}

func (c *Config) IncrementTime() (time.Duration, error) {
	return parseDuration("increment", c.Clock.Increment)
}

func parseDuration(name, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}
	return d, nil
}

// Save 写回用户配置目录
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filePath, err)
	}
	return nil
}
