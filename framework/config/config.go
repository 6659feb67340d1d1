package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
)

var Config *AppConfig

type AppConfig struct {
	TimerConfig `json:",inline" mapstructure:",squash"`
	LogConfig   `json:",inline" mapstructure:",squash"`
	IsDebug     bool `json:"is_debug" mapstructure:"is_debug"`
}

type TimerConfig struct {
	InboxSize        int    `json:"inbox_size" mapstructure:"inbox_size"`               //命令队列长度
	PoolSize         int    `json:"pool_size" mapstructure:"pool_size"`                 //回调记录池容量, 即最多同时存在的定时器数量
	TickUs           int    `json:"tick_us" mapstructure:"tick_us"`                     //一个tick的微秒数
	SettlePollUs     int    `json:"settle_poll_us" mapstructure:"settle_poll_us"`       //销毁时轮询定时器状态的间隔 微秒
	NormalPriority   int    `json:"normal_priority" mapstructure:"normal_priority"`     //定时器线程普通优先级
	ElevatedPriority int    `json:"elevated_priority" mapstructure:"elevated_priority"` //定时器线程提升后的优先级
	Crash            string `json:"crash" mapstructure:"crash"`                         //违反约定时的处理: panic 或 exit
}

type LogConfig struct {
	LogPath   string `json:"log_path" mapstructure:"log_path"`
	LogName   string `json:"log_name" mapstructure:"log_name"`
	LogLevel  int    `json:"log_level" mapstructure:"log_level"`
	LogStdOut bool   `json:"log_std_out" mapstructure:"log_std_out"`
}

func Default() *AppConfig {
	return &AppConfig{
		TimerConfig: TimerConfig{
			InboxSize:        32,
			PoolSize:         256,
			TickUs:           1000,
			SettlePollUs:     2000,
			NormalPriority:   2,
			ElevatedPriority: 31,
			Crash:            "panic",
		},
		LogConfig: LogConfig{
			LogName:   "swtimer",
			LogLevel:  4,
			LogStdOut: true,
		},
	}
}

func (c *TimerConfig) Tick() time.Duration {
	return time.Duration(c.TickUs) * time.Microsecond
}

func (c *TimerConfig) SettlePoll() time.Duration {
	return time.Duration(c.SettlePollUs) * time.Microsecond
}

// Validate 返回所有不合法的字段
func (c *AppConfig) Validate() (err error) {
	if c.InboxSize < 1 {
		err = multierr.Append(err, fmt.Errorf("inbox_size must be positive, got %d", c.InboxSize))
	}
	if c.PoolSize < 1 {
		err = multierr.Append(err, fmt.Errorf("pool_size must be positive, got %d", c.PoolSize))
	}
	if c.TickUs < 1 {
		err = multierr.Append(err, fmt.Errorf("tick_us must be positive, got %d", c.TickUs))
	}
	if c.SettlePollUs < 0 {
		err = multierr.Append(err, fmt.Errorf("settle_poll_us must not be negative, got %d", c.SettlePollUs))
	}
	if c.ElevatedPriority <= c.NormalPriority {
		err = multierr.Append(err, fmt.Errorf("elevated_priority %d must be above normal_priority %d", c.ElevatedPriority, c.NormalPriority))
	}
	if c.Crash != "" && c.Crash != "panic" && c.Crash != "exit" {
		err = multierr.Append(err, fmt.Errorf("crash must be panic or exit, got %q", c.Crash))
	}
	if c.LogLevel < 0 || c.LogLevel > 6 {
		err = multierr.Append(err, fmt.Errorf("log_level out of range: %d", c.LogLevel))
	}
	return
}

// LoadConfig 先读文件再用环境变量覆盖, 文件为空时只用默认值和环境变量
func LoadConfig(configFile string, loadConfigFromEnv func(*AppConfig) error) error {
	conf := Default()
	if len(configFile) > 0 {
		if err := loadConfigFromFile(configFile, conf); err != nil {
			return err
		}
	}
	if loadConfigFromEnv != nil {
		if err := loadConfigFromEnv(conf); err != nil {
			return err
		}
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	Config = conf
	return nil
}

func loadConfigFromFile(configFile string, conf *AppConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, conf)
}

// Decode 用map覆盖conf中对应的字段, 字符串形式的数字和布尔也能解析
func Decode(raw map[string]any, conf *AppConfig) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           conf,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// FromEnv 读取 prefix+大写字段名 的环境变量, 如 SWTIMER_INBOX_SIZE
func FromEnv(prefix string) func(*AppConfig) error {
	return func(conf *AppConfig) error {
		raw := make(map[string]any)
		for _, kv := range os.Environ() {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(k, prefix) {
				continue
			}
			raw[strings.ToLower(strings.TrimPrefix(k, prefix))] = v
		}
		if len(raw) == 0 {
			return nil
		}
		return Decode(raw, conf)
	}
}

func (conf *AppConfig) JsonFormat() string {
	if conf == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
