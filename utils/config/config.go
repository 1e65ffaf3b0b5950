package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// 原程序中的常量：每帧0.5个单位、5秒刷新一次读数、阻塞后5秒移除
const (
	DefaultBaseSpeed    = 0.5
	DefaultGracePeriod  = 5.0
	DefaultFeedInterval = 5.0
	DefaultFeedTimeout  = 3.0
	DefaultStepInterval = 1.0 / 60
	DefaultSink         = "J6"
)

var validate = validator.New()

// Default 默认配置
// 功能：返回可直接运行的配置（内置路网、synthetic读数、60帧每秒实时运行）
func Default() Config {
	return Config{
		Feed: Feed{
			Type:     FeedSynthetic,
			Interval: DefaultFeedInterval,
			Timeout:  DefaultFeedTimeout,
		},
		Control: Control{
			Step:     ControlStep{Interval: DefaultStepInterval},
			Realtime: true,
			Vehicle: Vehicle{
				BaseSpeed:   DefaultBaseSpeed,
				GracePeriod: DefaultGracePeriod,
			},
		},
	}
}

// Parse 解析YAML配置
// 功能：在默认配置之上严格解析YAML（未知字段报错），并做字段校验
// 参数：data-YAML数据
// 返回：解析后的配置与错误
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config unmarshal: %w", err)
	}
	if err := Validate(c); err != nil {
		return c, err
	}
	return c, nil
}

// Validate 校验配置
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed on '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Feed.Type == FeedHTTP && c.Feed.URL == "" {
		return errors.New("invalid config: http feed requires feed.url")
	}
	if c.Feed.Type == FeedMongo && c.Input.URI == "" {
		return errors.New("invalid config: mongo feed requires input.uri")
	}
	if c.Input.Topology.FromMongo() && c.Input.URI == "" {
		return errors.New("invalid config: mongo topology requires input.uri")
	}
	return nil
}

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置创建运行时配置
// 功能：补全sink（配置优先，其次为拓扑声明的sink，最后为J6）
// 参数：config-原始配置对象，topologySink-路网拓扑中声明的sink
// 返回：运行时配置指针
func NewRuntimeConfig(config Config, topologySink string) *RuntimeConfig {
	rc := &RuntimeConfig{}
	rc.All = config
	rc.C = config.Control
	if rc.C.Sink == "" {
		rc.C.Sink = topologySink
	}
	if rc.C.Sink == "" {
		rc.C.Sink = DefaultSink
	}
	return rc
}
