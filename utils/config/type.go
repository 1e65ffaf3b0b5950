package config

import "time"

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，文件优先于MongoDB
type InputPath struct {
	DB   string `yaml:"db,omitempty"`   // 数据库名
	Col  string `yaml:"col,omitempty"`  // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// FromMongo 是否从MongoDB读取
func (p InputPath) FromMongo() bool {
	return p.File == "" && p.DB != "" && p.Col != ""
}

// Input 指定模拟器所有输入数据的配置项
type Input struct {
	URI      string    `yaml:"uri,omitempty"`      // MongoDB连接字符串
	Topology InputPath `yaml:"topology,omitempty"` // 路网拓扑，均为空时使用内置路网
}

// 读数源类型
const (
	FeedHTTP      = "http"
	FeedMongo     = "mongo"
	FeedSynthetic = "synthetic"
)

// Feed 环境读数拉取配置
// 功能：定义周期性拉取读数的来源与节奏
type Feed struct {
	Type     string  `yaml:"type" validate:"oneof=http mongo synthetic"`
	URL      string  `yaml:"url,omitempty" validate:"omitempty,url"`
	DB       string  `yaml:"db,omitempty" validate:"required_if=Type mongo"`
	Col      string  `yaml:"col,omitempty" validate:"required_if=Type mongo"`
	Interval float64 `yaml:"interval" validate:"gt=0"` // 两次拉取之间的间隔（秒）
	Timeout  float64 `yaml:"timeout" validate:"gt=0"`  // 单次拉取超时（秒）
	Seed     uint64  `yaml:"seed,omitempty"`           // synthetic读数的随机种子
}

// IntervalDuration 拉取间隔
func (f Feed) IntervalDuration() time.Duration {
	return time.Duration(f.Interval * float64(time.Second))
}

// TimeoutDuration 单次拉取超时
func (f Feed) TimeoutDuration() time.Duration {
	return time.Duration(f.Timeout * float64(time.Second))
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start" validate:"gte=0"`    // 开始步数
	Total    int32   `yaml:"total" validate:"gte=0"`    // 总步数，0表示不设上限
	Interval float64 `yaml:"interval" validate:"gt=0"` // 每步的时间间隔（秒）
}

// IntervalDuration 每步的时间间隔
func (s ControlStep) IntervalDuration() time.Duration {
	return time.Duration(s.Interval * float64(time.Second))
}

// Vehicle 车辆行为配置
type Vehicle struct {
	BaseSpeed   float64 `yaml:"base_speed" validate:"gt=0"`    // 每帧前进距离
	GracePeriod float64 `yaml:"grace_period" validate:"gte=0"` // 阻塞且无法改道后保留的时长（秒）
}

// GraceDuration 阻塞宽限期
func (v Vehicle) GraceDuration() time.Duration {
	return time.Duration(v.GracePeriod * float64(time.Second))
}

// Control 模拟器控制配置
type Control struct {
	Step     ControlStep `yaml:"step"`
	Realtime bool        `yaml:"realtime"`       // 按Interval节拍实时运行，否则尽快运行
	Sink     string      `yaml:"sink,omitempty"` // 改道目标路口，为空时使用拓扑中的sink
	Vehicle  Vehicle     `yaml:"vehicle"`
}

// Config YAML配置文件的根结构
type Config struct {
	Input   Input   `yaml:"input"`   // 输入
	Feed    Feed    `yaml:"feed"`    // 读数源
	Control Control `yaml:"control"` // 模拟过程控制
}
