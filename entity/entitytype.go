package entity

import (
	"fmt"
	"strconv"

	"git.fiblab.net/general/common/v2/geometry"
)

// SignalState 路口信号状态，由路口读数推导
type SignalState int32

const (
	SignalSafe    SignalState = iota // 安全（绿）
	SignalCaution                    // 注意（黄），车辆减速
	SignalUnsafe                     // 不安全（红），不可通行
)

func (s SignalState) String() string {
	switch s {
	case SignalSafe:
		return "safe"
	case SignalCaution:
		return "caution"
	case SignalUnsafe:
		return "unsafe"
	default:
		return fmt.Sprintf("SignalState(%d)", int32(s))
	}
}

// Readings 路口环境读数，nil表示未知
type Readings struct {
	AirQuality *float64 // 空气质量指数AQI
	NoiseLevel *float64 // 噪声（dB）
	Humidity   *float64 // 湿度（%）
}

// AirQualityAbove AQI是否已知且大于limit，无效（NaN）的AQI视为超过
func (r Readings) AirQualityAbove(limit float64) bool {
	return r.AirQuality != nil && !(*r.AirQuality <= limit)
}

// AirQualityAtMost AQI是否未知或不大于limit，无效（NaN）的AQI不满足
func (r Readings) AirQualityAtMost(limit float64) bool {
	return r.AirQuality == nil || *r.AirQuality <= limit
}

func (r Readings) String() string {
	f := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return fmt.Sprintf("Readings{AQI=%s, Noise=%s, Humidity=%s}", f(r.AirQuality), f(r.NoiseLevel), f(r.Humidity))
}

// RawReadings 未经转换的读数，来自外部数据源，字段缺失为nil
type RawReadings struct {
	AirQuality any
	NoiseLevel any
	Humidity   any
}

// VehicleStatus 车辆生命周期状态
type VehicleStatus int32

const (
	VehicleMoving  VehicleStatus = iota // 行驶中
	VehicleBlocked                      // 终点路口不安全，停止
	VehicleRemoved                      // 已移除（终态）
)

func (s VehicleStatus) String() string {
	switch s {
	case VehicleMoving:
		return "moving"
	case VehicleBlocked:
		return "blocked"
	case VehicleRemoved:
		return "removed"
	default:
		return fmt.Sprintf("VehicleStatus(%d)", int32(s))
	}
}

// VehicleView 提供给渲染方的车辆只读视图
type VehicleView struct {
	ID       int32
	From     string
	To       string
	Position float64        // 归一化位置，0为起点，1为终点
	XY       geometry.Point // 插值后的坐标
	Speed    float64
	Status   VehicleStatus
}

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	ID() string               // 获取路口ID
	Position() geometry.Point // 获取路口坐标（初始化后不变）
	Readings() Readings       // 获取当前读数
	Signal() SignalState      // 获取当前信号状态
}

// entity/road/road.go的依赖倒置
type IRoad interface {
	String() string

	ID() int32       // 道路在声明顺序中的序号
	From() IJunction // 起点路口
	To() IJunction   // 终点路口
	Length() float64 // 起终点直线距离

	PositionAt(s float64) geometry.Point // 距起点s处的坐标，s截断到[0, Length]
}
