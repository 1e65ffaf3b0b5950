package clock

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/airsafe-sim/utils/config"
)

// Clock 仿真时钟管理器
// 功能：管理仿真系统的帧推进，维护当前帧号与仿真时间
// 说明：车辆的推进节奏只与帧有关；只有车辆阻塞后的宽限期使用墙上时钟（见WallClock）
type Clock struct {
	DT         float64 // 每帧时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，模拟区间[START, END)，为0时表示不设上限

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数

	epoch time.Time // 仿真时间零点，用于将T换算为time.Time
}

// New 根据配置创建新的时钟实例
// 功能：根据控制步配置初始化时钟信息
// 参数：stepConfig-控制步配置，包含时间间隔、起始步与总步数
// 返回：初始化完成的时钟实例
// 说明：Total为0时END_STEP为0，Run循环不会因步数结束
func New(stepConfig config.ControlStep) *Clock {
	endStep := int32(0)
	if stepConfig.Total > 0 {
		endStep = stepConfig.Start + stepConfig.Total
	}
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   endStep,
		epoch:      time.Unix(0, 0).UTC(),
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置内部步数为起始步，重新计算当前时间
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Tick 推进一帧
// 功能：步数加一并重新计算当前时间
func (c *Clock) Tick() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Finished 判断是否到达结束步
// 说明：每步先推进步数再计算，因此共执行Total步后结束
func (c *Clock) Finished() bool {
	return c.END_STEP > 0 && c.InternalStep >= c.END_STEP
}

// Now 将仿真时间换算为time.Time
// 功能：让Clock本身满足WallClock接口，非实时模式下宽限期按仿真时间计算
func (c *Clock) Now() time.Time {
	return c.epoch.Add(time.Duration(c.T * float64(time.Second)))
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
