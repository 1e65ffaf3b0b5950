package junction

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/input"
)

// Junction 路口
// 位置在初始化后不变，读数由外部数据源整体覆盖，信号状态是读数的缓存
type Junction struct {
	ctx entity.ITaskContext

	id       string
	position geometry.Point
	readings entity.Readings    // 当前读数（nil为未知）
	signal   entity.SignalState // 信号缓存，由recompute根据readings更新
}

// newJunction 创建并初始化一个新的Junction实例
// 功能：根据基础数据创建Junction对象，初始读数全部未知，信号为Safe
// 参数：ctx-任务上下文，base-基础Junction数据
// 返回：初始化完成的Junction实例
func newJunction(ctx entity.ITaskContext, base input.Junction) *Junction {
	j := &Junction{
		ctx:      ctx,
		id:       base.ID,
		position: geometry.Point{X: base.X, Y: base.Y},
	}
	j.recompute()
	return j
}

// setReadings 整体覆盖三项读数
func (j *Junction) setReadings(r entity.Readings) {
	j.readings = r
}

// recompute 根据当前读数重新计算信号状态，并同步到监控指标
func (j *Junction) recompute() {
	j.signal = trafficlight.Assign(j.readings)
	if j.ctx != nil {
		j.ctx.Metrics().SetJunction(j.id, int32(j.signal), j.readings.AirQuality)
	}
}

// ID 获取Junction的唯一标识符
func (j *Junction) ID() string {
	return j.id
}

// Position 获取Junction的坐标
func (j *Junction) Position() geometry.Point {
	return j.position
}

// Readings 获取Junction的当前读数
func (j *Junction) Readings() entity.Readings {
	return j.readings
}

// Signal 获取Junction的当前信号状态
func (j *Junction) Signal() entity.SignalState {
	return j.signal
}

// Alerts 获取Junction当前读数产生的告警
func (j *Junction) Alerts() []trafficlight.Alert {
	return trafficlight.Alerts(j.readings)
}
