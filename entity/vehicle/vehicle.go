package vehicle

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/container"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/metrics"
)

// Vehicle 车辆
// 功能：沿一条道路从起点驶向终点，终点路口不可通行时停车并尝试一次改道
// 状态转换：Moving -> Removed（安全到达）
// Moving -> Blocked -> Removed（改道成功由新车辆继续行程，或等待超时）
type Vehicle struct {
	container.IncrementalItemBase

	ctx     entity.ITaskContext
	manager *VehicleManager

	id       int32
	road     entity.IRoad
	progress float64 // 已行驶距离，0 <= progress <= road.Length()
	speed    float64 // 每步行驶距离
	status   entity.VehicleStatus

	blockedAt time.Time // 进入Blocked且改道失败的时刻（墙上时钟）
}

// newVehicle 创建一辆位于道路起点的车辆
// 功能：初始速度为基础速度，终点为Caution且AQI未知或不超过阈值时减半
// 参数：ctx-任务上下文，manager-所属管理器，id-车辆ID，road-行驶道路
// 返回：处于Moving状态的车辆
func newVehicle(ctx entity.ITaskContext, manager *VehicleManager, id int32, road entity.IRoad) *Vehicle {
	v := &Vehicle{
		ctx:     ctx,
		manager: manager,
		id:      id,
		road:    road,
		speed:   ctx.RuntimeConfig().C.Vehicle.BaseSpeed,
		status:  entity.VehicleMoving,
	}
	dest := road.To()
	if dest.Signal() == entity.SignalCaution && dest.Readings().AirQualityAtMost(trafficlight.UnsafeAirQuality) {
		v.speed *= 0.5
	}
	return v
}

// destinationBlocked 终点路口是否不可进入
func (v *Vehicle) destinationBlocked() bool {
	dest := v.road.To()
	return dest.Signal() == entity.SignalUnsafe || dest.Readings().AirQualityAbove(trafficlight.UnsafeAirQuality)
}

// update 推进一步
// 算法说明：
// 1. Blocked状态：只检查等待是否超时
// 2. 已到达终点：终点不可进入则进入Blocked，否则移除
// 3. 未到达且终点不可进入：进入Blocked
// 4. 否则前进speed，截断到道路长度
func (v *Vehicle) update() {
	switch v.status {
	case entity.VehicleRemoved:
		return
	case entity.VehicleBlocked:
		if v.ctx.WallClock().Now().Sub(v.blockedAt) >= v.ctx.RuntimeConfig().C.Vehicle.GraceDuration() {
			log.Debugf("%v: grace period expired", v)
			v.manager.remove(v, metrics.RemoveExpired)
		}
		return
	}
	if v.progress >= v.road.Length() {
		if v.destinationBlocked() {
			v.enterBlocked()
		} else {
			v.manager.remove(v, metrics.RemoveArrived)
		}
		return
	}
	if v.destinationBlocked() {
		v.enterBlocked()
		return
	}
	v.progress = min(v.progress+v.speed, v.road.Length())
}

// enterBlocked 进入Blocked状态，每辆车只会发生一次
// 功能：从终点向sink搜索安全路径，存在下一跳则生成新车辆并移除自身，否则开始计时等待
func (v *Vehicle) enterBlocked() {
	v.status = entity.VehicleBlocked
	dest := v.road.To().ID()
	sink := v.ctx.RuntimeConfig().C.Sink
	path, ok := v.ctx.Router().FindSafePath(dest, sink)
	if ok && len(path) >= 2 {
		if next, found := v.ctx.RoadManager().Find(path[0], path[1]); found {
			v.ctx.Metrics().RecordReroute(true)
			successor := v.manager.spawn(next, metrics.SpawnReroute)
			log.Debugf("%v: rerouted via %v, successor %d", v, path, successor.id)
			v.manager.remove(v, metrics.RemoveRerouted)
			return
		}
	}
	v.ctx.Metrics().RecordReroute(false)
	v.blockedAt = v.ctx.WallClock().Now()
	log.Debugf("%v: no safe path from %s to %s, waiting", v, dest, sink)
}

// ID 获取车辆ID
func (v *Vehicle) ID() int32 {
	return v.id
}

// Status 获取车辆状态
func (v *Vehicle) Status() entity.VehicleStatus {
	return v.status
}

// Road 获取车辆所在道路
func (v *Vehicle) Road() entity.IRoad {
	return v.road
}

// Progress 获取已行驶距离
func (v *Vehicle) Progress() float64 {
	return v.progress
}

// NormalizedPosition 归一化位置，长度为0的道路视为已到终点
func (v *Vehicle) NormalizedPosition() float64 {
	length := v.road.Length()
	if length <= 0 {
		return 1
	}
	return v.progress / length
}

// View 生成只读视图
func (v *Vehicle) View() entity.VehicleView {
	return entity.VehicleView{
		ID:       v.id,
		From:     v.road.From().ID(),
		To:       v.road.To().ID(),
		Position: v.NormalizedPosition(),
		XY:       v.road.PositionAt(v.progress),
		Speed:    v.speed,
		Status:   v.status,
	}
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle %d(%s->%s %s)", v.id, v.road.From().ID(), v.road.To().ID(), v.status)
}
