package vehicle

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/container"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/metrics"
)

// VehicleManager Vehicle管理器
// 功能：持有当前存活车辆集合，负责按信号重新生成车辆、逐帧推进与增删提交
type VehicleManager struct {
	ctx entity.ITaskContext

	// 存活车辆，遍历顺序即插入顺序
	vehicles *container.IncrementalArray[*Vehicle]

	nextVehicleID int32
}

// NewManager 创建Vehicle管理器实例
// 功能：初始化Vehicle管理器，创建内部数据结构
// 参数：ctx-任务上下文
// 返回：新创建的Vehicle管理器实例
func NewManager(ctx entity.ITaskContext) *VehicleManager {
	return &VehicleManager{
		ctx:      ctx,
		vehicles: container.NewIncrementalArray[*Vehicle](),
	}
}

// spawn 生成一辆新车辆，下一次提交后生效
func (m *VehicleManager) spawn(road entity.IRoad, reason string) *Vehicle {
	v := newVehicle(m.ctx, m, m.nextVehicleID, road)
	m.nextVehicleID++
	m.vehicles.Add(v)
	m.ctx.Metrics().RecordSpawn(reason)
	return v
}

// remove 移除车辆，下一次提交后生效
func (m *VehicleManager) remove(v *Vehicle, reason string) {
	if v.status == entity.VehicleRemoved {
		return
	}
	v.status = entity.VehicleRemoved
	m.vehicles.Remove(v)
	m.ctx.Metrics().RecordRemove(reason)
}

// commit 提交本帧的增删
func (m *VehicleManager) commit() {
	m.vehicles.Prepare()
	m.ctx.Metrics().ActiveVehicles.Set(float64(m.vehicles.Len()))
}

// Reset 清空所有车辆并按当前信号重新生成
// 算法说明：
// 1. 移除全部存活车辆（未提交的新增一并丢弃）
// 2. 按声明顺序遍历信号不是Unsafe的路口
// 3. 对每条出边，终点信号不是Unsafe且AQI未知或不超过阈值时生成一辆车
// 4. 立即提交，新车辆在本帧即可推进
func (m *VehicleManager) Reset() {
	for _, v := range m.vehicles.Data() {
		if v.status != entity.VehicleRemoved {
			v.status = entity.VehicleRemoved
			m.ctx.Metrics().RecordRemove(metrics.RemoveReset)
		}
	}
	m.vehicles.Clear()
	for _, j := range m.ctx.JunctionManager().Junctions() {
		if j.Signal() == entity.SignalUnsafe {
			continue
		}
		for _, r := range m.ctx.RoadManager().Outgoing(j.ID()) {
			to := r.To()
			if to.Signal() == entity.SignalUnsafe || !to.Readings().AirQualityAtMost(trafficlight.UnsafeAirQuality) {
				continue
			}
			m.spawn(r, metrics.SpawnReset)
		}
	}
	m.commit()
	log.Debugf("reset: %d vehicles", m.vehicles.Len())
}

// Update 推进所有车辆一帧，并提交新增与移除
// 说明：按插入顺序串行推进，改道生成的车辆在下一帧开始推进
func (m *VehicleManager) Update() {
	for _, v := range m.vehicles.Data() {
		v.update()
	}
	m.commit()
}

// Vehicles 当前存活车辆的只读视图
func (m *VehicleManager) Vehicles() []entity.VehicleView {
	return lo.Map(m.vehicles.Data(), func(v *Vehicle, _ int) entity.VehicleView { return v.View() })
}

// Count 当前存活车辆数
func (m *VehicleManager) Count() int {
	return m.vehicles.Len()
}
