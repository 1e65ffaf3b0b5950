package road

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/input"
)

// RoadManager Road管理器
// 功能：管理所有Road实体，维护声明顺序与出边邻接表
type RoadManager struct {
	ctx entity.ITaskContext

	roads    []*Road
	outgoing map[string][]entity.IRoad // 路口ID->出边（声明顺序）
}

// NewManager 创建Road管理器实例
// 功能：初始化Road管理器，创建内部数据结构
// 参数：ctx-任务上下文
// 返回：新创建的Road管理器实例
func NewManager(ctx entity.ITaskContext) *RoadManager {
	return &RoadManager{
		ctx:      ctx,
		roads:    make([]*Road, 0),
		outgoing: make(map[string][]entity.IRoad),
	}
}

// Init 初始化所有Road
// 功能：根据路网数据创建Road对象，建立出边邻接表
// 参数：pbs-Road数据列表（已校验起终点存在），junctionManager-Junction管理器
// 说明：邻接表中出边顺序与声明顺序一致，寻路与车辆生成都依赖该顺序
func (m *RoadManager) Init(pbs []input.Road, junctionManager entity.IJunctionManager) {
	m.roads = lo.Map(pbs, func(pb input.Road, i int) *Road {
		return newRoad(m.ctx, int32(i), junctionManager.Get(pb.From), junctionManager.Get(pb.To))
	})
	m.outgoing = make(map[string][]entity.IRoad)
	for _, r := range m.roads {
		m.outgoing[r.from.ID()] = append(m.outgoing[r.from.ID()], r)
	}
	log.Debugf("init %d roads", len(m.roads))
}

// Get 根据ID获取Road实例
// 功能：通过Road ID查找对应的Road对象，如果不存在则panic
// 参数：id-Road的声明顺序号
// 返回：对应的Road实例，如果不存在则panic
func (m *RoadManager) Get(id int32) entity.IRoad {
	if id < 0 || int(id) >= len(m.roads) {
		log.Panicf("no id %d in road data", id)
		return nil
	}
	return m.roads[id]
}

// Find 按起终点查找Road
func (m *RoadManager) Find(from, to string) (entity.IRoad, bool) {
	return lo.Find(m.outgoing[from], func(r entity.IRoad) bool {
		return r.To().ID() == to
	})
}

// Roads 按声明顺序返回所有Road
func (m *RoadManager) Roads() []entity.IRoad {
	return lo.Map(m.roads, func(r *Road, _ int) entity.IRoad { return r })
}

// Outgoing 按声明顺序返回从该路口出发的Road，未知路口返回空
func (m *RoadManager) Outgoing(junctionID string) []entity.IRoad {
	return m.outgoing[junctionID]
}

// IsClear 道路是否畅通
// 功能：两端路口信号都不是Unsafe，且AQI都未知或不超过阈值
func (m *RoadManager) IsClear(r entity.IRoad) bool {
	for _, j := range []entity.IJunction{r.From(), r.To()} {
		if j.Signal() == entity.SignalUnsafe || j.Readings().AirQualityAbove(trafficlight.UnsafeAirQuality) {
			return false
		}
	}
	return true
}
