package task

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils"
)

// JunctionView 路口只读视图
type JunctionView struct {
	ID       string
	Position geometry.Point
	Readings entity.Readings
	Signal   entity.SignalState
	Alerts   []trafficlight.Alert
}

// RoadView 道路只读视图
type RoadView struct {
	From, To string
	Clear    bool // 两端都可通行
}

// Snapshot 同一时刻的完整仿真状态
type Snapshot struct {
	Step      int32
	Time      string
	Loaded    bool // 是否已应用过读数
	Sink      string
	Junctions []JunctionView
	Roads     []RoadView
	Vehicles  []entity.VehicleView
}

// SubmitReadings 提交一个读数批次，在下一步开始时整体生效
// 说明：多次提交只保留最后一个批次；空批次被忽略
func (ctx *Context) SubmitReadings(batch map[string]entity.RawReadings) {
	if len(batch) == 0 {
		log.Info("no readings loaded yet")
		return
	}
	ctx.pendingMtx.Lock()
	defer ctx.pendingMtx.Unlock()
	ctx.pending = batch
}

func junctionView(j entity.IJunction) JunctionView {
	return JunctionView{
		ID:       j.ID(),
		Position: j.Position(),
		Readings: j.Readings(),
		Signal:   j.Signal(),
		Alerts:   trafficlight.Alerts(j.Readings()),
	}
}

// Signals 所有路口的信号状态
func (ctx *Context) Signals() map[string]entity.SignalState {
	ctx.mtx.RLock()
	defer ctx.mtx.RUnlock()
	return lo.SliceToMap(ctx.junctionManager.Junctions(), func(j entity.IJunction) (string, entity.SignalState) {
		return j.ID(), j.Signal()
	})
}

// Readings 所有路口的当前读数
func (ctx *Context) Readings() map[string]entity.Readings {
	ctx.mtx.RLock()
	defer ctx.mtx.RUnlock()
	return lo.SliceToMap(ctx.junctionManager.Junctions(), func(j entity.IJunction) (string, entity.Readings) {
		return j.ID(), j.Readings()
	})
}

// Junctions 查询指定路口，ids为空时返回全部
// 返回：路口视图（按ids顺序）与不存在的ID
func (ctx *Context) Junctions(ids ...string) ([]JunctionView, []string) {
	ctx.mtx.RLock()
	defer ctx.mtx.RUnlock()
	all := ctx.junctionManager.Junctions()
	dataMap := lo.SliceToMap(all, func(j entity.IJunction) (string, entity.IJunction) { return j.ID(), j })
	found, failed := utils.Find(dataMap, all, ids)
	return lo.Map(found, func(j entity.IJunction, _ int) JunctionView { return junctionView(j) }), failed
}

// Vehicles 当前存活车辆
func (ctx *Context) Vehicles() []entity.VehicleView {
	ctx.mtx.RLock()
	defer ctx.mtx.RUnlock()
	return ctx.vehicleManager.Vehicles()
}

// FindSafePath 查询两个路口之间的安全路径
func (ctx *Context) FindSafePath(start, end string) ([]string, bool) {
	ctx.mtx.RLock()
	defer ctx.mtx.RUnlock()
	path, ok := ctx.router.FindSafePath(start, end)
	ctx.metrics.RecordRouteQuery(ok)
	return path, ok
}

// Alerts 查询路口的读数告警
func (ctx *Context) Alerts(id string) ([]trafficlight.Alert, error) {
	ctx.mtx.RLock()
	defer ctx.mtx.RUnlock()
	j, err := ctx.junctionManager.GetOrError(id)
	if err != nil {
		return nil, err
	}
	return trafficlight.Alerts(j.Readings()), nil
}

// RoadClear 查询道路是否畅通
func (ctx *Context) RoadClear(from, to string) (bool, error) {
	ctx.mtx.RLock()
	defer ctx.mtx.RUnlock()
	r, ok := ctx.roadManager.Find(from, to)
	if !ok {
		return false, fmt.Errorf("no road %s->%s in road data", from, to)
	}
	return ctx.roadManager.IsClear(r), nil
}

// Snapshot 获取同一时刻的完整状态，供渲染使用
func (ctx *Context) Snapshot() Snapshot {
	ctx.mtx.RLock()
	defer ctx.mtx.RUnlock()
	return Snapshot{
		Step:      ctx.clock.InternalStep,
		Time:      ctx.clock.String(),
		Loaded:    ctx.loaded,
		Sink:      ctx.runtimeConfig.C.Sink,
		Junctions: lo.Map(ctx.junctionManager.Junctions(), func(j entity.IJunction, _ int) JunctionView { return junctionView(j) }),
		Roads: lo.Map(ctx.roadManager.Roads(), func(r entity.IRoad, _ int) RoadView {
			return RoadView{From: r.From().ID(), To: r.To().ID(), Clear: ctx.roadManager.IsClear(r)}
		}),
		Vehicles: ctx.vehicleManager.Vehicles(),
	}
}
