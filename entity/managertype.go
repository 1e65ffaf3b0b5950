package entity

import (
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/input"
)

// Manager依赖倒置

// entity/junction/manager.go的依赖倒置
type IJunctionManager interface {
	Init(pbs []input.Junction) // 初始化

	// 输入Junction ID，查找Junction，如果不存在则panic
	Get(id string) IJunction
	// 输入Junction ID，查找Junction，如果不存在则返回error
	GetOrError(id string) (IJunction, error)
	// 按声明顺序返回所有Junction
	Junctions() []IJunction

	ApplyReadings(readings map[string]RawReadings) int // 覆盖读数，返回更新的路口数
	RecomputeSignals()                                 // 根据读数重新计算所有路口信号
}

// entity/road/manager.go的依赖倒置
type IRoadManager interface {
	Init(pbs []input.Road, junctionManager IJunctionManager) // 初始化

	// 输入Road ID，查找Road，如果不存在则panic
	Get(id int32) IRoad
	// 按起终点查找Road（存在重复时返回最先声明的一条）
	Find(from, to string) (IRoad, bool)

	Roads() []IRoad                     // 按声明顺序返回所有Road
	Outgoing(junctionID string) []IRoad // 按声明顺序返回从该路口出发的Road
	IsClear(r IRoad) bool               // 道路两端是否都可通行
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	Reset()  // 清空所有车辆并按当前信号重新生成
	Update() // 推进所有车辆一帧，并提交新增与移除

	Vehicles() []VehicleView // 当前存活车辆
	Count() int              // 当前存活车辆数
}
