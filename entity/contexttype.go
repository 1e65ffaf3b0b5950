package entity

import (
	"github.com/tsinghua-fib-lab/airsafe-sim/clock"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/config"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/metrics"
)

// 导航模块接口
type IRouter interface {
	// 安全路径搜索，不存在时返回false
	FindSafePath(start, end string) ([]string, bool)
}

type ITaskContext interface {
	Clock() *clock.Clock
	WallClock() clock.WallClock
	JunctionManager() IJunctionManager
	RoadManager() IRoadManager
	VehicleManager() IVehicleManager
	RuntimeConfig() *config.RuntimeConfig
	Router() IRouter
	Metrics() *metrics.Registry
}
