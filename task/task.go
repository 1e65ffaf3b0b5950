package task

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/airsafe-sim/clock"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/road"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/vehicle/route"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/config"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/input"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/metrics"
)

var log = logrus.WithField("module", "task")

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：Step持有写锁，查询接口持有读锁，外部读数通过SubmitReadings缓冲后在下一步生效
type Context struct {

	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 墙上时钟，用于车辆阻塞宽限期
	wall clock.WallClock

	// Road管理器
	roadManager *road.RoadManager
	// Junction管理器
	junctionManager *junction.JunctionManager
	// Vehicle管理器
	vehicleManager *vehicle.VehicleManager

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 导航服务
	router *route.Router
	// 监控指标
	metrics *metrics.Registry

	// 用于初始化的输入
	initRes *input.Input

	// 仿真状态锁
	mtx sync.RWMutex
	// 是否已经应用过读数
	loaded bool

	// 待应用的读数批次
	pending    map[string]entity.RawReadings
	pendingMtx sync.Mutex
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：
//   - job: 任务名称
//   - c: 配置对象
//   - in: 已加载并校验的路网
//   - wall: 墙上时钟，为nil时实时模式使用系统时钟，否则使用仿真时钟
//   - registry: 监控指标，为nil时新建
//
// 返回：初始化完成的Context实例
func NewContext(
	job string,
	c config.Config,
	in *input.Input,
	wall clock.WallClock,
	registry *metrics.Registry,
) *Context {
	ctx := &Context{
		job:     job,
		initRes: in,
		metrics: registry,
	}
	ctx.clock = clock.New(c.Control.Step)
	if wall == nil {
		if c.Control.Realtime {
			wall = clock.SystemClock{}
		} else {
			wall = ctx.clock
		}
	}
	ctx.wall = wall
	if ctx.metrics == nil {
		ctx.metrics = metrics.NewRegistry()
	}

	ctx.runtimeConfig = config.NewRuntimeConfig(c, in.Sink)

	// 新建各类模拟对象
	ctx.junctionManager = junction.NewManager(ctx)
	ctx.roadManager = road.NewManager(ctx)
	ctx.vehicleManager = vehicle.NewManager(ctx)

	ctx.init()
	return ctx
}

// init 按依赖顺序初始化路口、道路与导航
func (ctx *Context) init() {
	ctx.clock.Init()

	initRes := ctx.initRes
	log.Infof("Junction: %v", len(initRes.Junctions))
	log.Infof("Road: %v", len(initRes.Roads))
	log.Infof("Sink: %v", ctx.runtimeConfig.C.Sink)

	ctx.junctionManager.Init(initRes.Junctions)
	ctx.roadManager.Init(initRes.Roads, ctx.junctionManager)
	ctx.router = route.New(ctx.junctionManager, ctx.roadManager)

	if _, err := ctx.junctionManager.GetOrError(ctx.runtimeConfig.C.Sink); err != nil {
		log.Warnf("sink %s is not a junction, rerouting will always fail", ctx.runtimeConfig.C.Sink)
	}
}

func (ctx *Context) Job() string {
	return ctx.job
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) WallClock() clock.WallClock {
	return ctx.wall
}

func (ctx *Context) RoadManager() entity.IRoadManager {
	return ctx.roadManager
}

func (ctx *Context) JunctionManager() entity.IJunctionManager {
	return ctx.junctionManager
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Router() entity.IRouter {
	return ctx.router
}

func (ctx *Context) Metrics() *metrics.Registry {
	return ctx.metrics
}

// Close 标记任务关闭，Run循环在下一步退出
func (ctx *Context) Close() {
	ctx.closed.Store(true)
}
