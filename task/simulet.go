package task

import (
	"context"
	"flag"
	"time"

	"github.com/tsinghua-fib-lab/airsafe-sim/utils/feed"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数，不大于0时关闭")
)

// 读数拉取结果
const (
	refreshOK    = "ok"
	refreshEmpty = "empty"
	refreshError = "error"
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 读数批次：若有待应用的批次，依次覆盖读数、重算所有信号、重置车辆
//
// 说明：批次整体生效，更新阶段不会看到一半新一半旧的信号
func (ctx *Context) prepare() {
	ctx.clock.Tick()

	if interval := int32(*heartBeatInterval); interval > 0 && ctx.clock.InternalStep%interval == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) vehicles: %d",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.vehicleManager.Count(),
		)
	}

	ctx.pendingMtx.Lock()
	batch := ctx.pending
	ctx.pending = nil
	ctx.pendingMtx.Unlock()
	if batch != nil {
		n := ctx.junctionManager.ApplyReadings(batch)
		ctx.junctionManager.RecomputeSignals()
		ctx.vehicleManager.Reset()
		ctx.loaded = true
		log.Debugf("step %d: applied readings of %d junctions, %d vehicles", ctx.clock.InternalStep, n, ctx.vehicleManager.Count())
	}
}

// update 更新阶段，每步执行一次
// 功能：按插入顺序推进所有车辆，提交改道生成与移除
func (ctx *Context) update() {
	ctx.vehicleManager.Update()
}

// Step 执行一步仿真
func (ctx *Context) Step() {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	ctx.prepare()
	ctx.update()
	ctx.metrics.StepsTotal.Inc()
}

// Run 运行仿真循环
// 功能：实时模式下按control.step.interval节拍推进，否则连续推进
// 返回：到达结束步或Close后返回nil，ctx取消时返回ctx.Err()
func (ctx *Context) Run(runCtx context.Context) error {
	var tick <-chan time.Time
	if ctx.runtimeConfig.C.Realtime {
		ticker := time.NewTicker(ctx.runtimeConfig.C.Step.IntervalDuration())
		defer ticker.Stop()
		tick = ticker.C
	}
	log.Infof("job %s: start running", ctx.job)
	for {
		if tick != nil {
			select {
			case <-runCtx.Done():
				return runCtx.Err()
			case <-tick:
			}
		} else if err := runCtx.Err(); err != nil {
			return err
		}
		ctx.Step()
		if ctx.closed.Load() || ctx.clock.Finished() {
			log.Infof("job %s: finished at step %d", ctx.job, ctx.clock.InternalStep)
			return nil
		}
	}
}

// RunFeed 周期性拉取读数
// 功能：立即拉取一次，之后每隔interval拉取一次，结果通过SubmitReadings在下一步生效
// 参数：runCtx-取消后退出，f-数据源，interval-拉取间隔，timeout-单次拉取超时
// 说明：拉取失败或批次为空时记录日志并跳过本周期
func (ctx *Context) RunFeed(runCtx context.Context, f feed.Feed, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ctx.refresh(runCtx, f, timeout)
		select {
		case <-runCtx.Done():
			return
		case <-ticker.C:
		}
	}
}

// refresh 拉取并提交一个批次
func (ctx *Context) refresh(runCtx context.Context, f feed.Feed, timeout time.Duration) {
	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(runCtx, timeout)
	defer cancel()
	records, err := f.Fetch(fetchCtx)
	if err != nil {
		if runCtx.Err() != nil {
			return
		}
		log.Errorf("fetch readings failed: %v", err)
		ctx.metrics.RecordRefresh(refreshError, time.Since(start))
		return
	}
	batch, err := feed.ToBatch(records)
	if err != nil {
		log.Info(err)
		ctx.metrics.RecordRefresh(refreshEmpty, time.Since(start))
		return
	}
	ctx.SubmitReadings(batch)
	ctx.metrics.RecordRefresh(refreshOK, time.Since(start))
}
