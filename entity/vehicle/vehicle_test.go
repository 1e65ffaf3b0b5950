package vehicle

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/airsafe-sim/clock"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/road"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/vehicle/route"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/config"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/input"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/metrics"
)

type testContext struct {
	clock   *clock.Clock
	wall    *clock.FakeClock
	jm      *junction.JunctionManager
	rm      *road.RoadManager
	vm      *VehicleManager
	rc      *config.RuntimeConfig
	router  *route.Router
	metrics *metrics.Registry
}

func (c *testContext) Clock() *clock.Clock                      { return c.clock }
func (c *testContext) WallClock() clock.WallClock               { return c.wall }
func (c *testContext) JunctionManager() entity.IJunctionManager { return c.jm }
func (c *testContext) RoadManager() entity.IRoadManager         { return c.rm }
func (c *testContext) VehicleManager() entity.IVehicleManager   { return c.vm }
func (c *testContext) RuntimeConfig() *config.RuntimeConfig     { return c.rc }
func (c *testContext) Router() entity.IRouter                   { return c.router }
func (c *testContext) Metrics() *metrics.Registry               { return c.metrics }

func newTestContext(t *testing.T, in *input.Input) *testContext {
	t.Helper()
	cfg := config.Default()
	ctx := &testContext{
		clock:   clock.New(cfg.Control.Step),
		wall:    clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		rc:      config.NewRuntimeConfig(cfg, in.Sink),
		metrics: metrics.NewRegistry(),
	}
	ctx.jm = junction.NewManager(ctx)
	ctx.jm.Init(in.Junctions)
	ctx.rm = road.NewManager(ctx)
	ctx.rm.Init(in.Roads, ctx.jm)
	ctx.router = route.New(ctx.jm, ctx.rm)
	ctx.vm = NewManager(ctx)
	return ctx
}

func (c *testContext) apply(readings map[string]entity.RawReadings) {
	c.jm.ApplyReadings(readings)
	c.jm.RecomputeSignals()
}

func chain(sink string, ids ...string) *input.Input {
	in := &input.Input{Sink: sink}
	for i, id := range ids {
		in.Junctions = append(in.Junctions, input.Junction{ID: id, X: float64(i)})
		if i > 0 {
			in.Roads = append(in.Roads, input.Road{From: ids[i-1], To: id})
		}
	}
	return in
}

func edges(views []entity.VehicleView) []string {
	return lo.Map(views, func(v entity.VehicleView, _ int) string { return v.From + "->" + v.To })
}

func TestVehicleArrives(t *testing.T) {
	ctx := newTestContext(t, chain("B", "A", "B"))
	ctx.vm.Reset()
	require.Equal(t, 1, ctx.vm.Count())
	v := ctx.vm.Vehicles()[0]
	assert.Equal(t, 0.5, v.Speed)
	assert.Equal(t, 0.0, v.Position)

	ctx.vm.Update()
	assert.InDelta(t, 0.5, ctx.vm.Vehicles()[0].Position, 1e-9)
	assert.InDelta(t, 0.5, ctx.vm.Vehicles()[0].XY.X, 1e-9)
	ctx.vm.Update()
	assert.InDelta(t, 1.0, ctx.vm.Vehicles()[0].Position, 1e-9)
	assert.Equal(t, entity.VehicleMoving, ctx.vm.Vehicles()[0].Status)
	ctx.vm.Update()
	assert.Equal(t, 0, ctx.vm.Count())
	assert.Equal(t, 1.0, testutil.ToFloat64(ctx.metrics.VehiclesRemoved.WithLabelValues(metrics.RemoveArrived)))
	assert.Equal(t, 0.0, testutil.ToFloat64(ctx.metrics.ActiveVehicles))
}

func TestVehicleProgressIsClamped(t *testing.T) {
	ctx := newTestContext(t, chain("B", "A", "B"))
	ctx.rc.C.Vehicle.BaseSpeed = 0.7
	ctx.vm.Reset()
	ctx.vm.Update()
	ctx.vm.Update()
	assert.Equal(t, 1.0, ctx.vm.Vehicles()[0].Position)
}

func TestCautionHalvesSpeed(t *testing.T) {
	ctx := newTestContext(t, chain("C", "A", "B", "C"))
	ctx.apply(map[string]entity.RawReadings{"B": {AirQuality: 120.0}})
	ctx.vm.Reset()
	speeds := lo.SliceToMap(ctx.vm.Vehicles(), func(v entity.VehicleView) (string, float64) {
		return v.From + "->" + v.To, v.Speed
	})
	assert.Equal(t, map[string]float64{"A->B": 0.25, "B->C": 0.5}, speeds)
}

func TestZeroLengthRoad(t *testing.T) {
	in := &input.Input{
		Junctions: []input.Junction{{ID: "A"}, {ID: "B"}},
		Roads:     []input.Road{{From: "A", To: "B"}},
	}
	ctx := newTestContext(t, in)
	ctx.vm.Reset()
	assert.Equal(t, 1.0, ctx.vm.Vehicles()[0].Position)
	ctx.vm.Update()
	assert.Equal(t, 0, ctx.vm.Count())
}

func TestBlockedVehicleReroutes(t *testing.T) {
	ctx := newTestContext(t, input.Default())
	ctx.vm.Reset()
	require.Equal(t, 7, ctx.vm.Count())

	// 读数变化但不重置，正在驶向J2的车辆被阻塞
	ctx.apply(map[string]entity.RawReadings{"J2": {AirQuality: 300.0}})
	ctx.vm.Update()

	got := edges(ctx.vm.Vehicles())
	assert.Equal(t, []string{"J1->J4", "J2->J3", "J2->J5", "J3->J6", "J4->J5", "J5->J6", "J2->J3"}, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(ctx.metrics.RerouteAttempts.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ctx.metrics.VehiclesRemoved.WithLabelValues(metrics.RemoveRerouted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ctx.metrics.VehiclesSpawned.WithLabelValues(metrics.SpawnReroute)))

	// 继任车辆从J2出发，新生成的车辆在下一帧才开始推进
	successor := ctx.vm.Vehicles()[6]
	assert.Equal(t, 0.0, successor.Position)
	assert.Equal(t, entity.VehicleMoving, successor.Status)
	ctx.vm.Update()
	assert.Greater(t, ctx.vm.Vehicles()[6].Position, 0.0)

	// 每辆车只会阻塞一次
	for i := 0; i < 10; i++ {
		ctx.vm.Update()
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(ctx.metrics.RerouteAttempts.WithLabelValues("found")))
	assert.Equal(t, 0.0, testutil.ToFloat64(ctx.metrics.RerouteAttempts.WithLabelValues("not_found")))
}

func TestBlockedVehicleExpiresAfterGrace(t *testing.T) {
	ctx := newTestContext(t, chain("C", "A", "B", "C"))
	ctx.vm.Reset()
	require.Equal(t, 2, ctx.vm.Count())

	ctx.apply(map[string]entity.RawReadings{
		"B": {AirQuality: 300.0},
		"C": {AirQuality: 300.0},
	})
	ctx.vm.Update()
	require.Equal(t, 2, ctx.vm.Count())
	for _, v := range ctx.vm.Vehicles() {
		assert.Equal(t, entity.VehicleBlocked, v.Status)
		assert.Equal(t, 0.0, v.Position)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(ctx.metrics.RerouteAttempts.WithLabelValues("not_found")))

	ctx.wall.Advance(4900 * time.Millisecond)
	ctx.vm.Update()
	assert.Equal(t, 2, ctx.vm.Count())
	assert.Equal(t, 2.0, testutil.ToFloat64(ctx.metrics.RerouteAttempts.WithLabelValues("not_found")))

	ctx.wall.Advance(100 * time.Millisecond)
	ctx.vm.Update()
	assert.Equal(t, 0, ctx.vm.Count())
	assert.Equal(t, 2.0, testutil.ToFloat64(ctx.metrics.VehiclesRemoved.WithLabelValues(metrics.RemoveExpired)))
}

func TestResetCancelsGracePeriod(t *testing.T) {
	ctx := newTestContext(t, chain("C", "A", "B", "C"))
	ctx.vm.Reset()
	ctx.apply(map[string]entity.RawReadings{
		"B": {AirQuality: 300.0},
		"C": {AirQuality: 300.0},
	})
	ctx.vm.Update()
	require.Equal(t, 2, ctx.vm.Count())
	blocked := lo.Map(ctx.vm.Vehicles(), func(v entity.VehicleView, _ int) int32 { return v.ID })

	ctx.wall.Advance(3 * time.Second)
	ctx.vm.Reset()
	ctx.wall.Advance(3 * time.Second)
	ctx.vm.Update()

	assert.Equal(t, 0.0, testutil.ToFloat64(ctx.metrics.VehiclesRemoved.WithLabelValues(metrics.RemoveExpired)))
	assert.Equal(t, 2.0, testutil.ToFloat64(ctx.metrics.VehiclesRemoved.WithLabelValues(metrics.RemoveReset)))
	for _, v := range ctx.vm.Vehicles() {
		assert.NotContains(t, blocked, v.ID)
	}
}

func TestResetSkipsInvalidAirQuality(t *testing.T) {
	ctx := newTestContext(t, chain("C", "A", "B", "C"))
	ctx.apply(map[string]entity.RawReadings{"B": {AirQuality: "n/a"}})
	ctx.vm.Reset()
	assert.Equal(t, 0, ctx.vm.Count())

	ctx.apply(map[string]entity.RawReadings{"B": {AirQuality: 10.0, Humidity: "-Infinity"}})
	ctx.vm.Reset()
	assert.Equal(t, 0, ctx.vm.Count())

	ctx.apply(map[string]entity.RawReadings{"B": {AirQuality: 10.0, Humidity: "n/a"}})
	ctx.vm.Reset()
	assert.Equal(t, []string{"A->B", "B->C"}, edges(ctx.vm.Vehicles()))
}

func TestBlockedAtArrival(t *testing.T) {
	ctx := newTestContext(t, chain("B", "A", "B"))
	ctx.rc.C.Vehicle.BaseSpeed = 1
	ctx.vm.Reset()
	ctx.vm.Update()
	assert.Equal(t, 1.0, ctx.vm.Vehicles()[0].Position)

	// 到达终点时终点变为不可进入，没有去往sink的路径
	ctx.apply(map[string]entity.RawReadings{"B": {AirQuality: 201.0}})
	ctx.vm.Update()
	require.Equal(t, 1, ctx.vm.Count())
	assert.Equal(t, entity.VehicleBlocked, ctx.vm.Vehicles()[0].Status)

	ctx.wall.Advance(5 * time.Second)
	ctx.vm.Update()
	assert.Equal(t, 0, ctx.vm.Count())
}

func TestResetEvictsAll(t *testing.T) {
	ctx := newTestContext(t, input.Default())
	ctx.vm.Reset()
	ctx.vm.Update()
	ctx.apply(map[string]entity.RawReadings{"J5": {AirQuality: 250.0}})
	ctx.vm.Reset()
	assert.Equal(t, []string{"J1->J2", "J1->J4", "J2->J3", "J3->J6"}, edges(ctx.vm.Vehicles()))
	assert.Equal(t, 7.0, testutil.ToFloat64(ctx.metrics.VehiclesRemoved.WithLabelValues(metrics.RemoveReset)))
	for _, v := range ctx.vm.Vehicles() {
		assert.Equal(t, 0.0, v.Position)
	}
}

func TestResetNeverTouchesUnsafe(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	ids := []string{"J1", "J2", "J3", "J4", "J5", "J6"}

	properties.Property("reset spawns only between passable junctions", prop.ForAll(
		func(aqis []float64) bool {
			ctx := newTestContext(t, input.Default())
			readings := make(map[string]entity.RawReadings)
			for i, id := range ids {
				readings[id] = entity.RawReadings{AirQuality: aqis[i]}
			}
			ctx.apply(readings)
			ctx.vm.Reset()
			for _, v := range ctx.vm.Vehicles() {
				from, to := ctx.jm.Get(v.From), ctx.jm.Get(v.To)
				if from.Signal() == entity.SignalUnsafe || to.Signal() == entity.SignalUnsafe {
					return false
				}
				if to.Readings().AirQualityAbove(200) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, gen.Float64Range(-10, 400)),
	))

	properties.TestingRun(t)
}
