package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 车辆生成与移除原因
const (
	SpawnReset   = "reset"
	SpawnReroute = "reroute"

	RemoveArrived  = "arrived"
	RemoveRerouted = "rerouted"
	RemoveExpired  = "expired"
	RemoveReset    = "reset"
)

// Registry 仿真指标
// 功能：使用独立的prometheus.Registry收集指标，避免污染全局默认注册表
type Registry struct {
	StepsTotal          prometheus.Counter
	ActiveVehicles      prometheus.Gauge
	VehiclesSpawned     *prometheus.CounterVec
	VehiclesRemoved     *prometheus.CounterVec
	RerouteAttempts     *prometheus.CounterVec
	RouteQueries        *prometheus.CounterVec
	JunctionSignal      *prometheus.GaugeVec
	JunctionAirQuality  *prometheus.GaugeVec
	ReadingsRefreshes   *prometheus.CounterVec
	ReadingsRefreshTime prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry 创建并注册全部指标
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.StepsTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "airsafe_steps_total",
		Help: "Number of simulation frames executed",
	})
	r.ActiveVehicles = f.NewGauge(prometheus.GaugeOpts{
		Name: "airsafe_active_vehicles",
		Help: "Vehicles currently in the active set",
	})
	r.VehiclesSpawned = f.NewCounterVec(prometheus.CounterOpts{
		Name: "airsafe_vehicles_spawned_total",
		Help: "Vehicles spawned, by reason",
	}, []string{"reason"})
	r.VehiclesRemoved = f.NewCounterVec(prometheus.CounterOpts{
		Name: "airsafe_vehicles_removed_total",
		Help: "Vehicles evicted from the active set, by reason",
	}, []string{"reason"})
	r.RerouteAttempts = f.NewCounterVec(prometheus.CounterOpts{
		Name: "airsafe_reroute_attempts_total",
		Help: "Reroute attempts of blocked vehicles, by result",
	}, []string{"result"})
	r.RouteQueries = f.NewCounterVec(prometheus.CounterOpts{
		Name: "airsafe_route_queries_total",
		Help: "Safe path queries, by result",
	}, []string{"result"})
	r.JunctionSignal = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "airsafe_junction_signal",
		Help: "Junction signal state (0 safe, 1 caution, 2 unsafe)",
	}, []string{"junction"})
	r.JunctionAirQuality = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "airsafe_junction_air_quality",
		Help: "Last known air quality index per junction",
	}, []string{"junction"})
	r.ReadingsRefreshes = f.NewCounterVec(prometheus.CounterOpts{
		Name: "airsafe_readings_refreshes_total",
		Help: "Reading feed pulls, by status",
	}, []string{"status"})
	r.ReadingsRefreshTime = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "airsafe_readings_refresh_duration_seconds",
		Help:    "Reading feed pull latency",
		Buckets: prometheus.DefBuckets,
	})
	return r
}

// Registerer 返回底层注册表，供外部追加指标
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer 返回底层注册表，供测试读取
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler /metrics的HTTP处理器
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
