package metrics

import "time"

// RecordSpawn 记录车辆生成
func (r *Registry) RecordSpawn(reason string) {
	r.VehiclesSpawned.WithLabelValues(reason).Inc()
}

// RecordRemove 记录车辆移除
func (r *Registry) RecordRemove(reason string) {
	r.VehiclesRemoved.WithLabelValues(reason).Inc()
}

// RecordReroute 记录改道结果
func (r *Registry) RecordReroute(ok bool) {
	r.RerouteAttempts.WithLabelValues(result(ok)).Inc()
}

// RecordRouteQuery 记录外部路径查询结果
func (r *Registry) RecordRouteQuery(ok bool) {
	r.RouteQueries.WithLabelValues(result(ok)).Inc()
}

// SetJunction 更新路口信号与AQI，aqi为nil时删除AQI序列
func (r *Registry) SetJunction(id string, signal int32, aqi *float64) {
	r.JunctionSignal.WithLabelValues(id).Set(float64(signal))
	if aqi == nil {
		r.JunctionAirQuality.DeleteLabelValues(id)
	} else {
		r.JunctionAirQuality.WithLabelValues(id).Set(*aqi)
	}
}

// RecordRefresh 记录一次读数拉取
func (r *Registry) RecordRefresh(status string, duration time.Duration) {
	r.ReadingsRefreshes.WithLabelValues(status).Inc()
	r.ReadingsRefreshTime.Observe(duration.Seconds())
}

func result(ok bool) string {
	if ok {
		return "found"
	}
	return "not_found"
}
