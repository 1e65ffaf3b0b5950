package trafficlight

import (
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
)

// AlertType 告警对应的读数类型
type AlertType string

const (
	AlertAirQuality AlertType = "AQI"
	AlertNoise      AlertType = "Noise"
	AlertHumidity   AlertType = "Humidity"
)

// Alert 读数告警
type Alert struct {
	Type   AlertType
	Status string  // 目前只有Invalid
	Value  float64 // 触发告警的原始读数
}

const AlertInvalid = "Invalid"

// Alerts 生成路口读数告警
// 功能：每个为负的读数产生一条Invalid告警，顺序固定为AQI、Noise、Humidity
// 返回：告警列表，无告警时为空切片
func Alerts(r entity.Readings) []Alert {
	alerts := make([]Alert, 0)
	check := func(t AlertType, v *float64) {
		if v != nil && *v < 0 {
			alerts = append(alerts, Alert{Type: t, Status: AlertInvalid, Value: *v})
		}
	}
	check(AlertAirQuality, r.AirQuality)
	check(AlertNoise, r.NoiseLevel)
	check(AlertHumidity, r.Humidity)
	return alerts
}

// Band 读数展示等级
type Band int

const (
	BandUnknown Band = iota
	BandGood
	BandModerate
	BandSensitive
	BandUnhealthy
	BandVeryUnhealthy
	BandHazardous
)

var bandNames = []string{"unknown", "good", "moderate", "sensitive", "unhealthy", "very unhealthy", "hazardous"}

func (b Band) String() string {
	if int(b) < 0 || int(b) >= len(bandNames) {
		return "unknown"
	}
	return bandNames[b]
}

// 按上界划分等级，超过最后一个上界取last
func band(v *float64, bounds []float64, bands []Band, last Band) Band {
	if v == nil || *v < 0 {
		return BandUnknown
	}
	for i, b := range bounds {
		if *v <= b {
			return bands[i]
		}
	}
	return last
}

// AQIBand AQI展示等级：≤50/100/150/200/300/>300
func AQIBand(v *float64) Band {
	return band(v,
		[]float64{50, 100, 150, 200, 300},
		[]Band{BandGood, BandModerate, BandSensitive, BandUnhealthy, BandVeryUnhealthy},
		BandHazardous,
	)
}

// NoiseBand 噪声展示等级：≤50/70/80/90/>90
func NoiseBand(v *float64) Band {
	return band(v,
		[]float64{50, 70, 80, 90},
		[]Band{BandGood, BandModerate, BandSensitive, BandUnhealthy},
		BandHazardous,
	)
}

// HumidityBand 湿度展示等级：≤30/60/80/>80
func HumidityBand(v *float64) Band {
	return band(v,
		[]float64{30, 60, 80},
		[]Band{BandGood, BandModerate, BandSensitive},
		BandUnhealthy,
	)
}
