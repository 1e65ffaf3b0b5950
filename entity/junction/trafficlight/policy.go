// 根据路口环境读数推导信号状态
// 不依赖相位与时长，每次读数变化后整体重新计算
package trafficlight

import (
	"math"

	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
)

const (
	// AQI超过该值的路口视为不可通行
	UnsafeAirQuality = 200.0
)

// Assign 计算路口信号状态
// 功能：按优先级依次判断
// 1. 任一读数为负（传感器故障）-> Unsafe
// 2. AQI未知或恰为0 -> Safe
// 3. AQI不超过200 -> Caution
// 4. 其余（含无效的NaN AQI） -> Unsafe
// 说明：噪声与湿度只参与故障判断，纯函数，对任意输入都有定义
func Assign(r entity.Readings) entity.SignalState {
	if Faulty(r) {
		return entity.SignalUnsafe
	}
	if r.AirQuality == nil || *r.AirQuality == 0 {
		return entity.SignalSafe
	}
	if math.IsNaN(*r.AirQuality) {
		return entity.SignalUnsafe
	}
	if *r.AirQuality <= UnsafeAirQuality {
		return entity.SignalCaution
	}
	return entity.SignalUnsafe
}

// Faulty 是否存在为负的数值读数
func Faulty(r entity.Readings) bool {
	for _, v := range []*float64{r.AirQuality, r.NoiseLevel, r.Humidity} {
		if v != nil && *v < 0 {
			return true
		}
	}
	return false
}
