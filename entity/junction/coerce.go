package junction

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// CoerceReading 将外部数据源中的原始读数转换为数值
// 功能：nil转换为未知；整数、浮点数、json.Number直接转换；数值字符串解析后转换
// 返回：数值指针，nil表示未知；无法转换的值返回NaN，表示读数无效
// 说明：±Inf按数值保留，-Inf触发故障判断，+Inf超过AQI阈值
func CoerceReading(raw any) *float64 {
	if raw == nil {
		return nil
	}
	v, ok := coerce(raw)
	if !ok {
		log.Warnf("cannot coerce reading %v (%T), treat as invalid", raw, raw)
		return lo.ToPtr(math.NaN())
	}
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) {
		log.Warnf("NaN reading %v, treat as invalid", raw)
	}
	return v
}

// knownReading 与CoerceReading相同，但无效值视为未知
// 噪声与湿度只参与故障判断，NaN不会触发故障，按未知处理
func knownReading(raw any) *float64 {
	v := CoerceReading(raw)
	if v != nil && math.IsNaN(*v) {
		return nil
	}
	return v
}

func coerce(raw any) (*float64, bool) {
	switch v := raw.(type) {
	case float64:
		return &v, true
	case float32:
		return lo.ToPtr(float64(v)), true
	case int:
		return lo.ToPtr(float64(v)), true
	case int32:
		return lo.ToPtr(float64(v)), true
	case int64:
		return lo.ToPtr(float64(v)), true
	case uint:
		return lo.ToPtr(float64(v)), true
	case uint32:
		return lo.ToPtr(float64(v)), true
	case uint64:
		return lo.ToPtr(float64(v)), true
	case *float64:
		if v == nil {
			return nil, true
		}
		return lo.ToPtr(*v), true
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return nil, false
		}
		return &f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil && !isRangeError(err) {
			return nil, false
		}
		return &f, true
	default:
		return nil, false
	}
}

// 超出float64范围的数值字符串解析为±Inf
func isRangeError(err error) bool {
	var numErr *strconv.NumError
	return errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange)
}
