// 路口读数数据源，周期性拉取 junctionId -> 读数 的批次
package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/config"
)

var (
	log = logrus.WithField("module", "feed")

	ErrUnknownFeedType = errors.New("unknown feed type")
	ErrNoReadings      = errors.New("no readings loaded yet")
)

// Record 一条路口读数，字段保留原始类型，由路口管理器统一转换
type Record struct {
	ID         string `json:"id" bson:"id"`
	AQI        any    `json:"aqi" bson:"aqi"`
	NoiseLevel any    `json:"noiseLevel" bson:"noiseLevel"`
	Humidity   any    `json:"humidity" bson:"humidity"`
}

// Feed 读数数据源
type Feed interface {
	// Fetch 拉取一个批次，失败时返回error，本周期不更新
	Fetch(ctx context.Context) ([]Record, error)
	// Close 释放连接
	Close(ctx context.Context) error
}

// ToBatch 将记录转换为路口ID到原始读数的映射
// 说明：同一批次中ID重复时以最后一条为准；空批次返回ErrNoReadings
func ToBatch(records []Record) (map[string]entity.RawReadings, error) {
	if len(records) == 0 {
		return nil, ErrNoReadings
	}
	return lo.SliceToMap(records, func(r Record) (string, entity.RawReadings) {
		return r.ID, entity.RawReadings{
			AirQuality: r.AQI,
			NoiseLevel: r.NoiseLevel,
			Humidity:   r.Humidity,
		}
	}), nil
}

// New 根据配置创建数据源
// 参数：ctx-上下文，c-配置，junctionIDs-路网中的路口ID（synthetic数据源使用）
// 返回：数据源与错误
func New(ctx context.Context, c config.Config, junctionIDs []string) (Feed, error) {
	switch c.Feed.Type {
	case config.FeedHTTP:
		return NewHTTP(c.Feed.URL, c.Feed.TimeoutDuration()), nil
	case config.FeedMongo:
		return NewMongo(ctx, c.Input.URI, c.Feed.DB, c.Feed.Col)
	case config.FeedSynthetic:
		return NewSynthetic(c.Feed.Seed, junctionIDs), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeedType, c.Feed.Type)
	}
}
