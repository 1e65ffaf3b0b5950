package feed

import (
	"context"

	"github.com/tsinghua-fib-lab/airsafe-sim/utils/randengine"
)

// 各类读数状况的权重：良好、轻度污染、重度污染、AQI缺失、传感器故障
var syntheticWeights = []float64{0.45, 0.3, 0.15, 0.05, 0.05}

const (
	syntheticGood = iota
	syntheticModerate
	syntheticSevere
	syntheticMissing
	syntheticFault
)

// SyntheticFeed 随机生成读数，无后端时用于演示
// 说明：同一种子生成的批次序列相同
type SyntheticFeed struct {
	junctionIDs []string
	generator   *randengine.Engine
}

// NewSynthetic 创建随机数据源
// 参数：seed-随机种子，junctionIDs-需要生成读数的路口
func NewSynthetic(seed uint64, junctionIDs []string) *SyntheticFeed {
	return &SyntheticFeed{
		junctionIDs: junctionIDs,
		generator:   randengine.New(seed),
	}
}

// Fetch 为每个路口生成一条读数
func (f *SyntheticFeed) Fetch(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g := f.generator
	g.Lock()
	defer g.Unlock()
	records := make([]Record, 0, len(f.junctionIDs))
	for _, id := range f.junctionIDs {
		r := Record{
			ID:         id,
			NoiseLevel: g.Uniform(35, 95),
			Humidity:   g.Uniform(20, 90),
		}
		switch g.DiscreteDistribution(syntheticWeights) {
		case syntheticGood:
			if g.PTrue(0.2) {
				r.AQI = 0.0
			} else {
				r.AQI = g.Uniform(1, 100)
			}
		case syntheticModerate:
			r.AQI = g.Uniform(100, 200)
		case syntheticSevere:
			r.AQI = g.Uniform(201, 400)
		case syntheticMissing:
		case syntheticFault:
			r.AQI = g.Uniform(1, 100)
			r.Humidity = -1.0
		}
		records = append(records, r)
	}
	return records, nil
}

func (f *SyntheticFeed) Close(context.Context) error {
	return nil
}
