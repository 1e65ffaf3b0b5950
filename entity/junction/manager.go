package junction

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/input"
)

// Junction管理器
type JunctionManager struct {
	ctx entity.ITaskContext

	data      map[string]*Junction
	junctions []*Junction // 按声明顺序
}

// NewManager 创建Junction管理器实例
// 功能：初始化Junction管理器，创建内部数据结构
// 参数：ctx-任务上下文
// 返回：新创建的Junction管理器实例
func NewManager(ctx entity.ITaskContext) *JunctionManager {
	return &JunctionManager{
		ctx:       ctx,
		data:      make(map[string]*Junction),
		junctions: make([]*Junction, 0),
	}
}

// Init 初始化所有Junction
// 功能：根据路网数据初始化所有Junction对象，建立ID索引
// 参数：pbs-Junction数据列表（已校验ID唯一）
// 说明：使用并行处理，结果保持输入顺序
func (m *JunctionManager) Init(pbs []input.Junction) {
	m.junctions = parallel.GoMap(pbs, func(pb input.Junction) *Junction {
		return newJunction(m.ctx, pb)
	})
	m.data = lo.SliceToMap(m.junctions, func(j *Junction) (string, *Junction) {
		return j.id, j
	})
}

// Get 根据ID获取Junction实例
// 功能：通过Junction ID查找对应的Junction对象，如果不存在则panic
// 参数：id-Junction的唯一标识符
// 返回：对应的Junction实例，如果不存在则panic
func (m *JunctionManager) Get(id string) entity.IJunction {
	if junction, ok := m.data[id]; !ok {
		log.Panicf("no id %s in junction data", id)
		return nil
	} else {
		return junction
	}
}

// GetOrError 根据ID获取Junction实例（带错误处理）
// 功能：通过Junction ID查找对应的Junction对象，如果不存在则返回错误
// 参数：id-Junction的唯一标识符
// 返回：Junction实例和错误信息，如果不存在则返回nil和错误
func (m *JunctionManager) GetOrError(id string) (entity.IJunction, error) {
	if junction, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in junction data", id)
	} else {
		return junction, nil
	}
}

// Junctions 按声明顺序返回所有Junction
func (m *JunctionManager) Junctions() []entity.IJunction {
	return lo.Map(m.junctions, func(j *Junction, _ int) entity.IJunction { return j })
}

// ApplyReadings 覆盖路口读数
// 功能：对batch中出现的每个路口，整体覆盖三项读数，原始值经CoerceReading转换
// 无效AQI保留为NaN（不可通行），无效噪声与湿度视为未知
// 参数：readings-路口ID到原始读数的映射
// 返回：实际更新的路口数
// 说明：batch中未出现的路口保留原读数，未知路口ID忽略；信号不在此处更新，需调用RecomputeSignals
func (m *JunctionManager) ApplyReadings(readings map[string]entity.RawReadings) int {
	count := 0
	for id, raw := range readings {
		j, ok := m.data[id]
		if !ok {
			log.Debugf("ignore readings of unknown junction %s", id)
			continue
		}
		j.setReadings(entity.Readings{
			AirQuality: CoerceReading(raw.AirQuality),
			NoiseLevel: knownReading(raw.NoiseLevel),
			Humidity:   knownReading(raw.Humidity),
		})
		count++
	}
	return count
}

// RecomputeSignals 根据读数重新计算所有路口信号
// 说明：每个路口只写自己的信号缓存，可以并行
func (m *JunctionManager) RecomputeSignals() {
	parallel.GoFor(m.junctions, func(j *Junction) { j.recompute() })
}
