package road

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
)

// Road 有向道路
// 功能：连接两个路口，定义路网邻接关系，初始化后不变
type Road struct {
	ctx entity.ITaskContext

	id       int32
	from, to entity.IJunction
	line     []geometry.Point // 起点到终点的折线
	lengths  []float64        // 折线累计长度
}

// newRoad 创建并初始化一个新的Road实例
// 功能：根据声明顺序号与起终点路口创建Road对象，计算长度
// 参数：ctx-任务上下文，id-声明顺序号，from-起点路口，to-终点路口
// 返回：初始化完成的Road实例
func newRoad(ctx entity.ITaskContext, id int32, from, to entity.IJunction) *Road {
	r := &Road{
		ctx:  ctx,
		id:   id,
		from: from,
		to:   to,
		line: []geometry.Point{from.Position(), to.Position()},
	}
	r.lengths = geometry.GetPolylineLengths2D(r.line)
	return r
}

func (r *Road) String() string {
	return fmt.Sprintf("Road %d(%s->%s)", r.id, r.from.ID(), r.to.ID())
}

// ID 获取Road在声明顺序中的序号
func (r *Road) ID() int32 {
	return r.id
}

// From 获取起点路口
func (r *Road) From() entity.IJunction {
	return r.from
}

// To 获取终点路口
func (r *Road) To() entity.IJunction {
	return r.to
}

// Length 获取道路长度
func (r *Road) Length() float64 {
	return r.lengths[len(r.lengths)-1]
}

// PositionAt 获取距起点s处的坐标
// 功能：在起终点之间线性插值，s超出范围时截断
// 说明：长度为0的道路返回终点坐标
func (r *Road) PositionAt(s float64) geometry.Point {
	length := r.Length()
	if length <= 0 {
		return r.line[len(r.line)-1]
	}
	s = lo.Clamp(s, 0, length)
	return geometry.Blend(r.line[0], r.line[1], s/length)
}
