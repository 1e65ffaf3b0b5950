package route

import (
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction/trafficlight"
)

// Router 安全路径搜索
// 功能：在有向路网上做广度优先搜索，绕开不可通行的路口
// 说明：不缓存任何结果，每次查询都读取路口的当前信号与读数
type Router struct {
	junctionManager entity.IJunctionManager
	roadManager     entity.IRoadManager
}

// New 初始化导航服务
func New(junctionManager entity.IJunctionManager, roadManager entity.IRoadManager) *Router {
	return &Router{
		junctionManager: junctionManager,
		roadManager:     roadManager,
	}
}

// passable 路口是否可以作为路径上的后继节点
func passable(j entity.IJunction) bool {
	return j.Signal() != entity.SignalUnsafe && !j.Readings().AirQualityAbove(trafficlight.UnsafeAirQuality)
}

// FindSafePath 搜索从start到end的最短安全路径（按边数）
// 功能：返回包含起终点的路口ID序列
// 参数：start-起点路口ID（不检查其安全性），end-终点路口ID
// 返回：路径与是否找到；起终点相同或任一ID未知时视为未找到
// 算法说明：
// 1. 起点入队并标记已访问
// 2. 出队时若为终点则沿前驱回溯得到路径
// 3. 按道路声明顺序扩展出边，跳过已访问或不可通行的后继，入队时标记已访问
// 4. 队列耗尽则未找到
func (r *Router) FindSafePath(start, end string) ([]string, bool) {
	if start == end {
		return nil, false
	}
	if _, err := r.junctionManager.GetOrError(start); err != nil {
		log.Debugf("find safe path: %v", err)
		return nil, false
	}
	if _, err := r.junctionManager.GetOrError(end); err != nil {
		log.Debugf("find safe path: %v", err)
		return nil, false
	}
	parent := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			return backtrack(parent, start, end), true
		}
		for _, road := range r.roadManager.Outgoing(cur) {
			next := road.To()
			if _, visited := parent[next.ID()]; visited || !passable(next) {
				continue
			}
			parent[next.ID()] = cur
			queue = append(queue, next.ID())
		}
	}
	return nil, false
}

func backtrack(parent map[string]string, start, end string) []string {
	path := []string{end}
	for cur := end; cur != start; {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
