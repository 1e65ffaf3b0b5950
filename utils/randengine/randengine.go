// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"flag"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成

	log = logrus.WithField("module", "randengine")
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，支持离散分布与线程安全操作
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution 按给定概率分布生成随机数（非线程安全）
// 功能：根据权重数组生成离散分布的随机数
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
// 算法说明：在[0, 总权重)内取随机数，返回累积权重首次超过它的索引
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// PTrue 以指定概率返回true（非线程安全）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Uniform 在[low, high)内均匀取值（非线程安全）
func (e *Engine) Uniform(low, high float64) float64 {
	return low + (high-low)*e.Float64()
}

// Lock 加锁，用于连续多次调用非线程安全方法
func (e *Engine) Lock() {
	e.mtx.Lock()
}

// Unlock 解锁
func (e *Engine) Unlock() {
	e.mtx.Unlock()
}
