package container

import (
	"sync"
)

// IIncrementalItem 支持增量更新的元素接口
// 功能：元素记录自己在数组中的位置，删除时据此定位
type IIncrementalItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类
// 功能：提供增量元素的基础实现，可作为嵌入字段快速实现IIncrementalItem接口
type IncrementalItemBase struct {
	index int // 元素在数组中的索引
}

// Index 获取元素的索引
func (b *IncrementalItemBase) Index() int {
	return b.index
}

// SetIndex 设置元素的索引
func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组
// 功能：在一帧内累积添加与删除，Prepare时统一生效
// 说明：与按位置回填的实现不同，本实现在删除后保持剩余元素的相对顺序，
// 新元素按添加顺序追加到末尾，从而保证遍历顺序稳定可复现
type IncrementalArray[T IIncrementalItem] struct {
	data        []T        // 主数据数组
	add         []T        // 待添加的元素列表
	remove      []T        // 待删除的元素列表
	addMutex    sync.Mutex // 添加操作的互斥锁
	removeMutex sync.Mutex // 删除操作的互斥锁
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:   make([]T, 0),
		add:    make([]T, 0),
		remove: make([]T, 0),
	}
}

// Len 获取当前数组长度（不含未生效的增删）
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 获取已生效的数据
// 说明：返回内部切片，调用方在Prepare之前只读遍历
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.addMutex.Lock()
	defer a.addMutex.Unlock()
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
// 说明：只能删除已生效的元素，同一元素重复删除只生效一次
func (a *IncrementalArray[T]) Remove(value T) {
	a.removeMutex.Lock()
	defer a.removeMutex.Unlock()
	a.remove = append(a.remove, value)
}

// Pending 未生效的添加与删除数量
func (a *IncrementalArray[T]) Pending() (add, remove int) {
	return len(a.add), len(a.remove)
}

// Prepare 执行增量操作
// 算法说明：
// 1. 根据待删除元素的索引标记删除位置
// 2. 按原顺序压缩保留的元素
// 3. 将待添加元素按添加顺序追加到末尾
// 4. 重新设置所有元素的索引，清空待处理列表
func (a *IncrementalArray[T]) Prepare() {
	if len(a.add) == 0 && len(a.remove) == 0 {
		return
	}
	removed := make([]bool, len(a.data))
	for _, x := range a.remove {
		ind := x.Index()
		if ind < 0 || ind >= len(a.data) {
			continue
		}
		removed[ind] = true
	}
	kept := a.data[:0]
	for i, x := range a.data {
		if !removed[i] {
			kept = append(kept, x)
		}
	}
	// 清理尾部引用，避免内存泄漏
	var zero T
	for i := len(kept); i < len(a.data); i++ {
		a.data[i] = zero
	}
	a.data = append(kept, a.add...)
	for i, x := range a.data {
		x.SetIndex(i)
	}
	a.add = []T{}
	a.remove = []T{}
}

// Clear 立即清空全部元素与待处理操作
func (a *IncrementalArray[T]) Clear() {
	a.data = make([]T, 0)
	a.add = []T{}
	a.remove = []T{}
}
