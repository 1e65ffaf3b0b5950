package clock

import (
	"sync"
	"time"
)

// WallClock 墙上时钟接口
// 功能：为车辆阻塞宽限期提供可注入的时间来源
type WallClock interface {
	Now() time.Time
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FakeClock 手动推进的时钟，测试与回放使用
type FakeClock struct {
	mtx sync.Mutex
	now time.Time
}

// NewFakeClock 以指定时刻创建手动时钟
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.now
}

// Advance 向前推进d
func (f *FakeClock) Advance(d time.Duration) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.now = f.now.Add(d)
}
