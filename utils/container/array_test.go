package container_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/airsafe-sim/utils/container"
)

type testItem struct {
	container.IncrementalItemBase
	name string
}

func names(a *container.IncrementalArray[*testItem]) []string {
	return lo.Map(a.Data(), func(x *testItem, _ int) string { return x.name })
}

func TestArrayInit(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Data())
}

func TestArrayAddIsDeferred(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	a.Add(&testItem{name: "a"})
	a.Add(&testItem{name: "b"})
	assert.Equal(t, 0, a.Len())
	add, remove := a.Pending()
	assert.Equal(t, 2, add)
	assert.Equal(t, 0, remove)

	a.Prepare()
	assert.Equal(t, []string{"a", "b"}, names(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}
}

func TestArrayRemoveKeepsOrder(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	items := lo.Map([]string{"a", "b", "c", "d", "e"}, func(s string, _ int) *testItem {
		return &testItem{name: s}
	})
	for _, x := range items {
		a.Add(x)
	}
	a.Prepare()

	// ^, a, c, e, f, ^
	a.Remove(items[1])
	a.Remove(items[3])
	a.Remove(items[3])
	a.Add(&testItem{name: "f"})
	a.Prepare()
	assert.Equal(t, []string{"a", "c", "e", "f"}, names(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}

	// more removals than additions
	a.Remove(items[0])
	a.Remove(items[2])
	a.Prepare()
	assert.Equal(t, []string{"e", "f"}, names(a))
}

func TestArrayClear(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	a.Add(&testItem{name: "a"})
	a.Prepare()
	a.Add(&testItem{name: "b"})
	a.Clear()
	a.Prepare()
	assert.Equal(t, 0, a.Len())
}
