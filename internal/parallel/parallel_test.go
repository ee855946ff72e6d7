package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_VisitsEveryIndexOnce(t *testing.T) {
	configs := map[string]Config{
		"default":    DefaultConfig(),
		"sequential": Sequential(),
		"forced":     {Enabled: true, NumWorkers: 3, MinChunkSize: 1},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			const n = 1000
			counts := make([]int32, n)
			For(n, cfg, func(i int) {
				atomic.AddInt32(&counts[i], 1)
			})
			for i, c := range counts {
				assert.Equal(t, int32(1), c, "index %d", i)
			}
		})
	}
}

func TestFor_Empty(t *testing.T) {
	called := false
	For(0, DefaultConfig(), func(int) { called = true })
	assert.False(t, called)
}
