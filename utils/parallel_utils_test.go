package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				histo[kMax-kMin]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // More CPUs than faces collapses to one face per bucket
		pm := NewPartitionMapForCPUs(64, 3)
		assert.Equal(t, 3, pm.ParallelDegree)
		pm = NewPartitionMapForCPUs(0, 0)
		assert.Equal(t, 1, pm.ParallelDegree)
	}
}

func TestPartitionMap_Parallel(t *testing.T) {
	for _, NP := range []int{1, 3, 8} {
		var (
			pm      = NewPartitionMap(NP, 101)
			visited = make([]int32, 101)
			calls   int32
		)
		pm.Parallel(func(np, kMin, kMax int) {
			atomic.AddInt32(&calls, 1)
			for k := kMin; k < kMax; k++ {
				visited[k]++
			}
		})
		assert.Equal(t, int32(NP), calls)
		for k := range visited {
			assert.Equal(t, int32(1), visited[k], "index %d", k)
		}
	}
}
