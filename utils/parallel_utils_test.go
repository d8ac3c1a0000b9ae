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
		// Parallel degree is capped at the number of items
		assert.Equal(t, map[int]int{1: 2}, getHisto(2, 32))
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
	{ // Test the buckets tile [0,MaxIndex) in order
		pm := NewPartitionMap(7, 100)
		next := 0
		for np := 0; np < pm.ParallelDegree; np++ {
			kMin, kMax := pm.GetBucketRange(np)
			assert.Equal(t, next, kMin)
			assert.True(t, kMax > kMin)
			next = kMax
		}
		assert.Equal(t, 100, next)
	}
	{ // Test degenerate degrees
		pm := NewPartitionMap(0, 10)
		assert.Equal(t, 1, pm.ParallelDegree)
		pm = NewPartitionMap(4, 0)
		kMin, kMax := pm.GetBucketRange(0)
		assert.Equal(t, 0, kMax-kMin)
	}
	{ // Test Run visits every index exactly once
		var (
			N      = 1000
			counts = make([]int32, N)
			calls  int32
		)
		NewPartitionMap(8, N).Run(func(bn, kMin, kMax int) {
			atomic.AddInt32(&calls, 1)
			for k := kMin; k < kMax; k++ {
				atomic.AddInt32(&counts[k], 1)
			}
		})
		assert.Equal(t, int32(8), calls)
		for k := 0; k < N; k++ {
			assert.Equal(t, int32(1), counts[k])
		}
	}
}
