package analyzer

import (
	"runtime"
	"sync"
)

// parallelThreshold is the pixel count below which strips run sequentially
const parallelThreshold = 100000

// rowStrip is a half-open range of rows [Start, End)
type rowStrip struct {
	Start int
	End   int
}

// partitionRows splits height rows into contiguous strips, one per CPU for large
// images and a single strip otherwise.
func partitionRows(width, height, workers int) []rowStrip {
	if height <= 0 || width <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if width*height < parallelThreshold {
		workers = 1
	}
	workers = min(workers, height)
	rowsPerWorker := (height + workers - 1) / workers // ceil division

	strips := make([]rowStrip, 0, workers)
	for start := 0; start < height; start += rowsPerWorker {
		strips = append(strips, rowStrip{Start: start, End: min(start+rowsPerWorker, height)})
	}
	return strips
}

// runStrips calls fn once per strip and waits for all of them. fn receives the
// strip index so callers can write partial results without locking.
func runStrips(strips []rowStrip, fn func(i int, s rowStrip)) {
	if len(strips) == 1 {
		fn(0, strips[0])
		return
	}
	var wg sync.WaitGroup
	for i, s := range strips {
		wg.Add(1)
		go func(i int, s rowStrip) {
			defer wg.Done()
			fn(i, s)
		}(i, s)
	}
	wg.Wait()
}
