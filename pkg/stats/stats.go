package stats

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

// EnableMemoryStatistics enables a go routine that periodically prints memory
// usage of the go process, until the given context is canceled.
func EnableMemoryStatistics(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	bytesTotalAllocated := memStats.TotalAlloc
	bytesHeapAllocated := memStats.HeapAlloc
	countMalloc := memStats.Mallocs
	countFrees := memStats.Frees

	log.Infof(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(bytesTotalAllocated),
		toGigabytes(bytesHeapAllocated),
		countMalloc,
		countFrees,
	)
}

// DumpPrometheusDefaults writes the metrics of the default Prometheus
// gatherer to the file at the given path.
func DumpPrometheusDefaults(path string) error {
	file, err := os.OpenFile(
		path,
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(file)

	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		_, err := writer.WriteString(v.String() + "\n")
		if err != nil {
			return err
		}
	}

	writer.Flush()
	file.Close()

	return nil
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Infof("Num of go routines: %v\n", runtime.NumGoroutine())
}
