package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// InputExtensions lists the file types the tool can read.
var InputExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".pdf"}

// IsInput reports whether name has a supported extension.
func IsInput(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range InputExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FindLatestInput returns the most recently modified supported file in dir.
// Files produced by earlier runs (*_saliency.*) are skipped.
func FindLatestInput(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !IsInput(f.Name()) {
			continue
		}
		if strings.Contains(strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())), "_saliency") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no images or PDFs found in %s", dir)
	}

	return latestFile, nil
}

// DefaultWorkers returns the number of logical CPUs.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// HostStats is a snapshot of memory usage.
type HostStats struct {
	TotalMemory     uint64  // bytes
	AvailableMemory uint64  // bytes
	UsedPercent     float64 // host-wide
	ProcessRSS      uint64  // bytes
	Goroutines      int
}

// ReadHostStats collects host and process memory figures. Fields that cannot
// be read on the current platform are left zero.
func ReadHostStats() (HostStats, error) {
	stats := HostStats{Goroutines: runtime.NumGoroutine()}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return stats, fmt.Errorf("virtual memory: %w", err)
	}
	stats.TotalMemory = vm.Total
	stats.AvailableMemory = vm.Available
	stats.UsedPercent = vm.UsedPercent

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats, fmt.Errorf("process: %w", err)
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return stats, fmt.Errorf("process memory: %w", err)
	}
	stats.ProcessRSS = info.RSS

	return stats, nil
}
