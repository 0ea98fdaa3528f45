package monitoring

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of host resource usage.
type Snapshot struct {
	CPUPercent     float64 `json:"cpuPercent"`
	MemUsedPercent float64 `json:"memUsedPercent"`
	MemUsedMB      uint64  `json:"memUsedMb"`
	MemTotalMB     uint64  `json:"memTotalMb"`
}

// TakeSnapshot collects current CPU and memory usage for the host.
func TakeSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return snap, err
	}
	if len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return snap, err
	}
	snap.MemUsedPercent = vm.UsedPercent
	snap.MemUsedMB = vm.Used / 1024 / 1024
	snap.MemTotalMB = vm.Total / 1024 / 1024

	return snap, nil
}
