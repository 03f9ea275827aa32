package devices

import (
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/mem"
)

// Memory publishes `mem` and `swap`, used percent of main memory and swap.
type Memory struct {
	readings
}

func LocalMemory() *Memory {
	return &Memory{readings: newReadings()}
}

func (m *Memory) Update() error {
	mainMemory, err := mem.VirtualMemory()
	if err != nil {
		return errors.Wrap(err, "memory")
	}
	m.set("mem", mainMemory.UsedPercent)
	// machines without swap report an error on some platforms
	if swap, err := mem.SwapMemory(); err == nil {
		m.set("swap", swap.UsedPercent)
	}
	return nil
}
