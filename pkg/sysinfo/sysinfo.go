// Package sysinfo captures a snapshot of the analyzing host, embedded in
// reports so results can be traced back to the machine they were produced on.
package sysinfo

import (
	"os"
	"runtime"

	"github.com/docker/go-units"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/sirupsen/logrus"
)

// Host describes the machine an analysis ran on.
type Host struct {
	Hostname    string `json:"hostname,omitempty"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	CPUModel    string `json:"cpu_model,omitempty"`
	CPUCores    int    `json:"cpu_cores"`
	MemoryBytes uint64 `json:"memory_bytes,omitempty"`
}

// Collect gathers the host snapshot. Collection is best-effort: fields that
// cannot be read are left empty and logged at debug level.
func Collect(log logrus.FieldLogger) *Host {
	host := &Host{
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		CPUCores: runtime.NumCPU(),
	}

	if name, err := os.Hostname(); err == nil {
		host.Hostname = name
	}

	if infos, err := cpu.Info(); err != nil {
		log.WithError(err).Debug("Failed to read CPU info")
	} else if len(infos) > 0 {
		host.CPUModel = infos[0].ModelName
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		log.WithError(err).Debug("Failed to read memory info")
	} else {
		host.MemoryBytes = vm.Total
	}

	log.WithFields(logrus.Fields{
		"cpu":    host.CPUModel,
		"cores":  host.CPUCores,
		"memory": units.BytesSize(float64(host.MemoryBytes)),
	}).Debug("Host snapshot collected")

	return host
}
