package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"chat-hub/contract"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker periodically logs process health together with the hub
// presence gauge. It is the operational heartbeat of the server: one line
// per interval with CPU, RSS and the number of bound connections.
type TelemetryWorker struct {
	log            *slog.Logger
	registry       contract.IRegistry
	metricInterval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, registry contract.IRegistry,
	metricInterval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		registry:       registry,
		metricInterval: metricInterval,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cpu, ram, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("Telemetry",
				"online_users", w.registry.Online(),
				"cpu_percent", cpu,
				"ram_bytes", ram,
				"pid_status", status,
			)
		}
	}
}

func selfStats(p *process.Process) (float64, uint64, string, error) {
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return cpuPercent, memInfo.RSS, status, nil
}
