package monitoring

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/xpense/xpense-server/internal/services"
)

const (
	sampleInterval   = 1 * time.Minute
	memoryAlertLimit = 90.0 // percent
	alertCooldown    = 30 * time.Minute
)

// StatUpdater periodically samples host CPU and memory and records a
// system event when memory pressure is sustained.
type StatUpdater struct {
	events    services.EventServiceProvider
	ticker    *time.Ticker
	done      chan bool
	lastAlert time.Time
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(events services.EventServiceProvider) *StatUpdater {
	return &StatUpdater{
		events: events,
		done:   make(chan bool),
	}
}

// Run starts the periodic sampling.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(sampleInterval)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.sample()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.sample()
		}
	}
}

// Stop halts the periodic sampling.
func (su *StatUpdater) Stop() {
	su.done <- true
}

func (su *StatUpdater) sample() {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Error().Err(err).Msg("StatUpdater: failed to read memory stats")
		return
	}

	cpuPercent := 0.0
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}

	log.Debug().
		Float64("cpu_percent", cpuPercent).
		Float64("mem_percent", vm.UsedPercent).
		Msg("Host stats sampled")

	if vm.UsedPercent > memoryAlertLimit && time.Since(su.lastAlert) > alertCooldown {
		su.lastAlert = time.Now()
		msg := fmt.Sprintf("host memory usage at %.1f%%", vm.UsedPercent)
		if err := su.events.CreateEvent("system.alert.memory", "warn", msg, nil); err != nil {
			log.Error().Err(err).Msg("StatUpdater: failed to record alert event")
		}
	}
}
