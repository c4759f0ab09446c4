package main

import (
	"fmt"
	"log"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"

	"github.com/Schera-ole/instrumental/internal/config"
	"github.com/Schera-ole/instrumental/internal/metrics"
	"github.com/Schera-ole/instrumental/internal/reporter"
	"github.com/Schera-ole/instrumental/internal/sender"
)

const pollInterval = 2 * time.Second

// runtimeMetricNames lists the MemStats fields reported as gauges.
var runtimeMetricNames = []string{
	"Alloc",
	"BuckHashSys",
	"Frees",
	"GCSys",
	"HeapAlloc",
	"HeapIdle",
	"HeapInuse",
	"HeapObjects",
	"HeapReleased",
	"HeapSys",
	"LastGC",
	"Lookups",
	"MCacheInuse",
	"MCacheSys",
	"MSpanInuse",
	"MSpanSys",
	"Mallocs",
	"NextGC",
	"NumForcedGC",
	"NumGC",
	"OtherSys",
	"PauseTotalNs",
	"StackInuse",
	"StackSys",
	"Sys",
	"TotalAlloc",
}

// sampler caches one poll's worth of readings so gauge funcs stay cheap at
// report time.
type sampler struct {
	mu       sync.RWMutex
	memStats runtime.MemStats
	sysTotal uint64
	sysFree  uint64
	cpuUtil  []float64
}

func (s *sampler) poll(logger *zap.SugaredLogger) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	var total, free uint64
	if vm, err := mem.VirtualMemory(); err != nil {
		logger.Warnf("error getting memory stats: %v", err)
	} else {
		total, free = vm.Total, vm.Free
	}

	util, err := cpu.Percent(0, true)
	if err != nil {
		logger.Warnf("error getting cpu info: %v", err)
	}

	s.mu.Lock()
	s.memStats = stats
	s.sysTotal = total
	s.sysFree = free
	s.cpuUtil = util
	s.mu.Unlock()
}

// runtimeGauge reads one MemStats field from the cached sample by name.
func (s *sampler) runtimeGauge(name string) metrics.GaugeFunc {
	return func() metrics.GaugeValue {
		s.mu.RLock()
		defer s.mu.RUnlock()
		field := reflect.ValueOf(s.memStats).FieldByName(name)
		switch field.Kind() {
		case reflect.Uint32, reflect.Uint64:
			return metrics.Float64Value(float64(field.Uint()))
		case reflect.Float64:
			return metrics.Float64Value(field.Float())
		default:
			return metrics.GaugeValue{}
		}
	}
}

func (s *sampler) register(reg *metrics.Registry) {
	for _, name := range runtimeMetricNames {
		reg.RegisterGauge(name, s.runtimeGauge(name))
	}
	reg.RegisterGauge("TotalMemory", metrics.GaugeFunc(func() metrics.GaugeValue {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return metrics.Float64Value(float64(s.sysTotal))
	}))
	reg.RegisterGauge("FreeMemory", metrics.GaugeFunc(func() metrics.GaugeValue {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return metrics.Float64Value(float64(s.sysFree))
	}))
	for i := 0; i < runtime.NumCPU(); i++ {
		idx := i
		reg.RegisterGauge(fmt.Sprintf("CPUutilization%d", idx), metrics.GaugeFunc(func() metrics.GaugeValue {
			s.mu.RLock()
			defer s.mu.RUnlock()
			if idx >= len(s.cpuUtil) {
				return metrics.GaugeValue{}
			}
			return metrics.Float64Value(s.cpuUtil[idx])
		}))
	}
}

func main() {
	agentConfig, err := config.NewAgentConfig()
	if err != nil {
		log.Fatal("Failed to parse configuration: ", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	host, portStr, err := net.SplitHostPort(agentConfig.Address)
	if err != nil {
		logger.Fatalf("invalid backend address %q: %v", agentConfig.Address, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		logger.Fatalf("invalid backend port %q: %v", portStr, err)
	}

	registry := metrics.NewRegistry()

	pollCount := metrics.NewCounter()
	registry.RegisterCounter("PollCount", pollCount)
	registry.RegisterGauge("RandomValue", metrics.GaugeFunc(func() metrics.GaugeValue {
		return metrics.Float64Value(rand.Float64())
	}))

	samples := &sampler{}
	samples.poll(logger)
	samples.register(registry)

	client := sender.NewClient(agentConfig.APIKey, host, port, nil)
	rep := reporter.New(client, reporter.Options{
		Prefix: agentConfig.Prefix,
		Logger: logger,
	})

	// An out-of-band annotation marks the agent start in the backend.
	if err := client.Connect(); err != nil {
		logger.Warnf("initial connect failed: %v", err)
	} else if err := client.Notice("agent started"); err == nil {
		client.Flush()
	}

	scheduler := reporter.NewScheduler(rep, registry,
		time.Duration(agentConfig.ReportInterval)*time.Second, logger)
	scheduler.Start()

	stopPolling := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopPolling:
				return
			case <-ticker.C:
				samples.poll(logger)
				pollCount.Inc()
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	close(stopPolling)
	scheduler.Stop()
}
