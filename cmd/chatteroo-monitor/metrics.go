package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics is the monitor's tiny observability surface - a handful of
// counters and a gauge exposed on /metrics, the same shape as the
// source pack's standalone exporter binaries. None of this lives in
// the core library; the core stays a pure value-transforming package.
type metrics struct {
	framesDecoded prometheus.Counter
	crcMismatches prometheus.Counter
	decodeErrors  prometheus.Counter
	stationsHeard prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		framesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatteroo_monitor_frames_decoded_total",
			Help: "Transmissions successfully unwrapped and decoded.",
		}),
		crcMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatteroo_monitor_crc_mismatches_total",
			Help: "Frames discarded for failing the channel integrity check.",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatteroo_monitor_decode_errors_total",
			Help: "Frames discarded for any reason other than a CRC mismatch.",
		}),
		stationsHeard: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatteroo_monitor_stations_heard",
			Help: "Distinct stations currently tracked in the heard-stations book.",
		}),
	}
	prometheus.MustRegister(m.framesDecoded, m.crcMismatches, m.decodeErrors, m.stationsHeard)
	return m
}

// serve starts the /metrics endpoint in the background. Like the rest
// of the monitor, a failure here is logged, not fatal - the dashboard
// still works without it.
func (m *metrics) serve(addr string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Println("metrics server stopped:", err)
		}
	}()
}
