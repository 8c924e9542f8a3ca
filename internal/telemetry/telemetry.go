// Package telemetry exposes render and LOD metrics to Prometheus.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/taigrr/voidrun/pkg/lod"
	"github.com/taigrr/voidrun/pkg/scene"
)

// Metrics:
//   - frame_duration_seconds: histogram of frame wall time
//   - frame_faces, frame_cells, frame_occluders: gauges for the last frame
//   - faces_total: counter of faces composited
//   - surface_pixels: gauge of the low-resolution surface area
//   - lod_radius, lod_scale, lod_fps: controller state at the last sample
//   - lod_samples_total: counter of controller samples
type Metrics struct {
	registry *prometheus.Registry

	frameDuration prometheus.Histogram
	faces         prometheus.Gauge
	cells         prometheus.Gauge
	occluders     prometheus.Gauge
	facesTotal    prometheus.Counter
	surfacePixels prometheus.Gauge

	lodRadius  prometheus.Gauge
	lodScale   prometheus.Gauge
	lodFPS     prometheus.Gauge
	lodSamples prometheus.Counter
}

// New creates the collectors in a private registry.
func New(namespace string) *Metrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time spent rendering a frame.",
			Buckets:   []float64{0.002, 0.004, 0.008, 0.012, 0.016, 0.020, 0.033, 0.050, 0.100},
		}),
		faces:         gauge("frame_faces", "Faces composited in the last frame."),
		cells:         gauge("frame_cells", "Cells that passed the culler in the last frame."),
		occluders:     gauge("frame_occluders", "Faces repainted over the craft in the last frame."),
		surfacePixels: gauge("surface_pixels", "Pixels in the low-resolution render surface."),
		facesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faces_total",
			Help:      "Faces composited since start.",
		}),
		lodRadius: gauge("lod_radius", "Draw distance in cells."),
		lodScale:  gauge("lod_scale", "Render resolution scale."),
		lodFPS:    gauge("lod_fps", "Frame rate measured at the last LOD sample."),
		lodSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lod_samples_total",
			Help:      "LOD controller samples taken.",
		}),
	}
	m.registry.MustRegister(
		m.frameDuration, m.faces, m.cells, m.occluders, m.surfacePixels, m.facesTotal,
		m.lodRadius, m.lodScale, m.lodFPS, m.lodSamples,
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFrame records one rendered frame.
func (m *Metrics) ObserveFrame(dt time.Duration, st scene.Stats) {
	m.frameDuration.Observe(dt.Seconds())
	m.faces.Set(float64(st.Faces))
	m.cells.Set(float64(st.Cells))
	m.occluders.Set(float64(st.Occluders))
	m.surfacePixels.Set(float64(st.Width * st.Height))
	m.facesTotal.Add(float64(st.Faces))
}

// ObserveLOD records a controller sample.
func (m *Metrics) ObserveLOD(s lod.State, fps float64) {
	m.lodRadius.Set(float64(s.Radius))
	m.lodScale.Set(s.Scale)
	m.lodFPS.Set(fps)
	m.lodSamples.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		log.Info("metrics endpoint listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics: %w", err)
		}
		return nil
	}
}
