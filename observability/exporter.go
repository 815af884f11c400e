package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"

	"github.com/benz9527/dsvisual/lib/infra"
)

type MetricsExporterKind string

const (
	MetricsNone       MetricsExporterKind = "none"
	MetricsStdout     MetricsExporterKind = "stdout"
	MetricsPrometheus MetricsExporterKind = "prometheus"
)

func ParseMetricsExporterKind(kind string) (MetricsExporterKind, error) {
	switch k := MetricsExporterKind(strings.ToLower(strings.TrimSpace(kind))); k {
	case MetricsNone, MetricsStdout, MetricsPrometheus:
		return k, nil
	case "":
		return MetricsNone, nil
	}
	return "", infra.NewErrorStack("unknown metrics exporter <" + kind + ">")
}

type exporterCfg struct {
	interval time.Duration
	timeout  time.Duration
	writer   io.Writer
	addr     string
}

type ExporterOption func(cfg *exporterCfg)

func WithExportInterval(interval, timeout time.Duration) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.interval, cfg.timeout = interval, timeout
	}
}

// WithExportWriter redirects the stdout exporter.
func WithExportWriter(w io.Writer) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.writer = w
	}
}

// WithPrometheusAddr serves the scrape endpoint at /metrics.
// An empty address only registers the reader.
func WithPrometheusAddr(addr string) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.addr = addr
	}
}

// MetricsExporter owns the installed global meter provider.
type MetricsExporter struct {
	kind     MetricsExporterKind
	addr     string
	shutdown []func(ctx context.Context) error
}

func (e *MetricsExporter) Kind() MetricsExporterKind {
	return e.kind
}

// Addr is the bound scrape address, empty if nothing is served.
func (e *MetricsExporter) Addr() string {
	return e.addr
}

func (e *MetricsExporter) Shutdown(ctx context.Context) error {
	var merr error
	for i := len(e.shutdown) - 1; i >= 0; i-- {
		merr = multierr.Append(merr, e.shutdown[i](ctx))
	}
	e.shutdown = nil
	return merr
}

func NewMetricsExporter(kind MetricsExporterKind, opts ...ExporterOption) (*MetricsExporter, error) {
	cfg := &exporterCfg{
		interval: 10 * time.Second,
		timeout:  5 * time.Second,
		writer:   os.Stdout,
	}
	for _, o := range opts {
		o(cfg)
	}

	exporter := &MetricsExporter{kind: kind}
	switch kind {
	case MetricsNone:
		return exporter, nil
	case MetricsStdout:
		shutdown, err := newConsoleMetricsExporter(cfg.interval, cfg.timeout, stdoutmetric.WithWriter(cfg.writer))
		if err != nil {
			return nil, err
		}
		exporter.shutdown = append(exporter.shutdown, shutdown)
	case MetricsPrometheus:
		reg := promclient.NewRegistry()
		shutdown, err := newPrometheusMetricsExporter(reg)
		if err != nil {
			return nil, err
		}
		exporter.shutdown = append(exporter.shutdown, shutdown)
		if len(cfg.addr) > 0 {
			addr, stop, err := servePrometheus(cfg.addr, reg)
			if err != nil {
				return nil, multierr.Append(err, shutdown(context.Background()))
			}
			exporter.addr = addr
			exporter.shutdown = append(exporter.shutdown, stop)
		}
	default:
		return nil, infra.NewErrorStack("unknown metrics exporter <" + string(kind) + ">")
	}
	return exporter, nil
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "stdout metrics exporter")
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter(reg *promclient.Registry) (func(ctx context.Context) error, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "prometheus metrics exporter")
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

func servePrometheus(addr string, reg *promclient.Registry) (string, func(ctx context.Context) error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, infra.WrapErrorStackWithMessage(err, "listen metrics address "+addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.Serve(ln)
	}()
	return ln.Addr().String(), func(ctx context.Context) error {
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, nil
}
