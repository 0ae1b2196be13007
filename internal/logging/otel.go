package logging

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// handlerExporter writes the records of the library packages' otelslog
// loggers through the handler installed by the most recent Setup.
type handlerExporter struct {
	handler atomic.Pointer[slog.Handler]
}

var (
	exporter     = &handlerExporter{}
	providerOnce sync.Once
)

// installLoggerProvider routes OpenTelemetry log records into handler. The
// global provider only delegates once, so later calls swap the handler
// behind the same provider.
func installLoggerProvider(handler slog.Handler) {
	exporter.handler.Store(&handler)
	providerOnce.Do(func() {
		provider := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)),
		)
		global.SetLoggerProvider(provider)
	})
}

func (e *handlerExporter) Export(ctx context.Context, records []sdklog.Record) error {
	current := e.handler.Load()
	if current == nil {
		return nil
	}
	handler := *current

	for i := range records {
		record := &records[i]
		// otelslog maps slog levels onto severities offset by SeverityInfo.
		level := slog.Level(int(record.Severity()) - int(log.SeverityInfo))
		if !handler.Enabled(ctx, level) {
			continue
		}

		out := slog.NewRecord(record.Timestamp(), level, record.Body().AsString(), 0)
		if scope := record.InstrumentationScope().Name; scope != "" {
			out.AddAttrs(slog.String("scope", scope))
		}
		record.WalkAttributes(func(kv log.KeyValue) bool {
			out.AddAttrs(toAttr(kv.Key, kv.Value))
			return true
		})
		if err := handler.Handle(ctx, out); err != nil {
			return err
		}
	}
	return nil
}

func (e *handlerExporter) Shutdown(context.Context) error   { return nil }
func (e *handlerExporter) ForceFlush(context.Context) error { return nil }

func toAttr(key string, value log.Value) slog.Attr {
	switch value.Kind() {
	case log.KindBool:
		return slog.Bool(key, value.AsBool())
	case log.KindInt64:
		return slog.Int64(key, value.AsInt64())
	case log.KindFloat64:
		return slog.Float64(key, value.AsFloat64())
	case log.KindString:
		return slog.String(key, value.AsString())
	case log.KindMap:
		group := make([]any, 0, len(value.AsMap()))
		for _, kv := range value.AsMap() {
			group = append(group, toAttr(kv.Key, kv.Value))
		}
		return slog.Group(key, group...)
	}
	return slog.String(key, value.String())
}
