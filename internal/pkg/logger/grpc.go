package logger

import (
	"context"
	"fmt"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
)

// InterceptorLogger adapts a zap logger to the go-grpc-middleware logging interceptors.
func InterceptorLogger(l *zap.Logger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(_ context.Context, lvl grpc_logging.Level, msg string, fields ...any) {
		zapFields := make([]zap.Field, 0, len(fields)/2)

		iter := grpc_logging.Fields(fields).Iterator()
		for iter.Next() {
			key, value := iter.At()
			switch v := value.(type) {
			case string:
				zapFields = append(zapFields, zap.String(key, v))
			case int:
				zapFields = append(zapFields, zap.Int(key, v))
			case bool:
				zapFields = append(zapFields, zap.Bool(key, v))
			default:
				zapFields = append(zapFields, zap.Any(key, v))
			}
		}

		entry := l.WithOptions(zap.AddCallerSkip(1)).With(zapFields...)
		switch lvl {
		case grpc_logging.LevelDebug:
			entry.Debug(msg)
		case grpc_logging.LevelInfo:
			entry.Info(msg)
		case grpc_logging.LevelWarn:
			entry.Warn(msg)
		case grpc_logging.LevelError:
			entry.Error(msg)
		default:
			entry.Error(fmt.Sprintf("unknown level %v: %s", lvl, msg))
		}
	})
}
