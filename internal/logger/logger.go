// Logger пакет для инициализация логгера zap
package logger

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServerLogger структура логера
type ServerLogger struct {
	Logger *zap.Logger
}

// CreateLogger функция создания с возможностью регулирования уровней
func CreateLogger(level zap.AtomicLevel) *ServerLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	l, err := cfg.Build()

	if err != nil {
		return &ServerLogger{Logger: zap.NewNop()}
	}
	return &ServerLogger{
		Logger: l,
	}
}

// ParseLevel уровень из строки, по умолчанию info
func ParseLevel(s string) zap.AtomicLevel {
	lvl, err := zap.ParseAtomicLevel(s)
	if err != nil {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return lvl
}

// responseData тип для фиксации размера запроса
type responseData struct {
	size   int
	status int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

// Write метод записи размера в ответ
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	if r.responseData.status == 0 {
		r.responseData.status = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader Фиксация кода заголовка
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// Flush нужен для потока событий
func (r *loggingResponseWriter) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingMW функция middleware для внедрения в роутер
func (l ServerLogger) LoggingMW() func(http.Handler) http.Handler {
	sl := l.Logger.Sugar()
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, req *http.Request) {
			responseData := &responseData{
				size:   0,
				status: 0,
			}
			lw := loggingResponseWriter{
				ResponseWriter: w,
				responseData:   responseData,
			}
			start := time.Now()
			next.ServeHTTP(&lw, req)
			duration := time.Since(start)
			sl.Infoln(
				"uri", req.RequestURI,
				"method", req.Method,
				"status", responseData.status,
				"duration", duration,
				"size", responseData.size,
			)
		}
		return http.HandlerFunc(fn)
	}
}
