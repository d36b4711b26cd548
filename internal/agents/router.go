package agents

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tuannvm/formrelay/internal/common"
)

// Router returns the HTTP routes of the webhook server
func (a *ReportAgent) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.logger))

	r.Post(a.cfg.ReportPath, a.HandleWebhook)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.ReturnJSONError(w, http.StatusMethodNotAllowed, "Method not allowed: Only POST requests are accepted")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.ReturnJSONError(w, http.StatusNotFound, "Not found")
	})
	return r
}

func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Millisecond),
			)
		})
	}
}
