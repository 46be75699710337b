// Package monitor поднимает служебный HTTP-сервер бота: проверка живости,
// счётчики реестров и websocket-лента событий.
package monitor

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ahror172/kino/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	src  store.Store
	feed *Feed
	log  logrus.FieldLogger

	accessLog *io.PipeWriter
	srv       *http.Server
}

// levelWriter есть и у *logrus.Logger, и у *logrus.Entry.
type levelWriter interface {
	WriterLevel(logrus.Level) *io.PipeWriter
}

func New(src store.Store, feed *Feed, log logrus.FieldLogger) *Server {
	s := &Server{src: src, feed: feed, log: log}
	if lw, ok := log.(levelWriter); ok {
		s.accessLog = lw.WriterLevel(logrus.DebugLevel)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Handle("/healthz", s.logged(s.serveHealth)).Methods(http.MethodGet)
	router.Handle("/stats", s.logged(s.serveStats)).Methods(http.MethodGet)

	if s.feed != nil {
		router.Handle("/feed", s.feed).Methods(http.MethodGet)
	}

	return handlers.RecoveryHandler(handlers.RecoveryLogger(s.log))(router)
}

// logged пишет access-лог в формате Apache Combined. Ленту не оборачиваем:
// ей нужен Hijacker исходного ResponseWriter.
func (s *Server) logged(h http.HandlerFunc) http.Handler {
	if s.accessLog == nil {
		return h
	}
	return handlers.CombinedLoggingHandler(s.accessLog, h)
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) serveStats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.CollectStats(r.Context(), s.src)
	if err != nil {
		s.log.WithError(err).Warn("collect stats")
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

// Start слушает addr до отмены ctx. Ошибка привязки возвращается сразу.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", addr)
	}
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.feed != nil {
			_ = s.feed.Close()
		}
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Warn("monitor shutdown")
		}
		if s.accessLog != nil {
			_ = s.accessLog.Close()
		}
	}()

	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("monitor listening")
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("monitor server")
		}
	}()
	return nil
}
