// App собирает зависимости приложения (конфигурация, хранилище, логгер)
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/SversusN/reviewcheck/config"
	"github.com/SversusN/reviewcheck/internal/analyzeclient"
	"github.com/SversusN/reviewcheck/internal/grpcsrv"
	"github.com/SversusN/reviewcheck/internal/handlers"
	"github.com/SversusN/reviewcheck/internal/logger"
	mw "github.com/SversusN/reviewcheck/internal/middleware"
	"github.com/SversusN/reviewcheck/internal/pkg/utils"
	"github.com/SversusN/reviewcheck/internal/result"
	"github.com/SversusN/reviewcheck/internal/session"
	"github.com/SversusN/reviewcheck/internal/storage/dbstorage"
	"github.com/SversusN/reviewcheck/internal/storage/memstorage"
	"github.com/SversusN/reviewcheck/internal/storage/sqlitestorage"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
	"github.com/SversusN/reviewcheck/internal/submit"
)

// частота очистки сессий
const sweepEvery = time.Minute

// App структура приложения
type App struct {
	Config   *config.Config       // Объект конфигурации
	Storage  storage.Storage      // Интерфейс хранилища
	Sessions *session.Manager     // Хранилища сессий
	Handlers *handlers.Handlers   //Объект http обработчиков
	Logger   *logger.ServerLogger //Внедрение логера
	closers  []func()
}

// New Конструктор пакета, создает целевой объект приложения с нужными зависимостями
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	lg := logger.CreateLogger(logger.ParseLevel(cfg.LogLevel))
	a := &App{Config: cfg, Logger: lg}

	ns, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	a.Storage = ns
	if cfg.SecretKey == "" {
		cfg.SecretKey = utils.GenerateSecret()
	}
	a.Sessions = session.NewManager(cfg.SessionTTL)
	a.Handlers = NewHandlers(cfg, ns, a.Sessions, analyzeclient.New(cfg.FlagBaseAddress, nil), result.RealClock{}, lg.Logger)
	return a, nil
}

// NewHandlers собирает контроллеры и обработчики
func NewHandlers(cfg *config.Config, s storage.Storage, sm *session.Manager, an submit.Analyzer, clock result.Clock, log *zap.Logger) *handlers.Handlers {
	sc := submit.NewController(an, log)
	rc := result.NewController(
		result.NewRandomScorer(time.Now().UnixNano()),
		clock,
		result.Timing{
			RevealDelay: cfg.RevealDelay,
			Duration:    cfg.AnimationDuration,
			Interval:    cfg.AnimationInterval,
		},
		log,
	)
	return handlers.NewHandlers(s, sm, sc, rc, log)
}

// openStorage PostgreSQL, затем SQLite, иначе память с файлом
func (a *App) openStorage(ctx context.Context) (storage.Storage, error) {
	log := a.Logger.Logger
	switch {
	case a.Config.DataBaseDSN != "":
		pg, err := dbstorage.NewDB(ctx, a.Config.DataBaseDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		log.Info("using PostgreSQL storage")
		return pg, nil
	case a.Config.SQLitePath != "":
		sq, err := sqlitestorage.Open(ctx, a.Config.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = sq.Close() })
		log.Info("using SQLite storage", zap.String("path", a.Config.SQLitePath))
		return sq, nil
	default:
		fh, err := utils.NewFileHelper(a.Config.FlagFilePath)
		if err != nil {
			log.Warn("file storage disabled", zap.Error(err))
		}
		ms := memstorage.NewStorage(fh, err)
		a.closers = append(a.closers, func() { _ = ms.Close() })
		return ms, nil
	}
}

// CreateRouter Создание роутера Chi
func (a *App) CreateRouter(hnd *handlers.Handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(a.Logger.LoggingMW())
	r.Use(mw.GzipMiddleware)
	r.Use(mw.NewAuthMW(a.Config.SecretKey, a.Logger.Logger).AuthMWfunc)
	limited := mw.RateLimit(a.Config.RateLimit, int(a.Config.RateLimit)+1)
	//Инициализация маршрута для роутера Chi
	r.Route("/", func(r chi.Router) {
		r.Get("/", hnd.HandlerIndex)
		r.Get("/ping", hnd.HandlerDBPing)
		r.Get("/detect", hnd.HandlerDetectPage)
		r.With(limited).Post("/detect", hnd.HandlerDetectForm)
		r.With(limited).Post("/analyze", hnd.HandlerAnalyze)
		r.Get("/history", hnd.HandlerHistory)
		r.Get("/result", hnd.HandlerResultPage)
		r.Route("/api", func(r chi.Router) {
			r.With(limited).Post("/submit", hnd.HandlerSubmitJSON)
			r.Get("/result", hnd.HandlerResultJSON)
			r.Get("/result/stream", hnd.HandlerResultStream)
			r.Get("/session", hnd.HandlerSession)
		})
	})
	return r
}

// Run запуск веб сервера и gRPC health до сигнала остановки
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.Close()
	log := a.Logger.Logger

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Sessions.Run(ctx, sweepEvery)
	}()

	gs := grpcsrv.NewGRPCServer(ctx, a.Storage, log)
	if a.Config.GRPCAddress != "" {
		lis, err := net.Listen("tcp", a.Config.GRPCAddress)
		if err != nil {
			return err
		}
		go func() {
			if err := gs.Serve(lis); err != nil {
				log.Error("gRPC server stopped", zap.Error(err))
			}
		}()
		log.Info("gRPC health running", zap.String("address", a.Config.GRPCAddress))
	}

	server := &http.Server{
		Addr:    a.Config.FlagAddress,
		Handler: a.CreateRouter(a.Handlers),
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("running", zap.String("address", a.Config.FlagAddress), zap.Bool("https", a.Config.EnableHTTPS))
		if a.Config.EnableHTTPS {
			if len(a.Config.TLSHosts) == 0 {
				errCh <- errors.New("HTTPS needs at least one host in TLS_HOSTS")
				return
			}
			manager := &autocert.Manager{
				// директория для хранения сертификатов
				Cache: autocert.DirCache("cache-dir"),
				// функция, принимающая Terms of Service издателя сертификатов
				Prompt: autocert.AcceptTOS,
				// перечень доменов, для которых будут поддерживаться сертификаты
				HostPolicy: autocert.HostWhitelist(a.Config.TLSHosts...),
			}
			server.Addr = ":443"
			server.TLSConfig = manager.TLSConfig()
			errCh <- server.ListenAndServeTLS("", "")
			return
		}
		errCh <- server.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := server.Shutdown(shutdownCtx); serr != nil {
		log.Error("http shutdown", zap.Error(serr))
	}
	gs.GracefulStop()
	stop()
	wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close освобождает хранилища и сбрасывает лог
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
	_ = a.Logger.Logger.Sync()
}
