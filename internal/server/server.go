package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emrgen/circle/internal/cache"
	"github.com/emrgen/circle/internal/config"
	"github.com/emrgen/circle/internal/directory"
	"github.com/emrgen/circle/internal/jobs"
	"github.com/emrgen/circle/internal/service"
	"github.com/emrgen/circle/internal/store"
	"github.com/sirupsen/logrus"
)

// Server represents the server
type Server struct {
	httpPort string
}

// NewServer creates a new server
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start wires the store, services, and HTTP surface and serves until
// interrupted.
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	db := config.GetDb(cnf)

	graphStore := store.NewGormStore(db)
	if err := graphStore.Migrate(); err != nil {
		return err
	}

	kv := cache.NewRedis(cnf.RedisAddr)
	dir := directory.NewCached(directory.NewGormDirectory(graphStore), kv)

	connections := service.NewConnectionService(graphStore)
	engagement := service.NewEngagementService(graphStore)
	feed := service.NewFeedService(graphStore, connections, dir)
	graph := service.NewGraphService(connections, engagement, feed, dir)

	// retention of declined requests is a data concern, not a graph
	// operation; it runs beside the services, not inside them
	if cnf.DeclinedRetentionDays > 0 {
		maxAge := time.Duration(cnf.DeclinedRetentionDays) * 24 * time.Hour
		executor := jobs.NewTaskExecutor([]jobs.CronJob{
			jobs.NewDeclinedSweeper(graphStore, maxAge),
		})
		executor.Run()
		defer executor.Stop()
	}

	srv := &http.Server{
		Addr:    httpPort,
		Handler: NewRouter(graph),
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("circle listening on %s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logrus.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
