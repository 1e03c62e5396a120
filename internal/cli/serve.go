package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilewright/tilewright/internal/server"
	"github.com/tilewright/tilewright/pkg/dispatch"
	"github.com/tilewright/tilewright/pkg/provider"
	"github.com/tilewright/tilewright/pkg/store"
)

// serveCommand creates the serve command that runs the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		mongoURI  string
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve [map.toml...]",
		Short: "Run the preview server",
		Long: `Run the preview server.

Map documents given as arguments are rendered and stored before the
server starts, so they are immediately browsable under /maps/{id}.
Without --mongo-uri documents live in memory; without --redis-addr live
updates are delivered in-process only.`,
		Example: `  # Serve one map on the default port
  tilewright serve map.toml

  # Multi-instance deployment
  tilewright serve --mongo-uri mongodb://localhost:27017 --redis-addr localhost:6379`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, mongoURI, redisAddr, args)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8570", "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "persist maps in MongoDB instead of memory")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "share live updates through Redis pub/sub")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI, redisAddr string, docs []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := loggerFromContext(ctx)

	st, err := newStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	bus, err := newBus(ctx, redisAddr)
	if err != nil {
		return err
	}
	defer bus.Close()

	catalog := provider.Default()
	for _, path := range docs {
		doc, err := LoadDocument(path)
		if err != nil {
			return err
		}
		m, err := doc.Build(catalog, filepath.Dir(path))
		if err != nil {
			return fmt.Errorf("build %s: %w", path, err)
		}
		w, err := m.Widget()
		if err != nil {
			return err
		}
		sd, err := store.NewDocument(w, doc.Title)
		if err != nil {
			return err
		}
		if err := st.Put(ctx, sd); err != nil {
			return err
		}
		logger.Info("loaded map", "id", w.MapID, "source", path)
		printInfo("http://localhost%s/maps/%s", addr, w.MapID)
	}

	srv := server.New(st, bus, logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview server listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
}

func newBus(ctx context.Context, redisAddr string) (dispatch.Bus, error) {
	if redisAddr == "" {
		return dispatch.NewMemoryBus(), nil
	}
	return dispatch.NewRedisBus(ctx, dispatch.RedisConfig{Addr: redisAddr})
}
