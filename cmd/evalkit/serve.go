package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/randalmurphal/evalkit/pkg/evalkit"
	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
)

// maxMessageBytes caps one client message. Larger messages close the
// session.
const maxMessageBytes = 64 << 10

// sockUpgrader upgrades requests on the evaluation endpoint.
var sockUpgrader = websocket.Upgrader{
	Subprotocols:    []string{"evalkit"},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// request is one client message. Close ends the session.
type request struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Close  bool   `json:"close,omitempty"`
}

// response answers one request. Either Result or Error is set.
type response struct {
	ID      string             `json:"id,omitempty"`
	Result  *expr.DefaultValue `json:"result,omitempty"`
	Display string             `json:"display,omitempty"`
	Type    string             `json:"type,omitempty"`
	Error   string             `json:"error,omitempty"`
	Kind    string             `json:"kind,omitempty"`
}

// sockConn serializes writes to one websocket. gorilla connections allow
// one concurrent reader and one concurrent writer.
type sockConn struct {
	id   string
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *sockConn) write(resp response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *sockConn) close(msg string) {
	c.wmu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, msg),
		time.Now().Add(5*time.Second))
	c.wmu.Unlock()
	c.conn.Close()
}

// evalHandler serves one evaluation session per websocket connection.
// Each session has its own context seeded from the engine.
func evalHandler(engine *evalkit.DefaultEngine, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := sockUpgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied with an HTTP error.
			logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		conn.SetReadLimit(maxMessageBytes)
		sc := &sockConn{id: uuid.New().String(), conn: conn}
		log := logger.With(slog.String("session_id", sc.id))
		log.Info("session opened", slog.String("remote", r.RemoteAddr))
		defer log.Info("session closed")

		vars := engine.NewContext()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug("read failed", slog.String("error", err.Error()))
				}
				conn.Close()
				return
			}

			var req request
			if err := json.Unmarshal(msg, &req); err != nil {
				if err := sc.write(response{Error: fmt.Sprintf("invalid request: %v", err), Kind: "request"}); err != nil {
					conn.Close()
					return
				}
				continue
			}
			if req.Close {
				sc.close("")
				return
			}

			if err := sc.write(evaluate(r.Context(), engine, vars, req)); err != nil {
				log.Debug("write failed", slog.String("error", err.Error()))
				conn.Close()
				return
			}
		}
	})
}

func evaluate(ctx context.Context, engine *evalkit.DefaultEngine, vars *expr.DefaultContext, req request) response {
	v, err := engine.Evaluate(ctx, req.Source, vars)
	if err != nil {
		return response{ID: req.ID, Error: err.Error(), Kind: expr.KindOf(err).String()}
	}
	return response{ID: req.ID, Result: &v, Display: v.String(), Type: v.Type().String()}
}

func evalMux(engine *evalkit.DefaultEngine, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/eval", evalHandler(engine, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// serve listens on addr until ctx is cancelled.
func serve(ctx context.Context, addr string, engine *evalkit.DefaultEngine, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           evalMux(engine, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving evaluations", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
