package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	configTypes "github.com/0xPolygon/zksync-test-node/config/types"
	"github.com/0xPolygon/zksync-test-node/fork"
	"github.com/0xPolygon/zksync-test-node/log"
	"github.com/0xPolygon/zksync-test-node/metrics"
	"github.com/0xPolygon/zksync-test-node/node"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const maxRequestContentLength = 5 * 1024 * 1024

// Config of the JSON-RPC server
type Config struct {
	// Host to bind the server to
	Host string `mapstructure:"Host"`
	// Port to listen on, 0 picks a free one
	Port int `mapstructure:"Port"`
	// ReadTimeout is the HTTP request read timeout
	ReadTimeout configTypes.Duration `mapstructure:"ReadTimeout"`
	// WriteTimeout is the HTTP response write timeout
	WriteTimeout configTypes.Duration `mapstructure:"WriteTimeout"`
	// HealthCheckEndpoint serves /health
	HealthCheckEndpoint bool `mapstructure:"HealthCheckEndpoint"`
	// CORSAllowedOrigins of browser clients
	CORSAllowedOrigins []string `mapstructure:"CORSAllowedOrigins"`
	// BatchRequestsLimit caps the number of calls of a batch, 0 keeps the library default
	BatchRequestsLimit int `mapstructure:"BatchRequestsLimit"`
	// BatchResponseMaxSize caps the size of a batch response in bytes
	BatchResponseMaxSize int `mapstructure:"BatchResponseMaxSize"`
}

// Names of methods Go method naming cannot produce, mapped onto the
// registered ones.
var methodAliases = map[string]string{
	"zks_L1ChainId":         "zks_l1ChainId",
	"zks_L1BatchNumber":     "zks_l1BatchNumber",
	"eth_getBlockNumber":    "eth_blockNumber",
	"hardhat_mine_detailed": "hardhat_mineDetailed",
	"anvil_mine_detailed":   "anvil_mineDetailed",
}

// Server serves the node over JSON-RPC, on HTTP and WebSocket
type Server struct {
	cfg        Config
	metricsCfg metrics.Config
	rpc        *rpc.Server

	mu  sync.Mutex
	srv *http.Server
}

type service struct {
	namespace string
	receiver  interface{}
}

// NewServer registers every namespace of n on a new server. forkCfg and cache
// are used when a reset forks a new network.
func NewServer(cfg Config, metricsCfg metrics.Config, n *node.Node, forkCfg fork.Config, cache fork.Cache) (*Server, error) {
	evm := NewEvmAPI(n)
	hardhat := NewHardhatAPI(n, forkCfg, cache)
	services := []service{
		{"eth", NewEthAPI(n)},
		{"net", NewNetAPI(n)},
		{"web3", Web3API{}},
		{"zks", NewZksAPI(n)},
		{"debug", NewDebugAPI(n)},
		{"evm", evm},
		{"hardhat", hardhat},
		{"anvil", NewAnvilAPI(hardhat, evm)},
		{"config", NewConfigAPI(n)},
	}

	srv := rpc.NewServer()
	if cfg.BatchRequestsLimit > 0 || cfg.BatchResponseMaxSize > 0 {
		srv.SetBatchLimits(cfg.BatchRequestsLimit, cfg.BatchResponseMaxSize)
	}
	for _, s := range services {
		if err := srv.RegisterName(s.namespace, s.receiver); err != nil {
			return nil, fmt.Errorf("failed to register the %s namespace: %w", s.namespace, err)
		}
	}

	return &Server{cfg: cfg, metricsCfg: metricsCfg, rpc: srv}, nil
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	origins := s.cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	}))

	if s.cfg.HealthCheckEndpoint {
		mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	if s.metricsCfg.Enabled {
		mux.Handle("/metrics", metrics.Handler())
	}

	rpcHandler := aliasMethods(s.rpc)
	wsHandler := s.rpc.WebsocketHandler(origins)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if isWebsocket(r) {
			wsHandler.ServeHTTP(w, r)
			return
		}
		rpcHandler.ServeHTTP(w, r)
	})
	return mux
}

// Start listens on the configured address and serves until Stop is called.
func (s *Server) Start() error {
	address := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	lis, err := net.Listen("tcp", address)
	if err != nil {
		log.Errorf("failed to create tcp listener: %v", err)
		return err
	}
	return s.Serve(lis)
}

// Serve serves on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout.Duration,
		WriteTimeout: s.cfg.WriteTimeout.Duration,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	log.Infof("JSON-RPC server listening on %s", lis.Addr())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("closed http connection: %v", err)
		return err
	}
	return nil
}

// Stop shuts down the HTTP server and the open WebSocket connections.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	s.rpc.Stop()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func isWebsocket(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket") &&
		strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade")
}

// aliasMethods rewrites the aliased method names of HTTP requests, single or
// batched, and counts the requested methods. Bodies that cannot be decoded are
// forwarded untouched so the rpc server reports the parse error.
func aliasMethods(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestContentLength+1))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(body) > maxRequestContentLength {
			http.Error(w, "content length too large", http.StatusRequestEntityTooLarge)
			return
		}

		if rewritten, ok := rewriteMethods(body); ok {
			body = rewritten
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		next.ServeHTTP(w, r)
	})
}

func rewriteMethods(body []byte) ([]byte, bool) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var batch []map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, false
		}
		changed := false
		for _, msg := range batch {
			changed = rewriteMethod(msg) || changed
		}
		if !changed {
			return nil, false
		}
		out, err := json.Marshal(batch)
		return out, err == nil
	}

	var msg map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, false
	}
	if !rewriteMethod(msg) {
		return nil, false
	}
	out, err := json.Marshal(msg)
	return out, err == nil
}

// rewriteMethod replaces an aliased method in place and reports whether it did.
func rewriteMethod(msg map[string]json.RawMessage) bool {
	var method string
	if err := json.Unmarshal(msg["method"], &method); err != nil {
		return false
	}
	metrics.RPCRequest(method)
	target, ok := methodAliases[method]
	if !ok {
		return false
	}
	raw, err := json.Marshal(target)
	if err != nil {
		return false
	}
	msg["method"] = raw
	return true
}
