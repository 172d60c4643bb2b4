package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"redsys-orders/config"
	"redsys-orders/services"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	paymentRequest = "/payment/:order_id"
	reconcileStore = "/reconcile/:store"
	metricsPath    = "/metrics"
	healthPath     = "/health"

	defaultScope = "default"
	maxBodySize  = 1 << 16
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	payments   services.Payments
	reconciler services.Reconciler
	logger     services.LogHandler
}

type checkoutRequest struct {
	Store    string `json:"store"`
	LoggedIn bool   `json:"logged_in"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(conf *config.Config, payments services.Payments, reconciler services.Reconciler) *Server {
	server := Server{
		conf:       conf,
		payments:   payments,
		reconciler: reconciler,
		logger:     nopLogger{},
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.POST(paymentRequest, s.paymentRequest)
	router.POST(reconcileStore, s.reconcile)
	router.Handler(http.MethodGet, metricsPath, promhttp.Handler())
	router.GET(healthPath, s.health)
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) paymentRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, reqID := requestContext(w, r)

	orderId := ps.ByName("order_id")
	if orderId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] empty order id", reqID))
		writeJson(w, http.StatusBadRequest, errorResponse{Error: "order id required"})
		return
	}

	var req checkoutRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment request: read body", reqID), err)
		writeJson(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}
	if len(body) > 0 {
		if err = json.Unmarshal(body, &req); err != nil {
			s.logger.Warn(fmt.Sprintf("[%s] payment request: decode body: %v", reqID, err))
			writeJson(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}
	}
	if req.Store == "" {
		req.Store = defaultScope
	}

	request, err := s.payments.SignedRequest(ctx, orderId, req.Store, req.LoggedIn)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrOrderNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrIncompleteOrderData):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, ErrConfigurationMissing):
			status = http.StatusServiceUnavailable
		}
		s.logger.Error(fmt.Sprintf("[%s] payment request for order %s", reqID, orderId), err)
		writeJson(w, status, errorResponse{Error: "payment is not available for this order"})
		return
	}

	writeJson(w, http.StatusOK, request)
}

func (s *Server) reconcile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, reqID := requestContext(w, r)

	store := ps.ByName("store")
	s.logger.Info(fmt.Sprintf("[%s] processing request: reconcile store %s", reqID, store))
	result, err := s.reconciler.Run(ctx, store)
	if err != nil {
		if errors.Is(err, ErrSweepInProgress) {
			writeJson(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error(fmt.Sprintf("[%s] reconcile store %s", reqID, store), err)
		if result != nil {
			// interrupted sweep: the counts cover the orders handled before it stopped
			writeJson(w, http.StatusServiceUnavailable, result)
			return
		}
		writeJson(w, http.StatusInternalServerError, errorResponse{Error: "sweep failed"})
		return
	}
	writeJson(w, http.StatusOK, result)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func writeJson(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
