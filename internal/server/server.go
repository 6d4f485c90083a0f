package server

import (
	"math/big"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"poolEngine/internal/engine"
	"poolEngine/internal/metrics"
)

// Server exposes the pool engine over HTTP.
type Server struct {
	app     *fiber.App
	eng     *engine.Engine
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func New(eng *engine.Engine, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		app:     fiber.New(),
		eng:     eng,
		metrics: m,
		logger:  logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	v1 := s.app.Group("/v1")

	v1.Post("/liquidity/add", s.handleAddLiquidity)
	v1.Post("/liquidity/remove", s.handleRemoveLiquidity)
	v1.Post("/swap/base", s.handleSwapBaseForQuote)
	v1.Post("/swap/quote", s.handleSwapQuoteForBase)

	v1.Post("/admin/pause", s.handlePause)
	v1.Post("/admin/unpause", s.handleUnpause)
	v1.Post("/admin/grant", s.handleGrant)
	v1.Post("/admin/revoke", s.handleRevoke)

	v1.Get("/pool", s.handlePoolState)
	v1.Get("/shares/:address", s.handleShares)
	v1.Get("/memo/:address", s.handleMemo)
	v1.Get("/custody", s.handleCustody)

	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}),
		))
	}
}

// App returns the underlying fiber application, used for tests and serving.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP listener on addr and blocks.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// recordOp updates counters and pool gauges after a mutating operation.
func (s *Server) recordOp(operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOp(operation, err)
	reserveBase, reserveQuote := s.eng.Reserves()
	s.metrics.SetPoolState(reserveBase, reserveQuote, s.eng.TotalShares(), s.eng.IsPaused())
}

// recordSwap tracks input volume and the 1% retained fee for a settled swap.
func (s *Server) recordSwap(token string, amountIn *big.Int) {
	if s.metrics == nil {
		return
	}
	fee := new(big.Int).Mul(amountIn, big.NewInt(100))
	fee.Div(fee, big.NewInt(10000))
	s.metrics.AddSwapVolume(token, amountIn, fee)
}
