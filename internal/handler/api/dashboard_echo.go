package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	icache "StockPulse/internal/service/cache"
	"StockPulse/internal/service/metrics"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler implements the Echo-based HTTP surface of the dashboard.
type DashboardHandler struct {
	logger    *xlogger.Logger
	signals   *usecase.SignalService
	board     *usecase.SignalBoardUseCase
	market    *usecase.MarketDataUseCase
	store     domrepo.SignalStore // nil when the backend keeps no history
	backend   string
	watchlist []string
	rl        *ratelimit.Limiter
	cache     icache.BytesCache
}

func NewDashboardHandler(
	logger *xlogger.Logger,
	signals *usecase.SignalService,
	board *usecase.SignalBoardUseCase,
	market *usecase.MarketDataUseCase,
	backend string,
	watchlist []string,
) *DashboardHandler {
	metrics.Register()
	return &DashboardHandler{
		logger:    logger,
		signals:   signals,
		board:     board,
		market:    market,
		backend:   backend,
		watchlist: watchlist,
		rl:        ratelimit.New(),
	}
}

// SetStore enables the signal history endpoint.
func (h *DashboardHandler) SetStore(st domrepo.SignalStore) { h.store = st }

// SetCache enables short-TTL response caching for the board endpoint.
func (h *DashboardHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/signals", h.Signals)
	g.POST("/signals/refresh", h.RefreshSignals)
	g.GET("/sentiment", h.Sentiment)
	g.GET("/news", h.News)
	g.GET("/candles", h.Candles)
	g.GET("/profile", h.Profile)
	g.GET("/market/status", h.MarketStatus)
	g.GET("/signal/history", h.SignalHistory)
	g.GET("/health", h.Health)
}

func (h *DashboardHandler) observe(endpoint string, start time.Time) {
	metrics.DashboardLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *DashboardHandler) Signal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer h.observe(endpoint, start)

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signal", 10, 5) {
		h.logger.Warn("signal rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	sig, err := h.signals.Signal(c.Request().Context(), strings.ToUpper(req.Symbol))
	if err != nil {
		metrics.DashboardErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("signal usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sig)
}

func (h *DashboardHandler) Signals(c echo.Context) error {
	start := time.Now()
	endpoint := "signals"
	defer h.observe(endpoint, start)

	req := &models.SignalBoardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := parseSymbols(req.Symbols, h.watchlist)
	if !h.rl.Allow(c.RealIP()+":signals", 5, 2) {
		h.logger.Warn("signals rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	cacheKey := "board:" + strings.Join(symbols, ",")
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("signals cache_get_error", xlogger.Error(err))
		} else if ok {
			c.Response().Header().Set("Cache-Control", "max-age=15")
			return xhttp.SuccessResponse(c, json.RawMessage(b))
		}
	}

	board, err := h.board.Build(c.Request().Context(), symbols)
	if err != nil {
		metrics.DashboardErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.cacheBoard(cacheKey, board)
	c.Response().Header().Set("Cache-Control", "max-age=15")
	return xhttp.SuccessResponse(c, board)
}

func (h *DashboardHandler) RefreshSignals(c echo.Context) error {
	start := time.Now()
	endpoint := "signals_refresh"
	defer h.observe(endpoint, start)

	req := &models.SignalBoardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := parseSymbols(req.Symbols, h.watchlist)
	// regeneration hits every provider, so the refill here is stingy
	if !h.rl.Allow(c.RealIP()+":refresh", 2, 0.2) {
		h.logger.Warn("refresh rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	board, err := h.board.Refresh(c.Request().Context(), symbols)
	if err != nil {
		metrics.DashboardErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("refresh usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.cacheBoard("board:"+strings.Join(symbols, ","), board)
	return xhttp.SuccessResponse(c, board)
}

func (h *DashboardHandler) Sentiment(c echo.Context) error {
	start := time.Now()
	endpoint := "sentiment"
	defer h.observe(endpoint, start)

	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ns, err := h.signals.Sentiment(c.Request().Context(), strings.ToUpper(req.Symbol), req.Limit)
	if err != nil {
		metrics.DashboardErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("sentiment usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, ns)
}

func (h *DashboardHandler) News(c echo.Context) error {
	start := time.Now()
	endpoint := "news"
	defer h.observe(endpoint, start)

	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	articles, err := h.signals.Articles(c.Request().Context(), strings.ToUpper(req.Symbol), req.Limit)
	if err != nil {
		metrics.DashboardErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("news usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, articles)
}

func (h *DashboardHandler) Candles(c echo.Context) error {
	start := time.Now()
	endpoint := "candles"
	defer h.observe(endpoint, start)

	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.market.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:   strings.ToUpper(req.Symbol),
		Interval: domrepo.Interval(req.Interval),
		Limit:    req.Limit,
	})
	if err != nil {
		metrics.DashboardErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Profile(c echo.Context) error {
	start := time.Now()
	endpoint := "profile"
	defer h.observe(endpoint, start)

	req := &models.ProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	prof, err := h.market.Profile(c.Request().Context(), strings.ToUpper(req.Symbol))
	if err != nil {
		metrics.DashboardErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("profile usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, prof)
}

func (h *DashboardHandler) MarketStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.market.Status())
}

func (h *DashboardHandler) SignalHistory(c echo.Context) error {
	start := time.Now()
	endpoint := "signal_history"
	defer h.observe(endpoint, start)

	req := &models.SignalHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.store == nil {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(
			"ERR_HISTORY_UNAVAILABLE", "",
			"signal history requires the clickhouse backend",
			http.StatusServiceUnavailable,
		))
	}

	sigs, err := h.store.History(c.Request().Context(), strings.ToUpper(req.Symbol), req.Limit)
	if err != nil {
		metrics.DashboardErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("history store error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sigs)
}

type healthStatus struct {
	Status  string    `json:"status"`
	Backend string    `json:"backend"`
	Storage string    `json:"storage,omitempty"`
	Time    time.Time `json:"time"`
}

func (h *DashboardHandler) Health(c echo.Context) error {
	res := healthStatus{Status: "ok", Backend: h.backend, Time: time.Now().UTC()}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			res.Status = "degraded"
			res.Storage = err.Error()
		} else {
			res.Storage = "ok"
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) cacheBoard(key string, board *models.SignalBoard) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(board)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, 15*time.Second); err != nil {
		h.logger.Warn("signals cache_set_error", xlogger.Error(err))
	}
}

func parseSymbols(csv string, fallback []string) []string {
	if strings.TrimSpace(csv) == "" {
		return fallback
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
