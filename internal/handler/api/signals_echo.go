package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	models "TradeCoin/internal/domain/models"
	drepo "TradeCoin/internal/domain/repository"
	"TradeCoin/internal/service/cache"
	svcmetrics "TradeCoin/internal/service/metrics"
	"TradeCoin/internal/service/ratelimit"
	"TradeCoin/internal/services/entitlement"
	"TradeCoin/internal/usecase"
	xhttp "TradeCoin/pkg/http"
	xlogger "TradeCoin/pkg/logger"
)

const signalsCacheTTL = 5 * time.Second

// SignalsEchoHandler exposes the gated signal feed over Echo.
type SignalsEchoHandler struct {
	logger  *xlogger.Logger
	feed    *usecase.SignalsFeedUseCase
	store   drepo.Storage
	limiter *ratelimit.Limiter
	cache   cache.BytesCache
}

func NewSignalsEchoHandler(
	logger *xlogger.Logger,
	feed *usecase.SignalsFeedUseCase,
	store drepo.Storage,
	limiter *ratelimit.Limiter,
	byteCache cache.BytesCache,
) *SignalsEchoHandler {
	svcmetrics.Register()
	return &SignalsEchoHandler{logger: logger, feed: feed, store: store, limiter: limiter, cache: byteCache}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/entitlements", h.Entitlements)
	g.GET("/upgrade", h.Upgrade)
	g.GET("/health", h.Health)
}

func (h *SignalsEchoHandler) Signals(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.APILatency.WithLabelValues("signals").Observe(time.Since(start).Seconds())
	}()

	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	tier, err := entitlement.ParseTier(req.Tier)
	if err != nil {
		return h.tierError(c, "signals", err)
	}
	if h.limiter != nil {
		ok, lerr := h.limiter.AllowTier(limitKey(c, req.UserID), tier)
		if lerr != nil {
			return h.tierError(c, "signals", lerr)
		}
		if !ok {
			svcmetrics.APIThrottled.WithLabelValues(string(tier)).Inc()
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded for tier"))
		}
	}

	key := fmt.Sprintf("signals:%s:%s:%d", tier, req.Symbol, req.Limit)
	if h.cache != nil {
		if b, ok, _ := h.cache.GetBytes(key); ok {
			return c.JSONBlob(200, b)
		}
	}

	res, err := h.feed.GetSignals(c.Request().Context(), usecase.GetSignalsParams{
		Tier:   req.Tier,
		UserID: req.UserID,
		Symbol: req.Symbol,
		Limit:  req.Limit,
	})
	if err != nil {
		return h.tierError(c, "signals", err)
	}

	if h.cache != nil {
		if b, merr := json.Marshal(echo.Map{"success": true, "data": res}); merr == nil {
			_ = h.cache.SetBytes(key, b, signalsCacheTTL)
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Entitlements(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.APILatency.WithLabelValues("entitlements").Observe(time.Since(start).Seconds())
	}()

	req := &models.EntitlementsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	limits, features, err := h.feed.Entitlements(req.Tier)
	if err != nil {
		return h.tierError(c, "entitlements", err)
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"tier":     req.Tier,
		"limits":   limits,
		"features": features,
	})
}

func (h *SignalsEchoHandler) Upgrade(c echo.Context) error {
	req := &models.UpgradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ok, err := h.feed.UpgradeEligibility(req.From, req.To)
	if err != nil {
		return h.tierError(c, "upgrade", err)
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"from":       req.From,
		"to":         req.To,
		"canUpgrade": ok,
	})
}

func (h *SignalsEchoHandler) Health(c echo.Context) error {
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			h.logger.Warn("storage health check failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalError("storage unavailable"))
		}
	}
	return xhttp.SuccessResponse(c, echo.Map{"status": "ok"})
}

// tierError maps an unknown tier token to a 400 so that misconfigured
// clients never silently fall back to the free tier.
func (h *SignalsEchoHandler) tierError(c echo.Context, endpoint string, err error) error {
	var unknown *entitlement.UnknownTierError
	if errors.As(err, &unknown) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unknown tier %q", unknown.Tier))
	}
	svcmetrics.APIErrors.WithLabelValues(endpoint).Inc()
	h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

func limitKey(c echo.Context, userID string) string {
	if userID != "" {
		return userID
	}
	return c.RealIP()
}
