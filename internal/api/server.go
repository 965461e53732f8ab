// Package api exposes list state and quote transformation over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/devlongs/swapsync/internal/lists"
	"github.com/devlongs/swapsync/internal/metrics"
	"github.com/devlongs/swapsync/internal/quote"
	"github.com/devlongs/swapsync/internal/tokenlist"
)

// Visibility is the part of the synchronizer the API drives
type Visibility interface {
	SetVisible(visible bool)
	RefreshEnabled() bool
}

// Provider reports chain provider reachability
type Provider interface {
	Available() bool
}

// Server serves the HTTP API
type Server struct {
	store    *lists.Store
	sync     Visibility
	provider Provider
	safety   *tokenlist.SafetyTable
	engine   *gin.Engine
}

// NewServer builds the router. provider and safety may be nil.
func NewServer(store *lists.Store, sync Visibility, provider Provider, safety *tokenlist.SafetyTable) *Server {
	s := &Server{store: store, sync: sync, provider: provider, safety: safety}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.GET("/health", s.APIHealthCheck)
	r.GET("/lists", s.APIGetLists)
	r.POST("/lists/accept", s.APIAcceptListUpdate)
	r.PUT("/visibility", s.APISetVisibility)
	r.GET("/tokens/:address/safety", s.APITokenSafety)
	r.POST("/quote/quick", s.APIQuickQuote)
	r.POST("/quote/classic", s.APIClassicQuote)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.engine = r
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) APIHealthCheck(c *gin.Context) {
	snap := s.store.Snapshot()
	result := HealthRespond{
		Rehydrated:     s.store.Rehydrated(),
		RefreshEnabled: s.sync.RefreshEnabled(),
		Lists:          len(snap.ByURL),
	}
	if s.provider != nil {
		result.ProviderAvailable = s.provider.Available()
	}
	if s.safety != nil {
		result.SafetyTokens = s.safety.Len()
	}
	c.JSON(http.StatusOK, APIRespond{Result: result})
}

func (s *Server) APIGetLists(c *gin.Context) {
	snap := s.store.Snapshot()
	active := make(map[string]bool, len(snap.ActiveListURLs))
	for _, u := range snap.ActiveListURLs {
		active[u] = true
	}

	urls := make([]string, 0, len(snap.ByURL))
	for u := range snap.ByURL {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	result := make([]ListRespond, 0, len(urls))
	for _, u := range urls {
		result = append(result, buildListRespond(u, snap.ByURL[u], active[u]))
	}
	c.JSON(http.StatusOK, APIRespond{Result: result})
}

func (s *Server) APIAcceptListUpdate(c *gin.Context) {
	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, buildGinErrorRespond(err))
		return
	}

	if err := s.store.Dispatch(lists.AcceptListUpdate{URL: req.URL}); err != nil {
		if errors.Is(err, lists.ErrNoPendingUpdate) {
			c.JSON(http.StatusConflict, buildGinErrorRespond(err))
			return
		}
		c.JSON(http.StatusInternalServerError, buildGinErrorRespond(err))
		return
	}

	log.Info().Str("url", req.URL).Msg("List update accepted manually")
	ls := s.store.Snapshot()
	state, ok := ls.ByURL[req.URL]
	if !ok {
		c.JSON(http.StatusOK, APIRespond{Result: nil})
		return
	}
	c.JSON(http.StatusOK, APIRespond{Result: buildListRespond(req.URL, state, contains(ls.ActiveListURLs, req.URL))})
}

func (s *Server) APISetVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, buildGinErrorRespond(err))
		return
	}
	s.sync.SetVisible(*req.Visible)
	c.JSON(http.StatusOK, APIRespond{Result: gin.H{"visible": *req.Visible}})
}

func (s *Server) APITokenSafety(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, buildGinErrorRespond(errors.New("invalid address")))
		return
	}

	safety := tokenlist.SafetyUnknown
	if s.safety != nil {
		safety = s.safety.Check(common.HexToAddress(address))
	}
	c.JSON(http.StatusOK, APIRespond{Result: SafetyRespond{
		Address: common.HexToAddress(address).Hex(),
		Safety:  safety.String(),
	}})
}

func (s *Server) APIQuickQuote(c *gin.Context) {
	var req QuickQuoteRequest
	if err := decodeBody(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, buildGinErrorRespond(err))
		return
	}

	trade, err := quote.TransformQuickRouteToTrade(req.Args, req.Response)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, buildGinErrorRespond(err))
		return
	}
	c.JSON(http.StatusOK, APIRespond{Result: QuoteRespond{
		State: quote.QuoteStateSuccess,
		Trade: buildTradeRespond(trade),
	}})
}

func (s *Server) APIClassicQuote(c *gin.Context) {
	var req ClassicQuoteRequest
	if err := decodeBody(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, buildGinErrorRespond(err))
		return
	}
	if req.Method == "" {
		req.Method = quote.QuoteMethodRoutingAPI
	}

	result, err := quote.TransformRoutesToTrade(req.Args, req.Response, req.Method)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, buildGinErrorRespond(err))
		return
	}

	respond := QuoteRespond{State: result.State}
	if result.Trade != nil {
		respond.Trade = buildTradeRespond(result.Trade)
	}
	c.JSON(http.StatusOK, APIRespond{Result: respond})
}

// decodeBody reads quote payloads with jsoniter, which keeps nested raw quotes intact
func decodeBody(c *gin.Context, v interface{}) error {
	data, err := c.GetRawData()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
