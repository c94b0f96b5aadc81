// Package api exposes the akinator game over HTTP.
package api

import (
	"net/http"
	"strings"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
	"github.com/juuwaah/kotoba-akinator/internal/game"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

const SessionCookie = "akinator_session"

type Options struct {
	RateLimitRPS   int
	RateLimitBurst int
	AdminUser      string
	AdminPass      string
	SecureCookie   bool
	SessionTTL     time.Duration
}

type Server struct {
	mgr     *game.Manager
	opts    Options
	limiter *RateLimiter
}

func New(mgr *game.Manager, opts Options) *Server {
	return &Server{mgr: mgr, opts: opts, limiter: NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)}
}

// Limiter exposes the per-client limiter so other surfaces can share it.
func (s *Server) Limiter() *RateLimiter { return s.limiter }

// NewRouter builds a gin engine with the standard middleware stack and the
// akinator routes registered.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog())
	r.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/socket.io"})))
	s.Register(r)
	return r
}

func (s *Server) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	apiGroup := r.Group("/api", cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))

	ak := apiGroup.Group("/akinator")
	ak.GET("/tiers", s.tiers)
	ak.GET("/state", s.state)

	mut := ak.Group("", s.limiter.Middleware())
	mut.POST("/start", s.start)
	mut.POST("/restart", s.restart)
	mut.POST("/message", s.message)
	mut.POST("/guess", s.guess)

	if s.opts.AdminUser != "" && s.opts.AdminPass != "" {
		admin := apiGroup.Group("/admin", gin.BasicAuth(gin.Accounts{s.opts.AdminUser: s.opts.AdminPass}))
		admin.GET("/sessions", s.sessions)
	} else {
		log.Info().Msg("admin routes disabled, ADMIN_USER/ADMIN_PASS not set")
	}
}

type response struct {
	akinator.View
	Ended  bool               `json:"ended,omitempty"`
	Reason akinator.EndReason `json:"reason,omitempty"`
	Error  *Failure           `json:"error,omitempty"`
}

func (s *Server) sessionID(c *gin.Context, create bool) string {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id
	}
	if !create {
		return ""
	}
	id := s.mgr.NewSessionID()
	maxAge := 0
	if s.opts.SessionTTL > 0 {
		maxAge = int(s.opts.SessionTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, id, maxAge, "/", "", s.opts.SecureCookie, true)
	return id
}

func (s *Server) do(c *gin.Context, a akinator.Action) {
	id := s.sessionID(c, true)
	view, eff, err := s.mgr.Do(c.Request.Context(), id, a)
	if err != nil {
		f := Classify(err)
		if f.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("session", id).Str("request_id", c.GetString("requestID")).Msg("action failed")
		}
		c.JSON(f.Status, response{View: view, Error: &f})
		return
	}
	c.JSON(http.StatusOK, response{View: view, Ended: eff.Ended, Reason: eff.Reason})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": Failure{Code: "bad_request", Message: msg}})
}

func (s *Server) tiers(c *gin.Context) {
	type tierInfo struct {
		Tier vocab.Tier `json:"tier"`
		Rank int        `json:"rank"`
	}
	out := make([]tierInfo, 0, len(vocab.Tiers()))
	for _, t := range vocab.Tiers() {
		out = append(out, tierInfo{Tier: t, Rank: t.Rank()})
	}
	c.JSON(http.StatusOK, gin.H{"tiers": out, "roles": []akinator.Role{akinator.RoleOracleGuesses, akinator.RoleUserGuesses}})
}

func (s *Server) state(c *gin.Context) {
	id := s.sessionID(c, false)
	if id == "" {
		c.JSON(http.StatusOK, response{View: akinator.Session{}.View()})
		return
	}
	view, err := s.mgr.View(c.Request.Context(), id)
	if err != nil {
		f := Classify(err)
		c.JSON(f.Status, gin.H{"error": f})
		return
	}
	c.JSON(http.StatusOK, response{View: view})
}

func (s *Server) start(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
		Tier string `json:"tier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	s.do(c, akinator.StartGame{
		Role: akinator.Role(req.Role),
		Tier: vocab.Tier(strings.ToUpper(strings.TrimSpace(req.Tier))),
	})
}

func (s *Server) restart(c *gin.Context) {
	s.do(c, akinator.Restart{})
}

func (s *Server) message(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	s.do(c, akinator.SubmitMessage{Text: req.Text})
}

func (s *Server) guess(c *gin.Context) {
	var req struct {
		Candidate string `json:"candidate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	s.do(c, akinator.SubmitDirectGuess{Candidate: req.Candidate})
}

func (s *Server) sessions(c *gin.Context) {
	sums, err := s.mgr.Sessions(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list sessions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": Classify(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sums, "count": len(sums)})
}
