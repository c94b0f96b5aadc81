package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
	"github.com/juuwaah/kotoba-akinator/internal/api"
	"github.com/juuwaah/kotoba-akinator/internal/game"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

// ConnCtx is attached to every socket and remembers which session it plays.
type ConnCtx struct {
	SessionID string
}

// Session is the subset of game.Manager the socket surface drives.
type Session interface {
	NewSessionID() string
	Do(ctx context.Context, id string, a akinator.Action) (akinator.View, akinator.Effects, error)
	View(ctx context.Context, id string) (akinator.View, error)
}

var _ Session = (*game.Manager)(nil)

type Server struct {
	mgr     Session
	limiter *api.RateLimiter
	timeout time.Duration

	mu      sync.Mutex
	members map[string]map[string]socketio.Conn // sessionID -> socketID -> Conn
}

// New builds the socket surface. limiter may be nil to disable throttling.
func New(mgr Session, limiter *api.RateLimiter, timeout time.Duration) *Server {
	return &Server{mgr: mgr, limiter: limiter, timeout: timeout, members: make(map[string]map[string]socketio.Conn)}
}

type startPayload struct {
	Role string `json:"role"`
	Tier string `json:"tier"`
}

type messagePayload struct {
	Text string `json:"text"`
}

type guessPayload struct {
	Candidate string `json:"candidate"`
}

type resumePayload struct {
	SessionID string `json:"sessionId"`
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "akinator:start", srv.start)

	io.OnEvent("/", "akinator:message", func(s socketio.Conn, p messagePayload) map[string]any {
		return srv.act(s, akinator.SubmitMessage{Text: p.Text})
	})

	io.OnEvent("/", "akinator:guess", func(s socketio.Conn, p guessPayload) map[string]any {
		return srv.act(s, akinator.SubmitDirectGuess{Candidate: p.Candidate})
	})

	io.OnEvent("/", "akinator:restart", func(s socketio.Conn) map[string]any {
		return srv.act(s, akinator.Restart{})
	})

	// akinator:resume (reconnection)
	io.OnEvent("/", "akinator:resume", srv.resume)

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.SessionID != "" {
			srv.removeMember(ctx.SessionID, s)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) start(s socketio.Conn, p startPayload) map[string]any {
	ctx := srv.conn(s)
	if ctx.SessionID == "" {
		ctx.SessionID = cookieSession(s)
		if ctx.SessionID == "" {
			ctx.SessionID = srv.mgr.NewSessionID()
		}
		srv.addMember(ctx.SessionID, s)
	}
	return srv.act(s, akinator.StartGame{
		Role: akinator.Role(p.Role),
		Tier: vocab.Tier(strings.ToUpper(strings.TrimSpace(p.Tier))),
	})
}

func (srv *Server) resume(s socketio.Conn, p resumePayload) map[string]any {
	if p.SessionID == "" {
		return srv.err(s, api.Failure{Code: "bad_request", Message: "sessionId required"})
	}
	if owner := cookieSession(s); owner != "" && owner != p.SessionID {
		log.Warn().Str("sid", s.ID()).Str("session", p.SessionID).Msg("resume rejected, cookie names another session")
		return srv.err(s, api.Failure{Code: "forbidden", Message: "session belongs to another client"})
	}
	ctx := srv.conn(s)
	if ctx.SessionID != "" && ctx.SessionID != p.SessionID {
		srv.removeMember(ctx.SessionID, s)
	}
	ctx.SessionID = p.SessionID
	srv.addMember(p.SessionID, s)
	view, err := srv.mgr.View(context.Background(), p.SessionID)
	if err != nil {
		return srv.err(s, api.Classify(err))
	}
	log.Info().Str("sid", s.ID()).Str("session", p.SessionID).Msg("akinator:resume")
	s.Emit("akinator:state", view)
	return map[string]any{"ok": true, "sessionId": p.SessionID, "state": view}
}

// cookieSession returns the HTTP session id sent with the handshake, if any.
func cookieSession(s socketio.Conn) string {
	h := s.RemoteHeader()
	if h == nil {
		return ""
	}
	c, err := (&http.Request{Header: h}).Cookie(api.SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (srv *Server) conn(s socketio.Conn) *ConnCtx {
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx != nil {
		return ctx
	}
	ctx := &ConnCtx{}
	s.SetContext(ctx)
	return ctx
}

func (srv *Server) act(s socketio.Conn, a akinator.Action) map[string]any {
	ctx := srv.conn(s)
	if ctx.SessionID == "" {
		return srv.err(s, api.Classify(akinator.ErrNotStarted))
	}
	if srv.limiter != nil && !srv.limiter.Allow(remoteKey(s)) {
		return srv.err(s, api.Failure{Code: "rate_limited", Message: "Too many requests. Please slow down.", Retry: true})
	}

	reqCtx := context.Background()
	if srv.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, srv.timeout)
		defer cancel()
	}
	view, eff, err := srv.mgr.Do(reqCtx, ctx.SessionID, a)
	if err != nil {
		f := api.Classify(err)
		out := srv.err(s, f)
		out["state"] = view
		return out
	}
	srv.emitState(ctx.SessionID, view)
	out := map[string]any{"ok": true, "sessionId": ctx.SessionID, "state": view}
	if eff.Ended {
		out["ended"] = true
		out["reason"] = eff.Reason
	}
	return out
}

func remoteKey(s socketio.Conn) string {
	addr := s.RemoteAddr()
	if addr == nil {
		return s.ID()
	}
	host := addr.String()
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

func (srv *Server) addMember(id string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[id] == nil {
		srv.members[id] = make(map[string]socketio.Conn)
	}
	srv.members[id][c.ID()] = c
}

func (srv *Server) removeMember(id string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[id]; m != nil {
		delete(m, c.ID())
		if len(m) == 0 {
			delete(srv.members, id)
		}
	}
}

// emitState pushes the view to every connection playing the session, so a
// second tab stays in sync.
func (srv *Server) emitState(id string, view akinator.View) {
	srv.mu.Lock()
	conns := make([]socketio.Conn, 0, len(srv.members[id]))
	for _, c := range srv.members[id] {
		conns = append(conns, c)
	}
	srv.mu.Unlock()
	for _, c := range conns {
		c.Emit("akinator:state", view)
	}
}

func (srv *Server) err(s socketio.Conn, f api.Failure) map[string]any {
	s.Emit("error", map[string]any{"code": f.Code, "message": f.Message, "retry": f.Retry})
	return map[string]any{"error": f.Message, "code": f.Code}
}
