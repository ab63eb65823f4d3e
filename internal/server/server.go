package server

import (
	"context"
	"ctchen222/tictactoe-engine/internal/api/controller"
	"ctchen222/tictactoe-engine/internal/api/middleware"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/api/service"
	"ctchen222/tictactoe-engine/internal/hub"
	"ctchen222/tictactoe-engine/internal/session"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub      *hub.Hub
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

func NewServer(h *hub.Hub, sessionController *controller.SessionController, tokens service.TokenService) *Server {
	s := &Server{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/healthz", s.healthz)
	r.GET("/ws", middleware.RequireSession(tokens), s.handleWebSocket)

	api := r.Group("/api")
	api.POST("/sessions", sessionController.Create)

	sessions := api.Group("/sessions/:id", middleware.RequireSession(tokens))
	sessions.GET("", sessionController.Get)
	sessions.DELETE("", sessionController.Delete)
	sessions.POST("/moves", sessionController.Move)
	sessions.POST("/rematch", sessionController.Rematch)
	sessions.POST("/reset", sessionController.Reset)
	sessions.PUT("/mode", sessionController.SetMode)
	sessions.GET("/results", sessionController.Results)

	s.engine = r
	return s
}

// Engine returns the http.Handler serving every route.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) healthz(c *gin.Context) {
	response.SuccessResponse(c, gin.H{"status": "ok", "sessions": s.hub.Count()})
}

// handleWebSocket attaches an authenticated connection to its session and
// pumps messages until the connection closes.
func (s *Server) handleWebSocket(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	sess, ok := s.hub.Get(sessionID)
	if !ok {
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade connection", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	client := session.NewClient(uuid.NewString(), conn)
	span.SetAttributes(attribute.String("client.id", client.ID))

	if err := sess.Attach(ctx, client); err != nil {
		slog.WarnContext(ctx, "failed to attach client", "session.id", sessionID, "error", err)
		span.RecordError(err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
		conn.Close()
		return
	}

	go client.WritePump()
	sess.ReadPump(context.WithoutCancel(ctx), client)
}
