// Package handlers implements the HTTP request handlers for the dashboard API.
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/echotube/echotube/pkg/dashboard"
	"github.com/echotube/echotube/pkg/fallback"
	"github.com/echotube/echotube/pkg/session"
)

// Server holds the dashboard API handlers
type Server struct {
	dashboard  dashboard.Service
	sessions   *session.Manager
	cookieName string
	log        logrus.FieldLogger
}

// NewServer creates a new API server instance
func NewServer(dashboardService dashboard.Service, sessions *session.Manager, cookieName string, log logrus.FieldLogger) *Server {
	return &Server{
		dashboard:  dashboardService,
		sessions:   sessions,
		cookieName: cookieName,
		log:        log.WithField("component", "api.handlers"),
	}
}

// Register mounts all dashboard routes on the router
func (s *Server) Register(router fiber.Router) {
	router.Get("/auth/status", s.AuthStatus)

	api := router.Group("/api")
	api.Get("/videos", s.GetVideos)
	api.Get("/comments", s.GetComments)
	api.Get("/hashtags", s.GetHashtags)
	api.Get("/analytics", s.GetAnalytics)
	api.Get("/live-stats", s.GetLiveStats)

	for _, action := range []string{"like", "unlike", "heart", "unheart"} {
		api.Post("/"+action, s.commentAction(action))
	}
	api.Post("/reply", s.Reply)
}

// AuthStatus handles GET /auth/status. An invalid or missing session is a
// regular false answer, not an error.
func (s *Server) AuthStatus(c fiber.Ctx) error {
	_, err := s.sessionFromRequest(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"authenticated": err == nil,
		"timestamp":     time.Now().Format(time.RFC3339),
	})
}

// GetVideos handles GET /api/videos
func (s *Server) GetVideos(c fiber.Ctx) error {
	sess, err := s.sessionFromRequest(c)
	if err != nil {
		return err
	}

	result, err := s.dashboard.Videos(c.Context(), sess)
	if err != nil {
		return err
	}

	return sendResult(c, result)
}

// GetComments handles GET /api/comments
func (s *Server) GetComments(c fiber.Ctx) error {
	sess, err := s.sessionFromRequest(c)
	if err != nil {
		return err
	}

	result, err := s.dashboard.Comments(c.Context(), sess)
	if err != nil {
		return err
	}

	return sendResult(c, result)
}

// GetHashtags handles GET /api/hashtags
func (s *Server) GetHashtags(c fiber.Ctx) error {
	sess, err := s.sessionFromRequest(c)
	if err != nil {
		return err
	}

	response, err := s.dashboard.Hashtags(c.Context(), sess)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetAnalytics handles GET /api/analytics
func (s *Server) GetAnalytics(c fiber.Ctx) error {
	sess, err := s.sessionFromRequest(c)
	if err != nil {
		return err
	}

	response, err := s.dashboard.Analytics(c.Context(), sess)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetLiveStats handles GET /api/live-stats
func (s *Server) GetLiveStats(c fiber.Ctx) error {
	sess, err := s.sessionFromRequest(c)
	if err != nil {
		return err
	}

	response, err := s.dashboard.LiveStats(c.Context(), sess)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

type commentActionRequest struct {
	CommentID string `json:"commentId"`
}

// commentAction builds the POST /api/{like,unlike,heart,unheart} handler
func (s *Server) commentAction(action string) fiber.Handler {
	return func(c fiber.Ctx) error {
		sess, err := s.sessionFromRequest(c)
		if err != nil {
			return err
		}

		var req commentActionRequest
		if err := c.Bind().Body(&req); err != nil || req.CommentID == "" {
			return ErrCommentIDRequired
		}

		if err := s.dashboard.ReactToComment(c.Context(), sess, req.CommentID, action); err != nil {
			return err
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"action":  action,
		})
	}
}

type replyRequest struct {
	CommentID string `json:"commentId"`
	ReplyText string `json:"replyText"`
}

// Reply handles POST /api/reply
func (s *Server) Reply(c fiber.Ctx) error {
	sess, err := s.sessionFromRequest(c)
	if err != nil {
		return err
	}

	var req replyRequest
	if err := c.Bind().Body(&req); err != nil || req.CommentID == "" || req.ReplyText == "" {
		return ErrReplyFieldsRequired
	}

	reply, err := s.dashboard.ReplyToComment(c.Context(), sess, req.CommentID, req.ReplyText)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"reply":   reply,
	})
}

// sendResult writes a resolved payload, surfacing degradation in headers so
// the dashboard can hint at data freshness.
func sendResult(c fiber.Ctx, result *fallback.Result) error {
	if result.Stale {
		c.Set("X-EchoTube-Stale", "true")
	}
	if result.Demo {
		c.Set("X-EchoTube-Demo", "true")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Status(fiber.StatusOK).Send(result.Payload)
}
