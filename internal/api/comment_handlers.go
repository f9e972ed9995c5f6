package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/eonix/collab/internal/annotations"
	"github.com/eonix/collab/internal/directory"
)

// PositionRequest is a normalized canvas anchor in percent offsets.
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateCommentRequest creates a root-level canvas comment.
type CreateCommentRequest struct {
	Content    string          `json:"content" validate:"required"`
	Position   PositionRequest `json:"position"`
	MentionIDs []string        `json:"mention_ids"`
}

// CreateReplyRequest appends a reply to an existing comment.
type CreateReplyRequest struct {
	Content    string   `json:"content" validate:"required"`
	MentionIDs []string `json:"mention_ids"`
}

// SetActiveCommentRequest selects a comment; an empty id clears the selection.
type SetActiveCommentRequest struct {
	ID string `json:"id"`
}

// CanvasStateResponse is the transient UI-mode state presentation depends on.
type CanvasStateResponse struct {
	ActiveCommentID string `json:"active_comment_id"`
	IsAddingComment bool   `json:"is_adding_comment"`
}

func (s *Server) listComments(c echo.Context) error {
	return c.JSON(http.StatusOK, s.annotations.Comments())
}

func (s *Server) createComment(c echo.Context) error {
	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content must not be empty")
	}

	// Positions are percentage offsets. Out-of-range values are passed
	// through unclamped; the boundary only flags them.
	if req.Position.X < 0 || req.Position.X > 100 || req.Position.Y < 0 || req.Position.Y > 100 {
		log.Warn().
			Float64("x", req.Position.X).
			Float64("y", req.Position.Y).
			Msg("comment position outside [0,100] percent range")
	}

	mentions, err := s.resolveMentions(req.MentionIDs)
	if err != nil {
		return err
	}

	comment := s.annotations.AddComment(
		annotations.Position{X: req.Position.X, Y: req.Position.Y},
		content,
		mentions,
		s.directory.CurrentUser(),
	)
	log.Info().
		Str("comment_id", comment.ID).
		Int("mentions", len(mentions)).
		Msg("comment created")
	return c.JSON(http.StatusCreated, comment)
}

func (s *Server) createReply(c echo.Context) error {
	var req CreateReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content must not be empty")
	}

	mentions, err := s.resolveMentions(req.MentionIDs)
	if err != nil {
		return err
	}

	reply, err := s.annotations.AddReply(c.Param("id"), content, mentions, s.directory.CurrentUser())
	if err != nil {
		if errors.Is(err, annotations.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return err
	}
	return c.JSON(http.StatusCreated, reply)
}

func (s *Server) resolveComment(c echo.Context) error {
	if err := s.annotations.ResolveComment(c.Param("id")); err != nil {
		if errors.Is(err, annotations.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteComment(c echo.Context) error {
	if err := s.annotations.DeleteComment(c.Param("id")); err != nil {
		if errors.Is(err, annotations.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "comment not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getCanvasState(c echo.Context) error {
	return c.JSON(http.StatusOK, CanvasStateResponse{
		ActiveCommentID: s.annotations.ActiveCommentID(),
		IsAddingComment: s.annotations.IsAddingComment(),
	})
}

func (s *Server) setActiveComment(c echo.Context) error {
	var req SetActiveCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	s.annotations.SetActiveComment(req.ID)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) toggleAddingComment(c echo.Context) error {
	s.annotations.ToggleAddingComment()
	return c.JSON(http.StatusOK, CanvasStateResponse{
		ActiveCommentID: s.annotations.ActiveCommentID(),
		IsAddingComment: s.annotations.IsAddingComment(),
	})
}

func (s *Server) flushWebhooks(c echo.Context) error {
	payloads := s.annotations.FlushPendingWebhooks()
	if len(payloads) > 0 {
		log.Info().Int("count", len(payloads)).Msg("drained pending webhook payloads")
	}
	return c.JSON(http.StatusOK, payloads)
}

func (s *Server) pendingWebhooks(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{
		"pending": s.annotations.PendingWebhookCount(),
	})
}

// resolveMentions maps mention ids to roster members. Unknown ids are a
// boundary validation failure.
func (s *Server) resolveMentions(ids []string) ([]directory.Member, error) {
	mentions := make([]directory.Member, 0, len(ids))
	for _, id := range ids {
		m, ok := s.directory.MemberByID(id)
		if !ok {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unknown mention id: "+id)
		}
		mentions = append(mentions, m)
	}
	return mentions, nil
}
