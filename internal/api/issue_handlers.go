package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/eonix/collab/internal/issues"
)

// CreateIssueRequest creates an entity-linked issue.
type CreateIssueRequest struct {
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description"`
	Type             string `json:"type" validate:"required,oneof=bug architecture security improvement question"`
	Priority         string `json:"priority" validate:"required,oneof=low medium high critical"`
	LinkedEntityID   string `json:"linked_entity_id" validate:"required"`
	LinkedEntityName string `json:"linked_entity_name" validate:"required"`
	AssignedTo       string `json:"assigned_to"`
}

// UpdateIssueStatusRequest replaces an issue's status.
type UpdateIssueStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress blocked done"`
}

// AddIssueCommentRequest appends an entry to an issue's discussion log.
type AddIssueCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// OpenIssueModalRequest selects the target entity for the next issue.
type OpenIssueModalRequest struct {
	EntityID   string `json:"entity_id" validate:"required"`
	EntityName string `json:"entity_name" validate:"required"`
}

// IssueModalResponse is the transient create-modal state.
type IssueModalResponse struct {
	IsOpen       bool           `json:"is_open"`
	ActiveEntity *issues.Entity `json:"active_entity"`
}

func (s *Server) listIssues(c echo.Context) error {
	ctx := c.Request().Context()
	if entityID := c.QueryParam("entity_id"); entityID != "" {
		list, err := s.issues.GetIssuesForEntity(ctx, entityID)
		if err != nil {
			return err
		}
		if list == nil {
			list = []*issues.Issue{}
		}
		return c.JSON(http.StatusOK, list)
	}
	list, err := s.issues.ListIssues(ctx)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*issues.Issue{}
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) createIssue(c echo.Context) error {
	var req CreateIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
	}

	issue, err := s.issues.CreateIssue(c.Request().Context(), issues.Draft{
		Title:            title,
		Description:      req.Description,
		Type:             issues.Type(req.Type),
		Priority:         issues.Priority(req.Priority),
		LinkedEntityID:   req.LinkedEntityID,
		LinkedEntityName: req.LinkedEntityName,
		AssignedTo:       req.AssignedTo,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create issue")
		return err
	}
	return c.JSON(http.StatusCreated, issue)
}

func (s *Server) getIssue(c echo.Context) error {
	issue, err := s.issues.GetIssue(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, issues.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "issue not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, issue)
}

func (s *Server) updateIssueStatus(c echo.Context) error {
	var req UpdateIssueStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := s.issues.UpdateIssueStatus(c.Request().Context(), c.Param("id"), issues.Status(req.Status))
	if err != nil {
		if errors.Is(err, issues.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "issue not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) addIssueComment(c echo.Context) error {
	var req AddIssueCommentRequest
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

	comment, err := s.issues.AddComment(c.Request().Context(), c.Param("id"), content, s.directory.CurrentUser().Name)
	if err != nil {
		if errors.Is(err, issues.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "issue not found")
		}
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

func (s *Server) getIssueModal(c echo.Context) error {
	return c.JSON(http.StatusOK, IssueModalResponse{
		IsOpen:       s.issues.IsModalOpen(),
		ActiveEntity: s.issues.ActiveEntity(),
	})
}

func (s *Server) openIssueModal(c echo.Context) error {
	var req OpenIssueModalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s.issues.OpenCreateModal(req.EntityID, req.EntityName)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) closeIssueModal(c echo.Context) error {
	s.issues.CloseCreateModal()
	return c.NoContent(http.StatusNoContent)
}
