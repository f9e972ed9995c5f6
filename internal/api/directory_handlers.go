package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/eonix/collab/internal/directory"
	"github.com/eonix/collab/internal/mention"
)

// CreateInviteRequest asks for a shareable invite link granting a role.
type CreateInviteRequest struct {
	Role string `json:"role" validate:"required,oneof=admin editor viewer"`
}

// CreateInviteResponse carries the signed invite link.
type CreateInviteResponse struct {
	InviteLink string `json:"invite_link"`
}

func (s *Server) listMembers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.directory.ListMembers())
}

func (s *Server) getCurrentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, s.directory.CurrentUser())
}

func (s *Server) createInvite(c echo.Context) error {
	var req CreateInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	link, err := s.invites.GenerateInviteLink(s.directory.CurrentUser(), directory.Role(req.Role))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate invite link")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate invite link")
	}
	return c.JSON(http.StatusCreated, CreateInviteResponse{InviteLink: link})
}

// mentionCandidates filters the roster for an @-mention query. An empty list
// is a valid result; the dropdown stays hidden.
func (s *Server) mentionCandidates(c echo.Context) error {
	query := c.QueryParam("query")
	candidates := mention.FilterCandidates(query, s.directory.ListMembers())
	return c.JSON(http.StatusOK, candidates)
}
