package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/server/biz"
)

type TournamentHandlersParams struct {
	fx.In

	TournamentService *biz.TournamentService
	PaymentService    *biz.PaymentService
}

func NewTournamentHandlers(params TournamentHandlersParams) *TournamentHandlers {
	return &TournamentHandlers{
		TournamentService: params.TournamentService,
		PaymentService:    params.PaymentService,
	}
}

type TournamentHandlers struct {
	TournamentService *biz.TournamentService
	PaymentService    *biz.PaymentService
}

func (h *TournamentHandlers) RegisterTeam(c *gin.Context) {
	var input biz.RegisterTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	team, err := h.TournamentService.RegisterTeam(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

func (h *TournamentHandlers) ListTeams(c *gin.Context) {
	teams, err := h.TournamentService.ListTeams(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}

func (h *TournamentHandlers) GetTeam(c *gin.Context) {
	team, err := h.TournamentService.GetTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TournamentHandlers) ListTeamPayments(c *gin.Context) {
	payments, err := h.PaymentService.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

func (h *TournamentHandlers) PostAnnouncement(c *gin.Context) {
	var input biz.PostAnnouncementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	a, err := h.TournamentService.PostAnnouncement(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

func (h *TournamentHandlers) ListAnnouncements(c *gin.Context) {
	list, err := h.TournamentService.ListAnnouncements(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *TournamentHandlers) ScheduleMatch(c *gin.Context) {
	var input biz.ScheduleMatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	m, err := h.TournamentService.ScheduleMatch(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *TournamentHandlers) ListMatches(c *gin.Context) {
	matches, err := h.TournamentService.ListMatches(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

type RecordResultRequest struct {
	HomeScore *int `json:"homeScore" binding:"required"`
	AwayScore *int `json:"awayScore" binding:"required"`
}

func (h *TournamentHandlers) RecordResult(c *gin.Context) {
	var req RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	m, err := h.TournamentService.RecordResult(c.Request.Context(), c.Param("id"), *req.HomeScore, *req.AwayScore)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *TournamentHandlers) Standings(c *gin.Context) {
	rows, err := h.TournamentService.Standings(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
