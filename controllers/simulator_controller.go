package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vaultbackend/services"
	"vaultbackend/types"
)

type SimulatorControllerI interface {
	CreateSession(ctx *gin.Context)
	GetSession(ctx *gin.Context)
	UpdateParams(ctx *gin.Context)
	PostMessage(ctx *gin.Context)
	DownloadReport(ctx *gin.Context)
}

type simulatorController struct{}

var SimulatorController SimulatorControllerI = &simulatorController{}

type createSessionRequest struct {
	PropertyValue float64 `json:"propertyValue"`
	Address       string  `json:"address"`
}

// CreateSession starts a simulator conversation, optionally seeded with a
// price and an address.
func (s *simulatorController) CreateSession(ctx *gin.Context) {
	span := sentry.StartSpan(ctx.Request.Context(), "simulator.createSession")
	defer span.Finish()

	var req createSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.PropertyValue < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "propertyValue must be non-negative"})
		return
	}

	session := services.SessionStore.Create(req.PropertyValue, req.Address)
	ctx.JSON(http.StatusCreated, session)
}

func (s *simulatorController) GetSession(ctx *gin.Context) {
	session, err := services.SessionStore.Get(ctx.Param("id"))
	if err != nil {
		respondSessionErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// UpdateParams applies a direct parameter delta, the slider/toggle path
// that bypasses the chat extractor.
func (s *simulatorController) UpdateParams(ctx *gin.Context) {
	span := sentry.StartSpan(ctx.Request.Context(), "simulator.updateParams")
	defer span.Finish()

	var delta types.ScenarioUpdate
	if err := ctx.ShouldBindJSON(&delta); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if delta.IsEmpty() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "no parameters in request"})
		return
	}

	session, err := services.SessionStore.ApplyDelta(ctx.Param("id"), &delta)
	if err != nil {
		respondSessionErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

type postMessageRequest struct {
	Text string `json:"text"`
}

func (s *simulatorController) PostMessage(ctx *gin.Context) {
	span := sentry.StartSpan(ctx.Request.Context(), "simulator.postMessage")
	defer span.Finish()

	var req postMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	session, reply, err := services.SessionStore.HandleMessage(ctx.Param("id"), req.Text)
	if err != nil {
		respondSessionErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"reply":   reply,
		"state":   session.State,
		"metrics": session.Metrics,
	})
}

// DownloadReport streams the session workbook; nothing is written to disk.
func (s *simulatorController) DownloadReport(ctx *gin.Context) {
	span := sentry.StartSpan(ctx.Request.Context(), "simulator.downloadReport")
	defer span.Finish()

	session, err := services.SessionStore.Get(ctx.Param("id"))
	if err != nil {
		respondSessionErr(ctx, err)
		return
	}

	file, err := services.BuildReport(ctx.Request.Context(), session)
	if err != nil {
		zap.L().Error("report build failed", zap.String("sessionId", session.ID), zap.Error(err))
		sentry.CaptureException(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	defer file.Close()

	ctx.Header("Content-Disposition", `attachment; filename="simulation-`+session.ID+`.xlsx"`)
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(ctx.Writer); err != nil {
		zap.L().Error("report stream failed", zap.String("sessionId", session.ID), zap.Error(err))
		sentry.CaptureException(err)
	}
}

func respondSessionErr(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrSessionNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	zap.L().Error("session operation failed", zap.Error(err))
	sentry.CaptureException(err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
