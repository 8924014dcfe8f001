package apihandlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"selectsense/internal/app"
	"selectsense/internal/assist"
	"selectsense/internal/hint"
	"selectsense/internal/segment"
	"selectsense/internal/services"
	"selectsense/pkg/categorizer"
)

const maxBatchItems = 1000

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

// ClassifyRequest is the body of POST /classify. When HTML is set the hint
// is derived from the markup around Text.
type ClassifyRequest struct {
	Text string                     `json:"text"`
	Hint categorizer.StructuralHint `json:"hint"`
	HTML string                     `json:"html,omitempty"`
}

func (h *APIHandler) ClassifyHandler(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sh := req.Hint
	if req.HTML != "" {
		derived, err := hint.FromHTML(strings.NewReader(req.HTML), req.Text)
		if err != nil && !errors.Is(err, hint.ErrSelectionNotFound) {
			BadRequest(c, "Invalid html: "+err.Error())
			return
		}
		sh.LooksLikeCode = sh.LooksLikeCode || derived.LooksLikeCode
		sh.LooksLikeMath = sh.LooksLikeMath || derived.LooksLikeMath
	}

	res, err := h.App.ClassificationService.Classify(c.Request.Context(), req.Text, sh)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"result":  res,
		"hint":    sh,
		"actions": h.App.Actions.ForCategory(res.Category),
	}})
}

// BatchRequest is the body of POST /classify/batch. Exactly one of Items,
// Text or HTML is used, checked in that order.
type BatchRequest struct {
	Items []services.Item `json:"items,omitempty"`
	Text  string          `json:"text,omitempty"`
	Split string          `json:"split,omitempty"` // line, paragraph, sentence, whole
	HTML  string          `json:"html,omitempty"`
}

func (h *APIHandler) ClassifyBatchHandler(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	svc := h.App.ClassificationService.WithMaxItems(maxBatchItems)
	var (
		results []services.ItemResult
		err     error
	)
	switch {
	case len(req.Items) > 0:
		results, err = svc.ClassifyBatch(ctx, req.Items)
	case req.Text != "":
		mode := segment.ModeLine
		if req.Split != "" {
			if mode, err = segment.ParseMode(req.Split); err != nil {
				RespondError(c, err)
				return
			}
		}
		results, err = svc.ClassifyText(ctx, []byte(req.Text), "request", mode, categorizer.StructuralHint{})
	case req.HTML != "":
		results, err = svc.ClassifyHTML(ctx, strings.NewReader(req.HTML))
	default:
		BadRequest(c, "one of items, text or html is required")
		return
	}
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

// HintRequest is the body of POST /hint.
type HintRequest struct {
	HTML      string `json:"html" binding:"required"`
	Selection string `json:"selection" binding:"required"`
}

func (h *APIHandler) HintHandler(c *gin.Context) {
	var req HintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	sh, err := hint.FromHTML(strings.NewReader(req.HTML), req.Selection)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sh})
}

func (h *APIHandler) ActionsHandler(c *gin.Context) {
	category, err := categorizer.ParseCategory(c.Param("category"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"category": category,
		"actions":  h.App.Actions.ForCategory(category),
	}})
}

func (h *APIHandler) AssistHandler(c *gin.Context) {
	var req assist.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ActionID == "" {
		BadRequest(c, "action is required (one of "+strings.Join(h.App.Actions.IDs(), ", ")+")")
		return
	}

	resp, err := h.App.AssistService.Assist(c.Request.Context(), req)
	if err != nil {
		log.WithField("action", req.ActionID).Warnf("Assist failed: %v", err)
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *APIHandler) UsageHandler(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	summary, err := h.App.CostTracker.Summary(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	logs, err := h.App.CostTracker.ListUsage(ctx, limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"summary": summary, "usage": logs}})
}

func (h *APIHandler) HealthHandler(c *gin.Context) {
	if err := h.App.ReplyCache.Ping(c.Request.Context()); err != nil {
		ServiceUnavailable(c, "reply cache: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": h.App.Provider.Name(),
		"assist":   h.App.Provider.Status().String(),
		"actions":  len(h.App.Actions.IDs()),
	})
}

func parsePagination(c *gin.Context) (limit, offset int, err error) {
	limit, offset = 20, 0
	if s := c.Query("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
	}
	if s := c.Query("offset"); s != "" {
		if offset, err = strconv.Atoi(s); err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

