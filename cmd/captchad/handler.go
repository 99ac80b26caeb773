package main

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mathcaptcha/captcha"
)

// messages is the daemon's English catalog for the two user-facing
// failure keys. A localized deployment swaps this map out.
var messages = map[string]string{
	captcha.MsgKeyCodeError:   "The answer is wrong or the challenge has expired.",
	captcha.MsgKeyCodeMissing: "Enter the number shown in the image.",
}

type handler struct {
	svc *captcha.Service
	log zerolog.Logger
}

func newHandler(svc *captcha.Service, log zerolog.Logger) *handler {
	return &handler{svc: svc, log: log.With().Str("component", "http").Logger()}
}

func (h *handler) register(r *gin.Engine) {
	r.GET("/api/captcha", h.newChallenge)
	r.POST("/api/captcha/verify", h.verify)
}

type challengeResponse struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

type verifyRequest struct {
	ID     string `json:"id" binding:"required"`
	Answer string `json:"answer"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// newChallenge generates a challenge and returns its identifier and the
// image as a base64 data URI. The expected answer stays server-side.
func (h *handler) newChallenge(c *gin.Context) {
	ch, err := h.svc.Generate(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("generate challenge")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "challenge generation failed"})
		return
	}
	mime := "image/png"
	if h.svc.Options().Format == captcha.FormatJPEG {
		mime = "image/jpeg"
	}
	c.JSON(http.StatusOK, challengeResponse{
		ID:    ch.ID,
		Image: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(ch.Image),
	})
}

func (h *handler) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	err := h.svc.ValidateString(c.Request.Context(), req.ID, req.Answer)
	if err == nil {
		c.JSON(http.StatusOK, verifyResponse{Success: true})
		return
	}
	if f, ok := captcha.AsFailure(err); ok {
		c.JSON(http.StatusOK, verifyResponse{Success: false, Message: messages[f.MessageKey()]})
		return
	}
	h.log.Error().Err(err).Str("id", req.ID).Msg("verify challenge")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
}
