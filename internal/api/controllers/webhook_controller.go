package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
	"saasbase/internal/providers"
	"saasbase/internal/services"
)

const webhookBodyLimit = 1 << 20 // 1MiB

// WebhookController is the provider event ingress. Signature verification is
// the authentication mechanism for this endpoint; nothing is parsed before it
// passes. Acknowledgment happens only after the reconciler settles the event,
// so a failed apply makes the provider redeliver.
type WebhookController struct {
	reconciler services.ReconcilerService
	secret     string
	logger     *zap.Logger
}

func NewWebhookController(reconciler services.ReconcilerService, webhookSecret string, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		reconciler: reconciler,
		secret:     webhookSecret,
		logger:     logger,
	}
}

func (w *WebhookController) HandleWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, webhookBodyLimit)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, w.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		w.logger.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	billingEvent, err := providers.ParseStripeEvent(&event)
	if err != nil {
		// Signed but malformed; redelivery will not improve it.
		w.logger.Error("failed to parse verified event",
			zap.String("event_id", event.ID),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := w.reconciler.Apply(c.Request.Context(), billingEvent); err != nil {
		w.logger.Error("failed to apply billing event",
			zap.String("event_id", billingEvent.ID),
			zap.String("kind", string(billingEvent.Kind)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event not processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
