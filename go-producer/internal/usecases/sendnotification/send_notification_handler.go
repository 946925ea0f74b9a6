package sendnotification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/go-producer/pkg/logger"
	"go.uber.org/zap"
)

type SendNotificationHandler struct {
	useCase SendNotificationUseCase
}

func NewSendNotificationHandler(useCase SendNotificationUseCase) *SendNotificationHandler {
	return &SendNotificationHandler{useCase: useCase}
}

// Handle serves POST /send-notification. The response lists one entry per
// published channel; a failed publish shows up as status "error" in its entry.
func (h *SendNotificationHandler) Handle(c *gin.Context) {
	ctx, span := tracing.Tracer.Start(c.Request.Context(), "SendNotificationHandler.Handle")
	defer span.End()

	var input SendNotificationInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	output, err := h.useCase.Execute(ctx, input)
	if err != nil {
		logger.Ctx(ctx).Error("Send notification use case failed",
			zap.String("requestID", input.ID),
			zap.Int("channels", len(input.Channels)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to process notification"})
		return
	}
	c.JSON(http.StatusOK, output)
}
