package listnotifications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	inboxport "github.com/medeiros-dev/notification-template-service/go-producer/internal/domain/port/inbox"
	"github.com/medeiros-dev/notification-template-service/go-producer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/internal/inbox"
	"go.uber.org/zap"
)

type listQuery struct {
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Format string `form:"format" binding:"omitempty,oneof=html markdown plain"`
}

type ListNotificationsHandler struct {
	useCase ListNotificationsUseCase
}

func NewListNotificationsHandler(useCase ListNotificationsUseCase) *ListNotificationsHandler {
	return &ListNotificationsHandler{useCase: useCase}
}

func NewListNotifications(reader inboxport.Reader, classPrefix string) *ListNotificationsHandler {
	return NewListNotificationsHandler(NewListNotificationsUseCase(reader, classPrefix))
}

// Handle serves GET /users/:userId/notifications?limit=&format=.
func (h *ListNotificationsHandler) Handle(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	input := ListNotificationsInputDTO{UserID: c.Param("userId"), Limit: q.Limit, Format: q.Format}
	output, err := h.useCase.Execute(ctx, input)
	if err != nil {
		if errors.Is(err, inbox.ErrEmptyUserID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.L().Error("Failed to list inbox notifications",
			zap.String("userID", input.UserID),
			zap.String("traceID", logger.TraceIDFromContext(ctx)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, output)
}
