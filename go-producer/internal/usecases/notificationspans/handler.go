package notificationspans

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ResolveSpansHandler struct {
	useCase ResolveSpansUseCase
}

func NewResolveSpansHandler(useCase ResolveSpansUseCase) *ResolveSpansHandler {
	return &ResolveSpansHandler{useCase: useCase}
}

func (h *ResolveSpansHandler) Handle(c *gin.Context) {
	var input ResolveSpansInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.useCase.Execute(c.Request.Context(), input))
}

func NewResolveSpans(classPrefix string) *ResolveSpansHandler {
	return NewResolveSpansHandler(NewResolveSpansUseCase(classPrefix))
}
