package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
)

// AccountService is what the connection routes need from the app layer.
type AccountService interface {
	Connections() []string
	VerifyCredentials(ctx context.Context, connection string) (*domain.Account, error)
	VerifyAll(ctx context.Context) []domain.ConnectionStatus
}

// ConnectionsHandler serves /api/v1/connections.
type ConnectionsHandler struct {
	service AccountService
}

// NewConnectionsHandler creates a connections handler.
func NewConnectionsHandler(service AccountService) *ConnectionsHandler {
	return &ConnectionsHandler{service: service}
}

// List handles GET /api/v1/connections.
//
// @Summary List configured connections
// @Tags connections
// @Produce json
// @Success 200 {object} dto.ConnectionsResponse
// @Router /api/v1/connections [get]
func (h *ConnectionsHandler) List(c *gin.Context) {
	names := h.service.Connections()
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, dto.ConnectionsResponse{Connections: names})
}

// Account handles GET /api/v1/connections/:name/account.
//
// @Summary Verify one connection
// @Tags connections
// @Produce json
// @Param name path string true "Connection name"
// @Success 200 {object} dto.AccountEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/connections/{name}/account [get]
func (h *ConnectionsHandler) Account(c *gin.Context) {
	var uri dto.ConnectionURI
	if err := dto.BindURIAndValidate(c, &uri); err != nil {
		resp := dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"invalid connection name",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c))
		c.JSON(http.StatusBadRequest, resp)

		return
	}

	acct, err := h.service.VerifyCredentials(c.Request.Context(), uri.Name)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AccountEnvelope{
		Connection: uri.Name,
		Account:    dto.NewAccountResponse(acct),
	})
}

// VerifyAll handles GET /api/v1/connections/-/verify. Per-connection
// failures are reported in the body; the status is always 200.
//
// @Summary Verify every connection
// @Tags connections
// @Produce json
// @Success 200 {object} dto.VerifyResponse
// @Router /api/v1/connections/-/verify [get]
func (h *ConnectionsHandler) VerifyAll(c *gin.Context) {
	statuses := h.service.VerifyAll(c.Request.Context())

	c.JSON(http.StatusOK, dto.NewVerifyResponse(statuses))
}

// RegisterRoutes mounts the connection routes on rg.
func (h *ConnectionsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	conns := rg.Group("/connections")
	conns.GET("", h.List)
	conns.GET("/-/verify", h.VerifyAll)
	conns.GET("/:name/account", h.Account)
}
