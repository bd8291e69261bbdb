// Package api exposes the vault over a JSON HTTP API. Handlers translate
// between wire shapes and the service layer; all authorization decisions
// stay in the services.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yebin817/passvault/internal/common"
	"github.com/yebin817/passvault/internal/logging"
	"github.com/yebin817/passvault/internal/server/services"
)

// Handler wires HTTP routes to the vault services.
type Handler struct {
	users     *services.UserService
	vault     *services.VaultService
	reset     *services.ResetService
	jwtSecret []byte
	logger    logging.Logger
}

// NewHandler constructs the API handler over the given services.
func NewHandler(users *services.UserService, vault *services.VaultService, reset *services.ResetService, jwtSecret []byte, logger logging.Logger) *Handler {
	return &Handler{
		users:     users,
		vault:     vault,
		reset:     reset,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// RegisterRoutes mounts all API routes on the router. Entry routes require a
// Bearer token; account and reset routes are public.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/reset/request", h.requestReset)
		api.GET("/reset/:token", h.validateReset)
		api.POST("/reset/:token", h.confirmReset)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	entries := api.Group("/entries", h.requireAuth())
	{
		entries.POST("", h.addEntry)
		entries.GET("", h.searchEntries)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
		entries.GET("/:id/password", h.revealPassword)
	}
}

// writeError maps service errors to HTTP statuses. Unknown errors are logged
// and reported as an opaque 500 so internals do not leak to clients.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
	case errors.Is(err, common.ErrDecryption):
		c.JSON(http.StatusConflict, gin.H{"error": "stored password cannot be decrypted"})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username, "email": user.Email})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

type entryRequest struct {
	ServiceName string `json:"service_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Notes       string `json:"notes"`
}

func (h *Handler) addEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.vault.Add(c.Request.Context(), ownerID(c), services.AddEntryParams{
		ServiceName: req.ServiceName,
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) searchEntries(c *gin.Context) {
	views, err := h.vault.Search(c.Request.Context(), ownerID(c), c.Query("q"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]entryResponse, len(views))
	for i, v := range views {
		resp[i] = viewToResponse(v)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getEntry(c *gin.Context) {
	view, err := h.vault.GetForEdit(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := editResponse{
		entryResponse: viewToResponse(view.EntryView),
		Password:      view.Password,
		Undecryptable: view.Undecryptable,
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.vault.Update(c.Request.Context(), ownerID(c), c.Param("id"), services.UpdateEntryParams{
		ServiceName: req.ServiceName,
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteEntry(c *gin.Context) {
	if err := h.vault.Delete(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) revealPassword(c *gin.Context) {
	password, err := h.vault.Reveal(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"password": password})
}

type resetRequest struct {
	Email string `json:"email"`
}

// requestReset issues a new reset token. Unknown emails get the same 202 as
// known ones so the endpoint cannot be used to probe for accounts; the token
// itself is only logged as issued, never echoed to the client.
func (h *Handler) requestReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	_, err := h.reset.Issue(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		h.writeError(c, err)
		return
	}
	if err == nil {
		h.logger.Info(c.Request.Context(), "reset token issued", "email", req.Email)
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *Handler) validateReset(c *gin.Context) {
	user, err := h.reset.Validate(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

type confirmResetRequest struct {
	Password string `json:"password"`
}

func (h *Handler) confirmReset(c *gin.Context) {
	var req confirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.reset.Consume(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
