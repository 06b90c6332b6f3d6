// Package httpapi exposes the files manager over HTTP using gin.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/gin-gonic/gin"
)

type AuthAPI interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, authorization string) (string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*models.User, error)
}

type FilesAPI interface {
	CreateNode(ctx context.Context, token string, in services.NodeInput) (*models.FileNode, error)
	GetNode(ctx context.Context, token, id string) (*models.FileNode, error)
	ListNodes(ctx context.Context, token, parentID string, page int) ([]*models.FileNode, error)
	SetPublic(ctx context.Context, token, id string, value bool) (*models.FileNode, error)
}

type ContentAPI interface {
	ReadContent(ctx context.Context, token, id, size string) (*services.Content, error)
}

type StatusAPI interface {
	Status(ctx context.Context) services.Status
	Stats(ctx context.Context) (*services.Stats, error)
}

// Handler holds the gin handlers for every route.
type Handler struct {
	auth    AuthAPI
	files   FilesAPI
	content ContentAPI
	status  StatusAPI
	logger  logging.Logger
}

func NewHandler(a AuthAPI, f FilesAPI, c ContentAPI, s StatusAPI, logger logging.Logger) *Handler {
	return &Handler{
		auth:    a,
		files:   f,
		content: c,
		status:  s,
		logger:  logger.With("module", "http"),
	}
}

func token(c *gin.Context) string {
	return c.GetHeader(common.TokenHeaderName)
}

func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.Status(c.Request.Context()))
}

func (h *Handler) GetStats(c *gin.Context) {
	st, err := h.status.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) PostUser(c *gin.Context) {
	var req registerRequest
	if !h.bind(c, &req) {
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email})
}

func (h *Handler) GetConnect(c *gin.Context) {
	t, err := h.auth.Login(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": t})
}

func (h *Handler) GetDisconnect(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), token(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetMe(c *gin.Context) {
	u, err := h.auth.Me(c.Request.Context(), token(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email})
}

// parentID accepts a JSON string or number; clients commonly send 0 for the
// root.
type parentID string

func (p *parentID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = parentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parentId must be a string or a number")
	}
	*p = parentID(n.String())
	return nil
}

type createNodeRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	ParentID parentID `json:"parentId"`
	IsPublic bool     `json:"isPublic"`
	Data     string   `json:"data"`
}

func (h *Handler) PostFile(c *gin.Context) {
	var req createNodeRequest
	if !h.bind(c, &req) {
		return
	}

	node, err := h.files.CreateNode(c.Request.Context(), token(c), services.NodeInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (h *Handler) GetFile(c *gin.Context) {
	node, err := h.files.GetNode(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

func (h *Handler) ListFiles(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 0
	}

	nodes, err := h.files.ListNodes(c.Request.Context(), token(c), c.DefaultQuery("parentId", common.RootParentID), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nodes)
}

func (h *Handler) PutPublish(c *gin.Context) {
	h.setPublic(c, true)
}

func (h *Handler) PutUnpublish(c *gin.Context) {
	h.setPublic(c, false)
}

func (h *Handler) setPublic(c *gin.Context, value bool) {
	node, err := h.files.SetPublic(c.Request.Context(), token(c), c.Param("id"), value)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

func (h *Handler) GetFileData(c *gin.Context) {
	content, err := h.content.ReadContent(c.Request.Context(), token(c), c.Param("id"), c.Query("size"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, content.ContentType, content.Data)
}

// bind decodes a JSON body into dst. An empty body leaves dst zero-valued.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return false
	}
	return true
}
