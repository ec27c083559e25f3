package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/emrgen/circle/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	corsgin "github.com/rs/cors/wrapper/gin"
)

// NewRouter builds the HTTP surface over the graph facade.
func NewRouter(graph *service.GraphService) *gin.Engine {
	h := &graphHandler{graph: graph}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestTime())
	r.Use(corsgin.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-User-ID"},
	}))

	r.GET("/healthz", h.Health)

	r.POST("/connections", h.SendConnectionRequest)
	r.POST("/connections/:id/respond", h.RespondToConnection)

	r.GET("/users", h.SearchUsers)
	r.GET("/users/:id/connections", h.ListConnections)
	r.GET("/users/:id/pending", h.ListPendingRequests)
	r.GET("/users/:id/feed", h.Feed)
	r.GET("/users/:id/posts", h.PostsByAuthor)

	r.POST("/posts", h.CreatePost)
	r.POST("/posts/:id/like", h.ToggleLike)
	r.POST("/posts/:id/comments", h.AddComment)
	r.GET("/posts/:id/comments", h.ListComments)

	return r
}

type graphHandler struct {
	graph *service.GraphService
}

// actingUserID reads the authenticated caller id the presentation boundary
// placed in the X-User-ID header. The acting user is always explicit; the
// core keeps no session state.
func actingUserID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("X-User-ID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context) (int, int) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return offset, limit
}

// writeFailure maps the service taxonomy onto HTTP status codes. Anything
// untagged is a storage failure and reported as such.
func writeFailure(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrDuplicateRelationship):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (h *graphHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type sendConnectionRequest struct {
	AddresseeID uint   `json:"addressee_id" binding:"required"`
	Message     string `json:"message"`
}

func (h *graphHandler) SendConnectionRequest(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		badRequest(c, "missing or invalid X-User-ID header")
		return
	}

	var req sendConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "addressee_id is required")
		return
	}

	conn, err := h.graph.SendConnectionRequest(c.Request.Context(), userID, req.AddresseeID, req.Message)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, conn)
}

type respondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

func (h *graphHandler) RespondToConnection(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		badRequest(c, "missing or invalid X-User-ID header")
		return
	}

	connectionID, ok := pathID(c)
	if !ok {
		badRequest(c, "invalid connection id")
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "accept is required")
		return
	}

	conn, err := h.graph.RespondToConnection(c.Request.Context(), connectionID, userID, *req.Accept)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

func (h *graphHandler) ListConnections(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		badRequest(c, "invalid user id")
		return
	}

	views, err := h.graph.Connections(c.Request.Context(), userID)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *graphHandler) ListPendingRequests(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		badRequest(c, "invalid user id")
		return
	}

	views, err := h.graph.PendingRequests(c.Request.Context(), userID)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *graphHandler) Feed(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		badRequest(c, "invalid user id")
		return
	}

	offset, limit := pageParams(c)
	posts, err := h.graph.Feed(c.Request.Context(), userID, offset, limit)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *graphHandler) PostsByAuthor(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		badRequest(c, "invalid user id")
		return
	}

	offset, limit := pageParams(c)
	posts, err := h.graph.PostsByAuthor(c.Request.Context(), userID, offset, limit)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

type createPostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

func (h *graphHandler) CreatePost(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		badRequest(c, "missing or invalid X-User-ID header")
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "content is required")
		return
	}

	post, err := h.graph.CreatePost(c.Request.Context(), userID, req.Content, req.ImageURL)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *graphHandler) ToggleLike(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		badRequest(c, "missing or invalid X-User-ID header")
		return
	}

	postID, ok := pathID(c)
	if !ok {
		badRequest(c, "invalid post id")
		return
	}

	state, count, err := h.graph.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state, "like_count": count})
}

type addCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *graphHandler) AddComment(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		badRequest(c, "missing or invalid X-User-ID header")
		return
	}

	postID, ok := pathID(c)
	if !ok {
		badRequest(c, "invalid post id")
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "content is required")
		return
	}

	comment, err := h.graph.AddComment(c.Request.Context(), userID, postID, req.Content)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *graphHandler) ListComments(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		badRequest(c, "invalid post id")
		return
	}

	comments, err := h.graph.Comments(c.Request.Context(), postID)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *graphHandler) SearchUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	summaries, err := h.graph.SearchUsers(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}
