package handlers

import (
	"net/http"
	"strconv"

	"blog_api/internal/models"
	"blog_api/internal/service"

	"github.com/gin-gonic/gin"
)

const errInvalidPaging = "limit and offset must be non-negative integers"

// CreatePostRequest is the payload for new posts; imageUrl is optional.
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required" example:"Hello"`
	Body     string `json:"body" binding:"required" example:"First post"`
	ImageURL string `json:"imageUrl,omitempty" example:"https://picsum.photos/500?random=7"`
}

// UpdatePostRequest changes only the fields that are present.
type UpdatePostRequest struct {
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// queryInt reads a non-negative integer query parameter, def when absent.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	s := c.Query(key)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// @Summary      List posts
// @Description  Newest first.
// @Tags         posts
// @Produce      json
// @Param        limit   query     int  false  "Page size (max 200)"  default(50)
// @Param        offset  query     int  false  "Offset"                default(0)
// @Success      200     {object}  map[string]interface{}  "count, posts"
// @Failure      400     {object}  map[string]string
// @Router       /api/v1/posts [get]
func (h *Handler) listPosts(c *gin.Context) {
	limit, okL := queryInt(c, "limit", 0)
	offset, okO := queryInt(c, "offset", 0)
	if !okL || !okO {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidPaging})
		return
	}
	posts, err := h.services.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, "posts_list_failed", err, "limit", limit, "offset", offset)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(posts),
		"posts": models.PostDicts(posts),
	})
}

// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  models.PostDict
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/posts/{id} [get]
func (h *Handler) getPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.services.GetPost(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "post_get_failed", err, "post_id", id)
		return
	}
	c.JSON(http.StatusOK, p.ToDict())
}

// @Summary      Create a post
// @Description  A random placeholder image is used when imageUrl is empty.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      CreatePostRequest  true  "Post payload"
// @Success      201   {object}  models.PostDict
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/posts [post]
// @Security     BearerAuth
func (h *Handler) createPost(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	p, err := h.services.CreatePost(c.Request.Context(), id.GetID(), service.PostInput{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.respondError(c, "post_create_failed", err, "user_id", id.GetID())
		return
	}
	c.JSON(http.StatusCreated, p.ToDict())
}

// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Post ID"
// @Param        body  body      UpdatePostRequest  true  "Fields to change"
// @Success      200   {object}  models.PostDict
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/posts/{id} [put]
// @Security     BearerAuth
func (h *Handler) updatePost(c *gin.Context) {
	actor, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdatePostRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	p, err := h.services.UpdatePost(c.Request.Context(), actor.GetID(), id, service.PostInput{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.respondError(c, "post_update_failed", err, "post_id", id, "user_id", actor.GetID())
		return
	}
	c.JSON(http.StatusOK, p.ToDict())
}

// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/posts/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deletePost(c *gin.Context) {
	actor, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.services.DeletePost(c.Request.Context(), actor.GetID(), id); err != nil {
		h.respondError(c, "post_delete_failed", err, "post_id", id, "user_id", actor.GetID())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
