package handlers

import (
	"net/http"

	"blog_api/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.UserDict
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.services.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "user_get_failed", err, "user_id", id)
		return
	}
	c.JSON(http.StatusOK, u.ToDict())
}

// @Summary      List posts of a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]interface{}  "count, posts"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/users/{id}/posts [get]
func (h *Handler) getUserPosts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.services.GetUser(ctx, id); err != nil {
		h.respondError(c, "user_get_failed", err, "user_id", id)
		return
	}
	posts, err := h.services.ListUserPosts(ctx, id)
	if err != nil {
		h.respondError(c, "user_posts_failed", err, "user_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(posts),
		"posts": models.PostDicts(posts),
	})
}

// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.UserDict
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) getMe(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}
	u, err := h.services.GetUser(c.Request.Context(), id.GetID())
	if err != nil {
		h.respondError(c, "user_get_failed", err, "user_id", id.GetID())
		return
	}
	c.JSON(http.StatusOK, u.ToDict())
}

// @Summary      Delete the current user and all their posts
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [delete]
// @Security     BearerAuth
func (h *Handler) deleteMe(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}
	if err := h.services.DeleteUser(c.Request.Context(), id.GetID()); err != nil {
		h.respondError(c, "user_delete_failed", err, "user_id", id.GetID())
		return
	}
	if h.log != nil {
		h.log.Infow("user_deleted", "user_id", id.GetID())
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
