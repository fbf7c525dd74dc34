package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/service"
)

type BlogHandler struct {
	BlogService service.BlogGenerator
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogService service.BlogGenerator) *BlogHandler {
	return &BlogHandler{BlogService: blogService}
}

func (h *BlogHandler) CreatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.BlogService.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		return httpError("BlogHandler.CreatePost", err)
	}
	return c.JSON(http.StatusCreated, post)
}

func (h *BlogHandler) UpdatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.BlogService.UpdatePost(c.Request().Context(), userID, postID, req)
	if err != nil {
		return httpError("BlogHandler.UpdatePost", err)
	}
	return c.JSON(http.StatusOK, post)
}

func (h *BlogHandler) DeletePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	if err := h.BlogService.DeletePost(c.Request().Context(), userID, postID); err != nil {
		return httpError("BlogHandler.DeletePost", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BlogHandler) GetPost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	post, err := h.BlogService.GetPost(c.Request().Context(), postID)
	if err != nil {
		return httpError("BlogHandler.GetPost", err)
	}
	return c.JSON(http.StatusOK, post)
}

// ListPosts returns one page of posts, newest first.
func (h *BlogHandler) ListPosts(c echo.Context) error {
	var query models.ListPostsQuery
	if err := bindAndValidate(c, &query); err != nil {
		return err
	}

	resp, err := h.BlogService.ListPosts(c.Request().Context(), query)
	if err != nil {
		return httpError("BlogHandler.ListPosts", err)
	}
	return c.JSON(http.StatusOK, resp)
}
