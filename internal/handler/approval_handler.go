package handler

import (
	"net/http"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/middleware"
	"github.com/damoang/caption-queue/internal/service"
	"github.com/damoang/caption-queue/internal/web"
	"github.com/damoang/caption-queue/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler serves the moderation queue
type ApprovalHandler struct {
	moderation service.ModerationService
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(moderation service.ModerationService) *ApprovalHandler {
	return &ApprovalHandler{moderation: moderation}
}

// ListPending handles GET /approval
// @Summary 승인 대기 게시글 목록
// @Description Accept: application/json 이면 JSON, 아니면 HTML 페이지
// @Tags moderation
// @Produce json,html
// @Success 200 {object} common.APIResponse{data=[]domain.Post}
// @Failure 401 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /approval [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	posts, err := h.moderation.ListPending(c.Request.Context())
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Could not load pending posts.", err)
		return
	}

	if ginutil.WantsJSON(c) {
		common.SuccessResponse(c, posts, &common.Meta{Total: int64(len(posts))})
		return
	}

	c.HTML(http.StatusOK, web.ApprovalPage, gin.H{
		"Username": middleware.GetUsername(c),
		"Posts":    posts,
	})
}

// Approve handles POST /approve (form: postId)
// @Summary 게시글 승인
// @Tags moderation
// @Accept x-www-form-urlencoded
// @Param postId formData int true "게시글 ID"
// @Success 302
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	id, err := ginutil.PostFormUint64(c, "postId")
	if err != nil || id == 0 {
		renderError(c, http.StatusBadRequest, "Invalid post id.", err)
		return
	}

	if err := h.moderation.Approve(c.Request.Context(), id, middleware.GetUsername(c)); err != nil {
		renderError(c, errorStatus(err), "Error approving post.", err)
		return
	}

	h.done(c, gin.H{"post_id": id, "approved": true})
}

// Comment handles POST /comment (form: postId, comment)
// @Summary 게시글 댓글 작성
// @Tags moderation
// @Accept x-www-form-urlencoded
// @Param postId formData int true "게시글 ID"
// @Param comment formData string true "댓글"
// @Success 302
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /comment [post]
func (h *ApprovalHandler) Comment(c *gin.Context) {
	id, err := ginutil.PostFormUint64(c, "postId")
	if err != nil || id == 0 {
		renderError(c, http.StatusBadRequest, "Invalid post id.", err)
		return
	}

	text := c.PostForm("comment")
	if err := h.moderation.Comment(c.Request.Context(), id, middleware.GetUsername(c), text); err != nil {
		renderError(c, errorStatus(err), "Error saving comment.", err)
		return
	}

	h.done(c, gin.H{"post_id": id})
}

// done redirects browsers back to the queue; JSON clients get the result
func (h *ApprovalHandler) done(c *gin.Context, data gin.H) {
	if ginutil.WantsJSON(c) {
		common.SuccessResponse(c, data, nil)
		return
	}
	c.Redirect(http.StatusFound, "/approval")
}
