package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// AdminHandler 管理员用户管理
type AdminHandler struct {
	adminUseCase *appuser.AdminUseCase
}

func NewAdminHandler(adminUseCase *appuser.AdminUseCase) *AdminHandler {
	return &AdminHandler{adminUseCase: adminUseCase}
}

// ListUsers 用户列表
// @Summary      用户列表
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码"
// @Param        per_page  query int    false "每页数量"
// @Param        search    query string false "用户名/邮箱关键字"
// @Param        is_active query bool   false "账号状态"
// @Success      200 {object} dto.UserListResponse
// @Failure      403 {object} response.ErrorBody "需要管理员权限"
// @Router       /api/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	isActive, err := dto.QueryBool(c, "is_active")
	if err != nil {
		response.Error(c, err)
		return
	}
	users, meta, err := h.adminUseCase.List(c.Request.Context(), appuser.ListRequest{
		Params:   dto.PageParams(c),
		Search:   strings.TrimSpace(c.Query("search")),
		IsActive: isActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.UserListResponse{Users: users, Pagination: meta})
}

// Activate 启用账号
// @Summary      启用账号
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} appuser.UserInfo
// @Failure      404 {object} response.ErrorBody "用户不存在"
// @Router       /api/users/{id}/activate [post]
func (h *AdminHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate 停用账号
// @Summary      停用账号
// @Description  停用后无法登录和刷新Token
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} appuser.UserInfo
// @Failure      404 {object} response.ErrorBody "用户不存在"
// @Router       /api/users/{id}/deactivate [post]
func (h *AdminHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AdminHandler) setActive(c *gin.Context, active bool) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	info, err := h.adminUseCase.SetActive(c.Request.Context(), id, active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}
