package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	refreshUseCase  *appuser.RefreshUseCase
	logoutUseCase   *appuser.LogoutUseCase
	profileUseCase  *appuser.ProfileUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	refreshUseCase *appuser.RefreshUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	profileUseCase *appuser.ProfileUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		refreshUseCase:  refreshUseCase,
		logoutUseCase:   logoutUseCase,
		profileUseCase:  profileUseCase,
	}
}

// SignUp 用户注册
// @Summary      用户注册
// @Description  创建新用户账号，成功后直接返回Token对
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.SignUpRequest true "注册信息"
// @Success      201 {object} appuser.AuthResponse "注册成功"
// @Failure      400 {object} response.ErrorBody "参数错误或用户名/邮箱已存在"
// @Failure      429 {object} response.ErrorBody "请求过于频繁"
// @Router       /api/users/signUp [post]
func (h *UserHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  用户名或邮箱 + 密码登录，返回JWT Token对
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} appuser.AuthResponse "登录成功"
// @Failure      401 {object} response.ErrorBody "用户名或密码错误/账号已停用"
// @Failure      429 {object} response.ErrorBody "请求过于频繁"
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Login:    req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Refresh 刷新访问Token
// @Summary      刷新Token
// @Description  Authorization头携带刷新Token，返回新的访问Token
// @Tags         用户
// @Produce      json
// @Param        Authorization header string true "Bearer {refresh_token}"
// @Success      200 {object} appuser.RefreshResponse
// @Failure      401 {object} response.ErrorBody "刷新Token无效、过期或已撤销"
// @Router       /api/users/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	token, err := middleware.BearerToken(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.refreshUseCase.Execute(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Logout 登出
// @Summary      登出
// @Description  撤销当前访问Token；请求体中带refresh_token时一并撤销
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.LogoutRequest false "可选的刷新Token"
// @Success      200 {object} dto.MessageResponse
// @Failure      401 {object} response.ErrorBody
// @Router       /api/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	// 请求体可以为空
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	err := h.logoutUseCase.Execute(c.Request.Context(), appuser.LogoutRequest{
		Access:       middleware.MustGetClaims(c),
		RefreshToken: strings.TrimSpace(req.RefreshToken),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "已退出登录"})
}

// Profile 当前用户信息
// @Summary      个人信息
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} appuser.UserInfo
// @Failure      401 {object} response.ErrorBody
// @Router       /api/users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	info, err := h.profileUseCase.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}

// UpdateProfile 修改个人信息
// @Summary      修改个人信息
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "要修改的字段"
// @Success      200 {object} appuser.UserInfo
// @Failure      400 {object} response.ErrorBody "格式错误或用户名/邮箱已存在"
// @Router       /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	info, err := h.profileUseCase.Update(c.Request.Context(), middleware.GetUserID(c), appuser.UpdateRequest{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "原密码与新密码"
// @Success      200 {object} dto.MessageResponse
// @Failure      400 {object} response.ErrorBody "新密码不符合要求"
// @Failure      401 {object} response.ErrorBody "原密码错误"
// @Router       /api/users/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.profileUseCase.ChangePassword(c.Request.Context(), middleware.GetUserID(c), appuser.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "密码修改成功"})
}
