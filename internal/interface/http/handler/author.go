package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/pagination"
	"github.com/xiebiao/library/pkg/response"
)

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	authors author.Service
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(authors author.Service) *AuthorHandler {
	return &AuthorHandler{authors: authors}
}

// List 作者列表
// @Summary      作者列表
// @Tags         作者
// @Produce      json
// @Security     BearerAuth
// @Param        page     query int    false "页码"
// @Param        per_page query int    false "每页数量"
// @Param        search   query string false "名称关键字"
// @Param        country  query string false "国家关键字"
// @Success      200 {object} dto.AuthorListResponse
// @Router       /api/authors [get]
func (h *AuthorHandler) List(c *gin.Context) {
	params := author.ListParams{
		Params:  dto.PageParams(c),
		Search:  strings.TrimSpace(c.Query("search")),
		Country: strings.TrimSpace(c.Query("country")),
	}
	authors, total, err := h.authors.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAuthorListResponse(authors, pagination.NewMeta(params.Params, total)))
}

// Get 作者详情
// @Summary      作者详情
// @Tags         作者
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      200 {object} dto.AuthorResponse
// @Failure      404 {object} response.ErrorBody "作者不存在"
// @Router       /api/authors/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	a, err := h.authors.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAuthorResponse(a))
}

// Create 新增作者
// @Summary      新增作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateAuthorRequest true "作者信息"
// @Success      201 {object} dto.AuthorResponse
// @Failure      400 {object} response.ErrorBody "参数错误或名称已存在"
// @Router       /api/authors [post]
func (h *AuthorHandler) Create(c *gin.Context) {
	var req dto.CreateAuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	dob, err := dto.ParseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		response.Error(c, err)
		return
	}

	a, err := h.authors.Create(c.Request.Context(), author.CreateParams{
		Name:        req.Name,
		Biography:   req.Biography,
		DateOfBirth: dob,
		Country:     req.Country,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAuthorResponse(a))
}

// Update 修改作者
// @Summary      修改作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "作者ID"
// @Param        request body dto.UpdateAuthorRequest true "要修改的字段"
// @Success      200 {object} dto.AuthorResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /api/authors/{id} [patch]
func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateAuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	dob, err := dto.ParseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		response.Error(c, err)
		return
	}

	a, err := h.authors.Update(c.Request.Context(), id, author.UpdateParams{
		Name:        req.Name,
		Biography:   req.Biography,
		DateOfBirth: dob,
		Country:     req.Country,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewAuthorResponse(a))
}

// Delete 删除作者，存在关联图书时返回400
// @Summary      删除作者
// @Tags         作者
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      204
// @Failure      400 {object} response.ErrorBody "存在关联图书"
// @Failure      404 {object} response.ErrorBody "作者不存在"
// @Router       /api/authors/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.authors.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
