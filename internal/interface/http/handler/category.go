package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/pagination"
	"github.com/xiebiao/library/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	categories category.Service
}

func NewCategoryHandler(categories category.Service) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        page     query int    false "页码"
// @Param        per_page query int    false "每页数量"
// @Param        search   query string false "名称关键字"
// @Success      200 {object} dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	params := category.ListParams{
		Params: dto.PageParams(c),
		Search: strings.TrimSpace(c.Query("search")),
	}
	categories, total, err := h.categories.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewCategoryListResponse(categories, pagination.NewMeta(params.Params, total)))
}

// Get 分类详情
// @Summary      分类详情
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} dto.CategoryResponse
// @Failure      404 {object} response.ErrorBody "分类不存在"
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewCategoryResponse(cat))
}

// Create 新增分类
// @Summary      新增分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCategoryRequest true "分类信息"
// @Success      201 {object} dto.CategoryResponse
// @Failure      400 {object} response.ErrorBody "参数错误或名称已存在"
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewCategoryResponse(cat))
}

// Update 修改分类
// @Summary      修改分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "分类ID"
// @Param        request body dto.UpdateCategoryRequest true "要修改的字段"
// @Success      200 {object} dto.CategoryResponse
// @Router       /api/categories/{id} [patch]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), id, category.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewCategoryResponse(cat))
}

// Delete 删除分类，存在关联图书时返回400
// @Summary      删除分类
// @Tags         分类
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      204
// @Failure      400 {object} response.ErrorBody "存在关联图书"
// @Failure      404 {object} response.ErrorBody "分类不存在"
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
