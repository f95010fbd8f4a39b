package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/pagination"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	books book.Service
}

// NewBookHandler 创建图书处理器
func NewBookHandler(books book.Service) *BookHandler {
	return &BookHandler{books: books}
}

// List 图书列表
// @Summary      图书列表
// @Description  分页查询图书，所有过滤条件之间为AND
// @Tags         图书
// @Produce      json
// @Param        page         query int    false "页码(默认1)"
// @Param        per_page     query int    false "每页数量(1-100,默认10)"
// @Param        author_id    query int    false "作者ID"
// @Param        category_id  query int    false "分类ID"
// @Param        author       query string false "作者名(模糊,不区分大小写)"
// @Param        category     query string false "分类名(模糊,不区分大小写)"
// @Param        search       query string false "标题/描述/作者/分类关键字"
// @Param        price        query int    false "价格(分,精确匹配)"
// @Param        release_date query string false "出版日期 YYYY-MM-DD"
// @Success      200 {object} dto.BookListResponse
// @Failure      400 {object} response.ErrorBody
// @Router       /api/books [get]
func (h *BookHandler) List(c *gin.Context) {
	params, err := bookListParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	books, total, err := h.books.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookListResponse(books, pagination.NewMeta(params.Params, total)))
}

func bookListParams(c *gin.Context) (book.ListParams, error) {
	params := book.ListParams{
		Params:   dto.PageParams(c),
		Author:   strings.TrimSpace(c.Query("author")),
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	var err error
	if params.AuthorID, err = dto.QueryUint(c, "author_id"); err != nil {
		return params, err
	}
	if params.CategoryID, err = dto.QueryUint(c, "category_id"); err != nil {
		return params, err
	}
	if raw := strings.TrimSpace(c.Query("price")); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || price < 0 {
			return params, apperrors.ErrInvalidParams.WithField("price", "必须是非负整数(单位:分)")
		}
		params.Price = &price
	}
	releaseDate := c.Query("release_date")
	if params.ReleaseDate, err = dto.ParseDate("release_date", &releaseDate); err != nil {
		return params, err
	}
	return params, nil
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} dto.BookResponse
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	b, err := h.books.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookResponse(b))
}

// Create 新增图书
// @Summary      新增图书
// @Description  登录用户可新增图书，创建人记录为当前用户名
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误或引用的作者/分类不存在"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /api/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	releaseDate, err := dto.ParseDate("release_date", req.ReleaseDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.books.Create(c.Request.Context(), book.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: releaseDate,
		Price:       req.Price,
		Stock:       *req.Stock,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		Creator:     middleware.GetUsername(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	metrics.IncCounter(metrics.BooksCreatedTotal)
	response.Created(c, dto.NewBookResponse(b))
}

// Update 修改图书
// @Summary      修改图书
// @Description  部分更新，仅管理员
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "要修改的字段"
// @Success      200 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      403 {object} response.ErrorBody "需要管理员权限"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [patch]
func (h *BookHandler) Update(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	releaseDate, err := dto.ParseDate("release_date", req.ReleaseDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.books.Update(c.Request.Context(), id, book.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: releaseDate,
		Price:       req.Price,
		Stock:       req.Stock,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBookResponse(b))
}

// Delete 删除图书
// @Summary      删除图书
// @Tags         图书
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      204
// @Failure      403 {object} response.ErrorBody "需要管理员权限"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := dto.PathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.books.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
