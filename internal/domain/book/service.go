package book

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/pkg/tracing"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// SystemCreator 没有登录用户时(命令行、初始化数据)记录的创建人
const SystemCreator = "System"

// Service 图书领域服务接口
type Service interface {
	// Create 新增图书
	// 业务规则:
	// - 标题1-200字符,描述≤1000
	// - 价格、库存不能为负数
	// - 出版日期不能晚于今天
	// - 引用的作者、分类必须存在(否则返回校验错误,而不是404)
	Create(ctx context.Context, params CreateParams) (*Book, error)

	// Get 根据ID获取图书详情
	Get(ctx context.Context, id uint) (*Book, error)

	// Update 部分更新,修改了作者或分类时重新校验引用
	Update(ctx context.Context, id uint, params UpdateParams) (*Book, error)

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error

	// List 条件分页查询
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo       Repository
	authors    ReferenceChecker
	categories ReferenceChecker
	tx         shared.Transactor
	now        func() time.Time
}

// NewService 创建图书领域服务
func NewService(repo Repository, authors, categories ReferenceChecker, tx shared.Transactor) Service {
	return &service{
		repo:       repo,
		authors:    authors,
		categories: categories,
		tx:         tx,
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, params CreateParams) (_ *Book, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.Create")
	defer func() { tracing.End(span, err) }()

	params.Title = strings.TrimSpace(params.Title)
	if params.Creator == "" {
		params.Creator = SystemCreator
	}
	errs := shared.FieldErrors{}
	errs.Check(params.Title == "", "title", "书名不能为空")
	errs.Check(params.AuthorID == 0, "author_id", "作者不能为空")
	errs.Check(params.CategoryID == 0, "category_id", "分类不能为空")
	s.validateFields(errs, &params.Title, &params.Description, &params.Price, &params.Stock, params.ReleaseDate)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	b := &Book{
		Title:       params.Title,
		Description: params.Description,
		ReleaseDate: params.ReleaseDate,
		Price:       params.Price,
		Stock:       params.Stock,
		Creator:     params.Creator,
		AuthorID:    params.AuthorID,
		CategoryID:  params.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 引用校验与插入放在同一事务里
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, &b.AuthorID, &b.CategoryID); err != nil {
			return err
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	// 重新读取一次以带上作者名、分类名
	return s.repo.FindByID(ctx, b.ID)
}

func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uint, params UpdateParams) (_ *Book, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.Update")
	defer func() { tracing.End(span, err) }()

	if params.Title != nil {
		trimmed := strings.TrimSpace(*params.Title)
		params.Title = &trimmed
	}
	errs := shared.FieldErrors{}
	if params.Title != nil {
		errs.Check(*params.Title == "", "title", "书名不能为空")
	}
	errs.Check(params.AuthorID != nil && *params.AuthorID == 0, "author_id", "作者不能为空")
	errs.Check(params.CategoryID != nil && *params.CategoryID == 0, "category_id", "分类不能为空")
	s.validateFields(errs, params.Title, params.Description, params.Price, params.Stock, params.ReleaseDate)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		var authorID, categoryID *uint
		if params.AuthorID != nil && *params.AuthorID != b.AuthorID {
			authorID = params.AuthorID
		}
		if params.CategoryID != nil && *params.CategoryID != b.CategoryID {
			categoryID = params.CategoryID
		}
		if err := s.checkReferences(ctx, authorID, categoryID); err != nil {
			return err
		}

		if params.Title != nil {
			b.Title = *params.Title
		}
		if params.Description != nil {
			b.Description = *params.Description
		}
		if params.ReleaseDate != nil {
			b.ReleaseDate = params.ReleaseDate
		}
		if params.Price != nil {
			if err := b.UpdatePrice(*params.Price); err != nil {
				return err
			}
		}
		if params.Stock != nil {
			if err := b.UpdateStock(*params.Stock); err != nil {
				return err
			}
		}
		if authorID != nil {
			b.AuthorID = *authorID
		}
		if categoryID != nil {
			b.CategoryID = *categoryID
		}
		b.UpdatedAt = s.now()
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "book.Delete")
	defer func() { tracing.End(span, err) }()

	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// checkReferences 校验作者、分类存在;nil表示不需要校验
func (s *service) checkReferences(ctx context.Context, authorID, categoryID *uint) error {
	if authorID != nil {
		ok, err := s.authors.Exists(ctx, *authorID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAuthorReferenceNotFound
		}
	}
	if categoryID != nil {
		ok, err := s.categories.Exists(ctx, *categoryID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCategoryReferenceNotFound
		}
	}
	return nil
}

func (s *service) validateFields(errs shared.FieldErrors, title, description *string, price *int64, stock *int, releaseDate *time.Time) {
	if title != nil {
		errs.Check(shared.Len(*title) > maxTitleLen, "title", "书名不能超过200个字符")
	}
	if description != nil {
		errs.Check(shared.Len(*description) > maxDescriptionLen, "description", "描述不能超过1000个字符")
	}
	if price != nil {
		errs.Check(*price < 0, "price", "价格不能为负数")
	}
	if stock != nil {
		errs.Check(*stock < 0, "stock", "库存不能为负数")
	}
	errs.Check(shared.IsFutureDate(releaseDate, s.now()), "release_date", "出版日期不能晚于今天")
}
