package category

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/pkg/tracing"
)

// Service 分类领域服务
type Service interface {
	// Create 名称1-120字符且唯一，描述≤1000
	Create(ctx context.Context, name, description string) (*Category, error)
	Get(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context, params ListParams) ([]*Category, int64, error)
	Update(ctx context.Context, id uint, params UpdateParams) (*Category, error)
	// Delete 分类下还有图书时拒绝删除
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
	tx   shared.Transactor
}

// NewService 创建分类服务
func NewService(repo Repository, tx shared.Transactor) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) Create(ctx context.Context, name, description string) (_ *Category, err error) {
	ctx, span := tracing.StartSpan(ctx, "category.Create")
	defer func() { tracing.End(span, err) }()

	name = strings.TrimSpace(name)
	if err := validate(&name, &description, true); err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, name, 0); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Category{Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Category, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Update(ctx context.Context, id uint, params UpdateParams) (_ *Category, err error) {
	ctx, span := tracing.StartSpan(ctx, "category.Update")
	defer func() { tracing.End(span, err) }()

	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		params.Name = &trimmed
	}
	if err := validate(params.Name, params.Description, false); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil && *params.Name != c.Name {
		if err := s.ensureNameAvailable(ctx, *params.Name, id); err != nil {
			return nil, err
		}
		c.Name = *params.Name
	}
	if params.Description != nil {
		c.Description = *params.Description
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "category.Delete")
	defer func() { tracing.End(span, err) }()

	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		count, err := s.repo.CountBooks(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrHasBooks
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *service) ensureNameAvailable(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, ErrCategoryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrNameDuplicate
	}
	return nil
}

func validate(name, description *string, required bool) error {
	errs := shared.FieldErrors{}
	if name != nil || required {
		n := ""
		if name != nil {
			n = *name
		}
		errs.Check(n == "", "name", "分类名称不能为空")
		errs.Check(shared.Len(n) > 120, "name", "分类名称不能超过120个字符")
	}
	if description != nil {
		errs.Check(shared.Len(*description) > 1000, "description", "描述不能超过1000个字符")
	}
	return errs.Err()
}
