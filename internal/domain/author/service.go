package author

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/pkg/tracing"
)

const (
	maxNameLen      = 120
	maxBiographyLen = 2000
	maxCountryLen   = 80
)

// Service 作者领域服务
type Service interface {
	// Create 创建作者
	// 业务规则：名称1-120字符且唯一，简介≤2000，国家≤80，出生日期不能晚于今天
	Create(ctx context.Context, params CreateParams) (*Author, error)

	// Get 获取作者详情（含关联图书数）
	Get(ctx context.Context, id uint) (*Author, error)

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Author, int64, error)

	// Update 部分更新，修改名称时重新校验唯一性
	Update(ctx context.Context, id uint, params UpdateParams) (*Author, error)

	// Delete 删除作者
	// 业务规则：存在关联图书时拒绝删除（fail-closed，不级联）
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
	tx   shared.Transactor
	now  func() time.Time
}

// NewService 创建作者服务
func NewService(repo Repository, tx shared.Transactor) Service {
	return &service{repo: repo, tx: tx, now: time.Now}
}

func (s *service) Create(ctx context.Context, params CreateParams) (_ *Author, err error) {
	ctx, span := tracing.StartSpan(ctx, "author.Create")
	defer func() { tracing.End(span, err) }()

	params.Name = strings.TrimSpace(params.Name)
	if err := s.validate(&params.Name, &params.Biography, &params.Country, params.DateOfBirth, true); err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, params.Name, 0); err != nil {
		return nil, err
	}

	now := s.now()
	a := &Author{
		Name:        params.Name,
		Biography:   params.Biography,
		DateOfBirth: params.DateOfBirth,
		Country:     params.Country,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Author, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Author, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Update(ctx context.Context, id uint, params UpdateParams) (_ *Author, err error) {
	ctx, span := tracing.StartSpan(ctx, "author.Update")
	defer func() { tracing.End(span, err) }()

	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		params.Name = &trimmed
	}
	if err := s.validate(params.Name, params.Biography, params.Country, params.DateOfBirth, false); err != nil {
		return nil, err
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil && *params.Name != a.Name {
		if err := s.ensureNameAvailable(ctx, *params.Name, id); err != nil {
			return nil, err
		}
	}

	a.apply(params)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete 在事务内先统计关联图书再删除；外键约束兜底并发插入的情况
func (s *service) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "author.Delete")
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
	if errors.Is(err, ErrAuthorNotFound) {
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

// validate 字段校验；required=false时nil字段跳过（部分更新）
func (s *service) validate(name, biography, country *string, dob *time.Time, required bool) error {
	errs := shared.FieldErrors{}
	if name != nil || required {
		n := ""
		if name != nil {
			n = *name
		}
		errs.Check(n == "", "name", "作者名称不能为空")
		errs.Check(shared.Len(n) > maxNameLen, "name", "作者名称不能超过120个字符")
	}
	if biography != nil {
		errs.Check(shared.Len(*biography) > maxBiographyLen, "biography", "简介不能超过2000个字符")
	}
	if country != nil {
		errs.Check(shared.Len(*country) > maxCountryLen, "country", "国家不能超过80个字符")
	}
	errs.Check(shared.IsFutureDate(dob, s.now()), "date_of_birth", "出生日期不能晚于今天")
	return errs.Err()
}
