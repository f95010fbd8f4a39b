package rdb

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// userRepository 用户仓储实现
// 设计说明：
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 唯一索引冲突转换为业务错误（并发注册时预检查会漏掉，这里兜底）
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return duplicateUserError(err)
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// Update 全量更新（Save会更新零值字段，is_active=false才能写进去）
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	result := getDB(ctx, r.db).Save(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return duplicateUserError(result.Error)
		}
		return apperrors.Wrap(result.Error, "更新用户失败")
	}
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) List(ctx context.Context, params user.ListParams) ([]*user.User, int64, error) {
	query := getDB(ctx, r.db).Model(&UserModel{})
	if params.Search != "" {
		p := likePattern(params.Search)
		query = query.Where("(LOWER(username)"+likeClause+" OR LOWER(email)"+likeClause+")", p, p)
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户总数失败")
	}

	var models []UserModel
	if err := query.Scopes(paginate("users", params.Params)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, total, nil
}

// duplicateUserError 根据冲突的索引/列名区分用户名重复和邮箱重复
func duplicateUserError(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "email") {
		return user.ErrEmailDuplicate
	}
	return user.ErrUsernameDuplicate
}

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		IsActive:  m.IsActive,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
