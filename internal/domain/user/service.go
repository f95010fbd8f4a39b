package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/tracing"
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（密码加密、格式校验、唯一性）
// 2. Service依赖Repository接口，不依赖具体实现
// 3. Token签发不在这里，由application层的用例负责
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Authenticate 登录校验，login可以是用户名或邮箱
	// 先检查账号状态再校验密码：停用账号无论密码是否正确都返回ErrAccountInactive
	Authenticate(ctx context.Context, login, password string) (*User, error)

	// Get 根据ID获取用户
	Get(ctx context.Context, id uint) (*User, error)

	// GetByUsername 根据用户名获取用户（命令行管理工具使用）
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UpdateProfile 修改用户名/邮箱，重新校验格式和唯一性
	UpdateProfile(ctx context.Context, id uint, params ProfileParams) (*User, error)

	// ChangePassword 修改密码，需要校验原密码
	ChangePassword(ctx context.Context, id uint, current, newPassword, confirm string) error

	// SetActive 启用/停用账号
	SetActive(ctx context.Context, id uint, active bool) (*User, error)

	// SetAdmin 设置/取消管理员
	SetAdmin(ctx context.Context, id uint, admin bool) (*User, error)

	// List 用户列表（管理员）
	List(ctx context.Context, params ListParams) ([]*User, int64, error)
}

// Option 服务选项
type Option func(*service)

// WithHashCost 设置bcrypt cost（测试中使用bcrypt.MinCost加速）
func WithHashCost(cost int) Option {
	return func(s *service) { s.hashCost = cost }
}

type service struct {
	repo     Repository
	hashCost int
}

// NewService 创建用户服务
func NewService(repo Repository, opts ...Option) Service {
	s := &service{repo: repo, hashCost: 12}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register 用户注册
// 业务规则：
// 1. 用户名3-50位，仅字母、数字、下划线
// 2. 邮箱格式校验
// 3. 密码强度校验 + 两次输入一致
// 4. 用户名、邮箱唯一（预检查给出友好提示，唯一索引兜底并发）
// 5. 密码bcrypt加密
func (s *service) Register(ctx context.Context, params RegisterParams) (_ *User, err error) {
	ctx, span := tracing.StartSpan(ctx, "user.Register")
	defer func() { tracing.End(span, err) }()

	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))

	errs := shared.FieldErrors{}
	errs.Check(!IsValidUsername(params.Username), "username", "用户名需为3-50位字母、数字或下划线")
	errs.Check(!IsValidEmail(params.Email), "email", "邮箱格式不正确")
	if err := ValidatePasswordStrength(params.Password); err != nil {
		errs.Add("password", apperrors.GetAppError(err).Message)
	}
	errs.Check(params.Password != params.ConfirmPassword, "confirm_password", apperrors.ErrPasswordMismatch.Message)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, &params.Username, &params.Email, 0); err != nil {
		return nil, err
	}

	hashed, err := s.hash(params.Password)
	if err != nil {
		return nil, err
	}

	u := NewUser(params.Username, params.Email, hashed)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 登录校验
// 用户不存在与密码错误返回同一个错误
func (s *service) Authenticate(ctx context.Context, login, password string) (_ *User, err error) {
	ctx, span := tracing.StartSpan(ctx, "user.Authenticate")
	defer func() { tracing.End(span, err) }()

	login = strings.TrimSpace(login)
	var u *User
	if strings.Contains(login, "@") {
		u, err = s.repo.FindByEmail(ctx, strings.ToLower(login))
	} else {
		u, err = s.repo.FindByUsername(ctx, login)
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrAccountInactive
	}
	if err := s.verify(u.Password, password, ErrInvalidCredentials); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *service) UpdateProfile(ctx context.Context, id uint, params ProfileParams) (*User, error) {
	if params.Username != nil {
		v := strings.TrimSpace(*params.Username)
		params.Username = &v
	}
	if params.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*params.Email))
		params.Email = &v
	}

	errs := shared.FieldErrors{}
	if params.Username != nil {
		errs.Check(!IsValidUsername(*params.Username), "username", "用户名需为3-50位字母、数字或下划线")
	}
	if params.Email != nil {
		errs.Check(!IsValidEmail(*params.Email), "email", "邮箱格式不正确")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 只校验真正发生变化的字段
	var username, email *string
	if params.Username != nil && *params.Username != u.Username {
		username = params.Username
	}
	if params.Email != nil && *params.Email != u.Email {
		email = params.Email
	}
	if err := s.ensureAvailable(ctx, username, email, u.ID); err != nil {
		return nil, err
	}

	if username != nil {
		u.Username = *username
	}
	if email != nil {
		u.Email = *email
	}
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ChangePassword(ctx context.Context, id uint, current, newPassword, confirm string) error {
	errs := shared.FieldErrors{}
	errs.Check(current == "", "current_password", "请输入原密码")
	if err := ValidatePasswordStrength(newPassword); err != nil {
		errs.Add("new_password", apperrors.GetAppError(err).Message)
	}
	errs.Check(newPassword != confirm, "confirm_password", apperrors.ErrPasswordMismatch.Message)
	if err := errs.Err(); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.verify(u.Password, current, ErrCurrentPasswordWrong); err != nil {
		return err
	}

	hashed, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	u.Password = hashed
	u.UpdatedAt = time.Now()
	return s.repo.Update(ctx, u)
}

func (s *service) SetActive(ctx context.Context, id uint, active bool) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		u.Activate()
	} else {
		u.Deactivate()
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) SetAdmin(ctx context.Context, id uint, admin bool) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsAdmin = admin
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]*User, int64, error) {
	return s.repo.List(ctx, params)
}

// ensureAvailable 用户名/邮箱唯一性预检查；nil表示不检查，selfID为当前用户（修改资料时排除自己）
func (s *service) ensureAvailable(ctx context.Context, username, email *string, selfID uint) error {
	if username != nil {
		existing, err := s.repo.FindByUsername(ctx, *username)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if err == nil && existing.ID != selfID {
			return ErrUsernameDuplicate
		}
	}
	if email != nil {
		existing, err := s.repo.FindByEmail(ctx, *email)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if err == nil && existing.ID != selfID {
			return ErrEmailDuplicate
		}
	}
	return nil
}

// hash bcrypt自动加盐，相同密码每次结果不同
func (s *service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

// verify 密码不匹配时返回mismatch
func (s *service) verify(hashed, plain string, mismatch error) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return mismatch
	}
	if err != nil {
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// =========================================
// 辅助函数：格式与强度校验
// =========================================

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// IsValidUsername 3-50位字母、数字、下划线
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsValidEmail 邮箱格式校验（简单正则，不做RFC 5322完整校验）
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePasswordStrength 密码强度校验
// 规则：8-128位，至少包含一个小写字母、一个大写字母、一个数字和一个特殊字符(@$!%*?&)
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return apperrors.New(apperrors.ErrCodeWeakPassword, "密码长度需为8-128位")
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}

	switch {
	case !lower:
		return apperrors.New(apperrors.ErrCodeWeakPassword, "密码需包含小写字母")
	case !upper:
		return apperrors.New(apperrors.ErrCodeWeakPassword, "密码需包含大写字母")
	case !digit:
		return apperrors.New(apperrors.ErrCodeWeakPassword, "密码需包含数字")
	case !special:
		return apperrors.New(apperrors.ErrCodeWeakPassword, "密码需包含特殊字符(@$!%*?&)")
	}
	return nil
}
