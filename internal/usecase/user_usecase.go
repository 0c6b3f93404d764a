package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

type AuthInput struct {
	Email    string
	Password string
}

type TokenOutput struct {
	Token string `json:"token"`
}

type UserUsecaseConfig struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

// UserUsecase は登録・ログイン・トークン再発行
type UserUsecase struct {
	users     repo.UserRepository
	tx        repo.TransactionManager
	validator AuthValidator
	cfg       UserUsecaseConfig
	now       func() time.Time
}

func NewUserUsecase(
	users repo.UserRepository,
	tx repo.TransactionManager,
	validator AuthValidator,
	cfg UserUsecaseConfig,
) *UserUsecase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &UserUsecase{
		users:     users,
		tx:        tx,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Registration はユーザーとバスケットを同時に作る。roleは常にUSER。
func (u *UserUsecase) Registration(ctx context.Context, in AuthInput) (TokenOutput, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, in.Email, in.Password); err != nil {
		return TokenOutput{}, err
	}
	email := normalizeEmail(in.Email)

	//email重複チェック
	existing, err := u.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return TokenOutput{}, NewConflictError("User with this email already exists")
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return TokenOutput{}, NewInternalError()
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cfg.BcryptCost)
	if err != nil {
		return TokenOutput{}, NewInternalError()
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewConflictError("User with this email already exists")
			}
			return err
		}
		_, err := r.Baskets().Create(ctx, user.ID)
		return err
	})
	if err != nil {
		return TokenOutput{}, toAppError(err)
	}

	return u.issue(user)
}

func (u *UserUsecase) Login(ctx context.Context, in AuthInput) (TokenOutput, error) {
	if err := u.validator.ValidateLogin(ctx, in.Email, in.Password); err != nil {
		return TokenOutput{}, err
	}

	//ユーザー取得
	user, err := u.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repo.ErrNotFound) {
		return TokenOutput{}, NewUnauthorizedError("Invalid email or password")
	}
	if err != nil {
		return TokenOutput{}, NewInternalError()
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return TokenOutput{}, NewUnauthorizedError("Invalid email or password")
	}

	return u.issue(user)
}

// Check は現在のユーザーでトークンを作り直す
func (u *UserUsecase) Check(ctx context.Context, userID int64) (TokenOutput, error) {
	if userID <= 0 {
		return TokenOutput{}, NewUnauthorizedError("Unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return TokenOutput{}, NewUnauthorizedError("Unauthorized")
	}
	if err != nil {
		return TokenOutput{}, NewInternalError()
	}

	return u.issue(user)
}

func (u *UserUsecase) TokenTTL() time.Duration {
	return u.cfg.TokenTTL
}

func (u *UserUsecase) issue(user *model.User) (TokenOutput, error) {
	token, err := IssueToken(u.cfg.Secret, user, u.now(), u.cfg.TokenTTL)
	if err != nil {
		return TokenOutput{}, NewInternalError()
	}
	return TokenOutput{Token: token}, nil
}

// IssueToken はHS256のJWTを作る（claims: id, email, role, iat, exp）
func IssueToken(secret string, user *model.User, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
