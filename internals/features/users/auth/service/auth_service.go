package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/users/auth/dto"
	authRepo "dndbuilder_backend/internals/features/users/auth/repository"
	userModel "dndbuilder_backend/internals/features/users/user/model"
	helper "dndbuilder_backend/internals/helpers"
)

// AuthService registers users and issues access tokens.
type AuthService struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{DB: db, Secret: secret, TTL: ttl, Now: time.Now}
}

// Register creates an active, non-superuser account.
func (s *AuthService) Register(db *gorm.DB, req dto.RegisterRequest) (*userModel.UserModel, error) {
	usernameTaken, emailTaken, err := authRepo.UsernameOrEmailTaken(db, req.Username, req.Email)
	if err != nil {
		return nil, helper.DBError(err, "")
	}
	if usernameTaken || emailTaken {
		vb := apperrors.NewValidationBuilder()
		if usernameTaken {
			vb.Field("username", "already registered")
		}
		if emailTaken {
			vb.Field("email", "already registered")
		}
		return nil, apperrors.WrapWithCode(vb.Build(), apperrors.CodeAlreadyExists, "Username or email already registered")
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to hash password")
	}
	user := &userModel.UserModel{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		IsActive:       true,
	}
	user.Normalize()
	if err := authRepo.CreateUser(db, user); err != nil {
		return nil, helper.DBError(err, "")
	}
	log.Printf("[INFO] registered user id=%d username=%s", user.ID, user.Username)
	return user, nil
}

// Login checks the credentials and returns a signed access token.
func (s *AuthService) Login(db *gorm.DB, req dto.LoginRequest) (dto.TokenResponse, error) {
	user, err := authRepo.FindUserByEmailOrUsername(db, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenResponse{}, apperrors.Unauthenticated("Incorrect username or password")
		}
		return dto.TokenResponse{}, helper.DBError(err, "")
	}
	if !CheckPassword(user.HashedPassword, req.Password) {
		return dto.TokenResponse{}, apperrors.Unauthenticated("Incorrect username or password")
	}
	if !user.IsActive {
		return dto.TokenResponse{}, apperrors.PermissionDenied("Inactive user")
	}

	token, _, err := helper.IssueAccessToken(user.ID, s.Secret, s.TTL, s.Now())
	if err != nil {
		return dto.TokenResponse{}, apperrors.Wrap(err, "Failed to issue token")
	}
	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.TTL / time.Second),
	}, nil
}

// ChangePassword replaces the password of userID after checking the
// current one.
func (s *AuthService) ChangePassword(db *gorm.DB, userID uint, req dto.ChangePasswordRequest) error {
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.DBError(err, "User not found")
	}
	if !CheckPassword(user.HashedPassword, req.CurrentPassword) {
		return apperrors.NewValidationBuilder().Field("current_password", "is incorrect").Build()
	}
	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Wrap(err, "Failed to hash password")
	}
	return helper.DBError(authRepo.UpdateUserPassword(db, userID, hashed), "")
}
