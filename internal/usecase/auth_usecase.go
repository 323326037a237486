package usecase

import (
	"context"
	"errors"
	"time"

	"physiocare/internal/converter"
	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
	"physiocare/internal/domain/repository"
	"physiocare/internal/service"
	"physiocare/pkg/jwt"
	"physiocare/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrSessionNotFound    = errors.New("session not found")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	// ResolveSession maps a session token to the identity stored behind it.
	ResolveSession(ctx context.Context, token string) (string, *entity.Identity, error)
	EnsureAdmin(ctx context.Context, login, password string) error
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		auditService: auditService,
		jwtService:   jwtService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	// Find user by login (read-only, no transaction needed)
	user, err := u.userRepo.FindByLogin(ctx, u.db, req.Login)
	if err != nil {
		u.log.Warnf("Failed to find user by login: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := &entity.Session{
		ID: uuid.NewString(),
		Identity: entity.Identity{
			UserID: user.ID,
			Login:  user.Login,
			Role:   user.Role,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := u.sessionRepo.Save(ctx, session, u.jwtService.GetSessionExpiry()); err != nil {
		u.log.Warnf("Failed to store session: %+v", err)
		return nil, err
	}

	token, err := u.jwtService.GenerateSessionToken(session.ID, user.ID)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, u.db, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil); err != nil {
		// A missing audit row must not lock the user out.
		u.log.Warnf("Failed to audit login: %+v", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: u.jwtService.GetSessionExpiry(),
		Identity:  session.Identity,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	session, err := u.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		u.log.Warnf("Failed to find session: %+v", err)
		return err
	}

	if err := u.sessionRepo.Delete(ctx, sessionID); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}

	if session != nil {
		actor := actorID(session.Identity)
		if err := u.auditService.LogCreate(ctx, u.db, actor, entity.AuditActionUserLogout, "user", session.Identity.UserID.String(), nil); err != nil {
			u.log.Warnf("Failed to audit logout: %+v", err)
		}
	}

	return nil
}

func (u *authUsecase) ResolveSession(ctx context.Context, token string) (string, *entity.Identity, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return "", nil, ErrSessionNotFound
	}

	session, err := u.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		u.log.Warnf("Failed to load session: %+v", err)
		return "", nil, err
	}
	if session == nil || session.Identity.UserID != claims.UserID {
		return "", nil, ErrSessionNotFound
	}

	return session.ID, &session.Identity, nil
}

// EnsureAdmin creates an admin user with the given credentials unless the login already exists.
func (u *authUsecase) EnsureAdmin(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return nil
	}

	existing, err := u.userRepo.FindByLogin(ctx, u.db, login)
	if err != nil {
		u.log.Warnf("Failed to find user by login: %+v", err)
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Login:    login,
		Password: string(hashedPassword),
		Role:     entity.RoleAdmin,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		u.log.Warnf("Failed to create admin user: %+v", err)
		return err
	}

	if err := u.auditService.LogCreate(ctx, tx, nil, entity.AuditActionUserSeed, "user", user.ID.String(), converter.UserToResponse(user)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Seeded admin user %s", login)
	return nil
}
