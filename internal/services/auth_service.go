package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/token"
	"github.com/yukikurage/project-management-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired        = newError(ErrInvalidInput, "username is required")
	ErrPasswordRequired        = newError(ErrInvalidInput, "password is required")
	ErrInvalidOrganizationName = newError(ErrInvalidInput, "organization name must contain letters or digits")
	ErrUsernameTaken           = newError(ErrDuplicateIdentity, "username already exists")
	ErrRegistrationConflict    = newError(ErrConflict, "organization was created concurrently, please retry")
	ErrInvalidCredentials      = newError(ErrUnauthenticated, "invalid username or password")
	ErrInvalidToken            = newError(ErrUnauthenticated, "invalid or expired token")
	ErrUserNotFound            = newError(ErrNotFound, "user not found")
	ErrFailedToHashPassword    = errors.New("failed to hash password")
	ErrFailedToCreateUser      = errors.New("failed to create user")
	ErrFailedToCreateOrg       = errors.New("failed to create organization")
	ErrFailedToAddMember       = errors.New("failed to add user to organization")
)

// TokenService issues and validates bearer tokens.
type TokenService interface {
	Issue(user *models.User) (string, error)
	Verify(tokenString string) (*token.Claims, error)
	Refresh(tokenString string) (string, *token.Claims, error)
}

// AuthService handles registration, credentials and token exchange.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenService
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username         string
	Password         string
	Email            string
	OrganizationName string
}

// RegisterResult is what a successful registration hands back to the caller.
type RegisterResult struct {
	User         *models.User
	Organization *models.Organization
	Token        string
}

// Register creates a user, then joins the organization whose slug matches
// OrganizationName or creates it with the user as owner.
func (s *AuthService) Register(input RegisterInput) (*RegisterResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	orgName := strings.TrimSpace(input.OrganizationName)
	slug := utils.Slugify(orgName)
	if slug == "" {
		return nil, ErrInvalidOrganizationName
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	var (
		user *models.User
		org  *models.Organization
	)
	for attempt := 1; ; attempt++ {
		if attempt > constants.MaxRegistrationAttempts {
			return nil, ErrRegistrationConflict
		}

		user = &models.User{
			Username:     username,
			Email:        strings.TrimSpace(input.Email),
			PasswordHash: string(hashedPassword),
		}

		org, err = s.userRepo.CreateWithOrganization(user, orgName, slug)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrCreateOrganization) || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, registrationError(err)
		}

		// another registration created the slug first; the next attempt joins it
		s.logger.Warn("organization slug race during registration",
			zap.String("slug", slug),
			zap.Int("attempt", attempt),
		)
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user registered",
		zap.Uint64("user_id", user.ID),
		zap.Uint64("organization_id", org.ID),
		zap.String("slug", org.Slug),
		zap.Bool("owner", authz.IsOrgAdmin(authz.ForUser(user), org)),
	)

	return &RegisterResult{
		User:         user,
		Organization: org,
		Token:        signed,
	}, nil
}

func registrationError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCreateUser) && errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrCreateUser):
		return fmt.Errorf("%w: %w", ErrFailedToCreateUser, err)
	case errors.Is(err, repository.ErrCreateOrganization), errors.Is(err, repository.ErrFindOrganization):
		return fmt.Errorf("%w: %w", ErrFailedToCreateOrg, err)
	case errors.Is(err, repository.ErrCreateOrganizationMember):
		return fmt.Errorf("%w: %w", ErrFailedToAddMember, err)
	default:
		return fmt.Errorf("failed to complete registration: %w", err)
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the authenticated user and a fresh token.
type LoginResult struct {
	User  *models.User
	Token string
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{User: user, Token: signed}, nil
}

// VerifyToken validates a token and returns its claims.
func (s *AuthService) VerifyToken(tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}

// RefreshToken exchanges a valid token for a new one.
func (s *AuthService) RefreshToken(tokenString string) (string, *token.Claims, error) {
	signed, claims, err := s.tokens.Refresh(tokenString)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return signed, claims, nil
}

// UserFromToken resolves the user a valid token is bound to.
func (s *AuthService) UserFromToken(tokenString string) (*models.User, error) {
	claims, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return s.GetUser(userID)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Me returns the acting user, or nil for an anonymous actor.
func (s *AuthService) Me(actor authz.Actor) *models.User {
	return actor.User()
}
