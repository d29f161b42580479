package services

import (
	"log/slog"
	"testing"
	"time"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/dto"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"
	"expense-tracker-api/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl              *gomock.Controller
	mockUserRepo      *repository_mocks.MockUserRepositoryInterface
	mockBlacklistRepo *repository_mocks.MockBlacklistedTokenRepositoryInterface
	passwordService   PasswordServiceInterface
	tokenService      TokenServiceInterface
	service           AuthServiceInterface
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockUserRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.mockBlacklistRepo = repository_mocks.NewMockBlacklistedTokenRepositoryInterface(s.ctrl)
	s.passwordService = NewPasswordService(bcrypt.MinCost)
	s.tokenService = NewTokenService(&config.JWTConfig{
		Secret:        []byte("test-secret-that-is-long-enough"),
		Issuer:        "expense-tracker-api",
		TokenDuration: time.Hour,
	})

	s.service = NewAuthService(s.mockUserRepo, s.mockBlacklistRepo, s.passwordService, s.tokenService, slog.Default())
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister() {
	s.mockUserRepo.EXPECT().GetByUsername("alice").Return(nil, repositories.ErrUserNotFound)
	s.mockUserRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(user *models.User) error {
		user.ID = 1
		return nil
	})

	user, err := s.service.Register(&dto.RegisterRequest{Username: "  alice  ", Password: "correct horse battery"})
	s.Require().NoError(err)

	s.Equal(uint(1), user.ID)
	s.Equal("alice", user.Username)
	s.NotEqual("correct horse battery", user.PasswordHash)
	s.True(s.passwordService.ComparePassword("correct horse battery", user.PasswordHash))
}

func (s *AuthServiceTestSuite) TestRegister_UsernameTaken() {
	existing := &models.User{ID: 1, Username: "alice"}
	s.mockUserRepo.EXPECT().GetByUsername("alice").Return(existing, nil)

	_, err := s.service.Register(&dto.RegisterRequest{Username: "alice", Password: "correct horse battery"})
	s.ErrorIs(err, ErrUserAlreadyExists)
}

func (s *AuthServiceTestSuite) TestRegister_RaceOnUsername() {
	s.mockUserRepo.EXPECT().GetByUsername("alice").Return(nil, repositories.ErrUserNotFound)
	s.mockUserRepo.EXPECT().Create(gomock.Any()).Return(repositories.ErrUsernameTaken)

	_, err := s.service.Register(&dto.RegisterRequest{Username: "alice", Password: "correct horse battery"})
	s.ErrorIs(err, ErrUserAlreadyExists)
}

func (s *AuthServiceTestSuite) TestRegister_WeakPassword() {
	s.mockUserRepo.EXPECT().GetByUsername("alice").Return(nil, repositories.ErrUserNotFound)

	_, err := s.service.Register(&dto.RegisterRequest{Username: "alice", Password: "short"})
	s.ErrorIs(err, ErrPasswordTooShort)
}

func (s *AuthServiceTestSuite) TestLogin() {
	hash, err := s.passwordService.HashPassword("correct horse battery")
	s.Require().NoError(err)
	user := &models.User{ID: 1, Username: "alice", PasswordHash: hash}

	s.mockUserRepo.EXPECT().GetByUsername("alice").Return(user, nil)

	tokens, err := s.service.Login(&dto.LoginRequest{Username: "alice", Password: "correct horse battery"})
	s.Require().NoError(err)

	s.NotEmpty(tokens.AccessToken)
	s.Equal("Bearer", tokens.TokenType)
	s.WithinDuration(time.Now().Add(time.Hour), tokens.ExpiresAt, 5*time.Second)

	claims, err := s.tokenService.ValidateToken(tokens.AccessToken)
	s.Require().NoError(err)
	s.Equal(uint(1), claims.UserID)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	hash, err := s.passwordService.HashPassword("correct horse battery")
	s.Require().NoError(err)
	user := &models.User{ID: 1, Username: "alice", PasswordHash: hash}

	s.mockUserRepo.EXPECT().GetByUsername("alice").Return(user, nil)

	_, err = s.service.Login(&dto.LoginRequest{Username: "alice", Password: "wrong password!"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownUser() {
	s.mockUserRepo.EXPECT().GetByUsername("mallory").Return(nil, repositories.ErrUserNotFound)

	_, err := s.service.Login(&dto.LoginRequest{Username: "mallory", Password: "correct horse battery"})
	s.ErrorIs(err, ErrInvalidCredentials, "unknown users must not be distinguishable from wrong passwords")
}

func (s *AuthServiceTestSuite) TestLogout() {
	expiresAt := time.Now().Add(time.Hour)

	s.mockBlacklistRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(token *models.BlacklistedToken) error {
		s.Equal("some-jti", token.JTI)
		s.Equal(uint(1), token.UserID)
		s.Equal(expiresAt, token.ExpiresAt)
		return nil
	})

	s.NoError(s.service.Logout(1, "some-jti", expiresAt))
}
