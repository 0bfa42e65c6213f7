package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"studysphere/internal/apperr"
	"studysphere/internal/models"
)

// ProgressCreator seeds the gamification row for a new account.
type ProgressCreator interface {
	CreateProgress(userID uint) error
}

type Service struct {
	repo      *Repository
	progress  ProgressCreator
	jwtSecret []byte
	log       *zap.SugaredLogger
}

func NewService(repo *Repository, progress ProgressCreator, jwtSecret string, log *zap.SugaredLogger) *Service {
	return &Service{
		repo:      repo,
		progress:  progress,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

func (s *Service) Login(username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		return "", errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Register creates the account and its zeroed progress row. A progress seed
// failure is fatal here: an account without gamification state would break
// every later award.
func (s *Service) Register(user *models.User) error {
	if user.Username == "" || user.Email == "" || user.Password == "" {
		return fmt.Errorf("username, email and password are required: %w", apperr.ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	if err := s.repo.CreateUser(user); err != nil {
		return err
	}

	if err := s.progress.CreateProgress(user.ID); err != nil {
		return err
	}

	s.log.Infow("user registered", "user_id", user.ID, "username", user.Username)
	return nil
}
