package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"shopapi/internal/models"
)

// ErrUnauthorized covers every way a session can fail to resolve: bad
// signature, unknown token, revoked, expired, or the user row is gone.
var ErrUnauthorized = errors.New("no valid session")

const TTL = 7 * 24 * time.Hour

const CookieName = "session"

type Service struct {
	DB     *gorm.DB
	Secret []byte
}

func (s *Service) Issue(userID uint) (string, error) {
	exp := time.Now().Add(TTL)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"jti": randomID(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := t.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	sess := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: exp.Unix(),
		Revoked:   false,
	}
	if err := s.DB.Create(&sess).Error; err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

// Validate resolves a raw cookie token to the user it belongs to. The user
// row is re-fetched by primary key on every call so a deleted user loses
// access immediately.
func (s *Service) Validate(token string) (*models.User, error) {
	t, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrUnauthorized
	}

	var stored models.Session
	if err := s.DB.Where("token = ?", token).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if stored.Revoked {
		return nil, ErrUnauthorized
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, ErrUnauthorized
	}

	var user models.User
	if err := s.DB.First(&user, stored.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &user, nil
}

func (s *Service) Revoke(token string) error {
	result := s.DB.Model(&models.Session{}).
		Where("token = ?", token).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("db error: %w", result.Error)
	}
	return nil
}

func randomID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprint(time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
