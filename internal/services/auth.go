package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"classroom-backend/internal/models"
	"classroom-backend/internal/storage"
)

type AuthService struct {
	instructors storage.InstructorStore
	jwtSecret   []byte
}

func NewAuthService(instructors storage.InstructorStore, jwtSecret string) *AuthService {
	return &AuthService{instructors: instructors, jwtSecret: []byte(jwtSecret)}
}

func (s *AuthService) Register(username, password string) (string, error) {
	if _, err := s.instructors.GetByUsername(username); err == nil {
		return "", errors.New("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	instructor := models.Instructor{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.instructors.Create(&instructor); err != nil {
		return "", err
	}

	return s.GenerateToken(instructor.ID)
}

func (s *AuthService) Login(username, password string) (string, error) {
	instructor, err := s.instructors.GetByUsername(username)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(instructor.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	return s.GenerateToken(instructor.ID)
}

func (s *AuthService) GenerateToken(instructorID uint) (string, error) {
	claims := jwt.MapClaims{
		"instructor_id": instructorID,
		"exp":           time.Now().Add(24 * time.Hour).Unix(),
		"iat":           time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	idFloat, ok := claims["instructor_id"].(float64)
	if !ok {
		return 0, errors.New("invalid instructor_id in token")
	}

	return uint(idFloat), nil
}
