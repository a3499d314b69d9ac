package services

import (
	"context"
	"strings"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateStaffRequest struct {
	Name     string           `json:"name" binding:"required"`
	Email    string           `json:"email" binding:"required,email"`
	Password string           `json:"password" binding:"required,min=6"`
	Role     models.StaffRole `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StaffService owns back-office accounts
type StaffService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewStaffService(db *gorm.DB, log *logrus.Logger) *StaffService {
	return &StaffService{db: db, log: log.WithField("component", "staff_service")}
}

func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest) (*models.StaffUser, error) {
	if !req.Role.Valid() {
		return nil, apperr.BusinessRule("Invalid role. Must be: staff or admin")
	}
	if len(req.Password) < 6 {
		return nil, apperr.BusinessRule("Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	user := models.StaffUser{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperr.Constraint(err)
	}
	s.log.WithFields(logrus.Fields{"staff_id": user.ID, "role": user.Role}).Info("staff account created")
	return &user, nil
}

// Authenticate returns the account matching the credentials.
func (s *StaffService) Authenticate(ctx context.Context, req LoginRequest) (*models.StaffUser, error) {
	var user models.StaffUser
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.BusinessRule("Invalid email or password")
		}
		return nil, errors.Wrap(err, "load staff user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.BusinessRule("Invalid email or password")
	}
	return &user, nil
}

func (s *StaffService) Get(ctx context.Context, id uint) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, apperr.FromRead(err, "Staff user")
	}
	return &user, nil
}
