package service

import (
	"context"
	"errors"

	"yatube/internal/database"
	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const duplicateUsernameMsg = "A user with that username already exists."

type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	// dummyHash keeps login timing similar for unknown usernames.
	dummyHash []byte
}

type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return NewUserServiceWithCost(userRepo, bcrypt.DefaultCost)
}

// NewUserServiceWithCost lets tests use a cheaper bcrypt cost.
func NewUserServiceWithCost(userRepo repository.UserRepository, cost int) *UserService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &UserService{userRepo: userRepo, bcryptCost: cost, dummyHash: dummy}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return user, nil
}

// Register creates an account. A taken username is reported as a field error.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	exists, err := s.userRepo.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, forms.Errors{"username": {duplicateUsernameMsg}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same name.
		if database.IsUniqueViolation(err) {
			return nil, forms.Errors{"username": {duplicateUsernameMsg}}
		}
		return nil, err
	}

	observability.ContentCreated.WithLabelValues("user").Inc()
	return user, nil
}

// Authenticate checks credentials and returns UNAUTHORIZED on any mismatch.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, models.NewUnauthorizedError("Please enter a correct username and password.")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Please enter a correct username and password.")
	}
	return user, nil
}

func (s *UserService) SetAdmin(ctx context.Context, username string, isAdmin bool) error {
	if err := s.userRepo.SetAdmin(ctx, username, isAdmin); err != nil {
		return notFoundOr(err, "User", username)
	}
	return nil
}
