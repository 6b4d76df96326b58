package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/easyjob/apiserver/internal/store"
	"github.com/easyjob/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when an email/password pair does not
// identify an active user.
var ErrInvalidCredentials = errors.New("no active account found with the given credentials")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context, page types.Page) ([]types.User, int, error)
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// RegisterInput carries the fields accepted on sign-up.
type RegisterInput struct {
	Email       string         `json:"email"`
	Username    string         `json:"username"`
	Password    string         `json:"password"`
	Password2   string         `json:"password2"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	UserType    types.UserType `json:"user_type"`
	PhoneNumber *string        `json:"phone_number"`
}

// UserPatch carries profile changes. Nil fields are left untouched.
type UserPatch struct {
	Email        *string         `json:"email"`
	Username     *string         `json:"username"`
	FirstName    *string         `json:"first_name"`
	LastName     *string         `json:"last_name"`
	UserType     *types.UserType `json:"user_type"`
	PhoneNumber  *string         `json:"phone_number"`
	ProfileImage *Upload         `json:"-"`
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo    UserRepository
	uploads *Uploader
}

func NewUserService(repo UserRepository, uploads *Uploader) *UserService {
	return &UserService{repo: repo, uploads: uploads}
}

func (s *UserService) List(ctx context.Context, page types.Page) ([]types.User, int, error) {
	return s.repo.List(ctx, page)
}

// GetByID loads a user without access checks. It backs authentication.
func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	return user, wrap("user", err)
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (types.User, error) {
	errs := fieldErrors{}
	email, ok := normalizeEmail(input.Email)
	if strings.TrimSpace(input.Email) == "" {
		errs.add("email", msgRequired)
	} else if !ok {
		errs.add("email", "Enter a valid email address.")
	}
	errs.require("password", input.Password)
	errs.require("password2", input.Password2)
	errs.require("first_name", input.FirstName)
	errs.require("last_name", input.LastName)
	if input.UserType == "" {
		input.UserType = types.UserTypeJobSeeker
	}
	if !input.UserType.Valid() {
		errs.add("user_type", `"`+string(input.UserType)+`" is not a valid choice.`)
	}
	errs.maxLength("username", input.Username, 150)
	errs.maxLength("first_name", input.FirstName, 150)
	errs.maxLength("last_name", input.LastName, 150)
	if input.PhoneNumber != nil {
		errs.maxLength("phone_number", strings.TrimSpace(*input.PhoneNumber), 15)
	}
	if input.Password != "" && input.Password2 != "" && input.Password != input.Password2 {
		errs.add("password", "Passwords don't match.")
	}
	if err := errs.err(); err != nil {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = email
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		UserType:     input.UserType,
		PhoneNumber:  blankToNil(input.PhoneNumber),
		PasswordHash: string(hashed),
		IsActive:     true,
	})
	return user, wrap("user", err)
}

// CreateSuperuser creates an active staff superuser.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (types.User, error) {
	normalized, ok := normalizeEmail(email)
	if !ok {
		return types.User{}, invalid("email", "Enter a valid email address.")
	}
	if password == "" {
		return types.User{}, invalid("password", msgRequired)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}
	user, err := s.repo.Create(ctx, types.User{
		Email:        normalized,
		Username:     normalized,
		UserType:     types.UserTypeEmployer,
		PasswordHash: string(hashed),
		IsStaff:      true,
		IsSuperuser:  true,
		IsActive:     true,
	})
	return user, wrap("user", err)
}

// Authenticate verifies an email/password pair for an active user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, actor types.User, id int) (types.User, error) {
	if err := canManageUser(actor, id); err != nil {
		return types.User{}, err
	}
	return s.GetByID(ctx, id)
}

// Update applies patch to user id. With partial unset the identity fields
// must all be supplied.
func (s *UserService) Update(ctx context.Context, actor types.User, id int, patch UserPatch, partial bool) (types.User, error) {
	if err := canManageUser(actor, id); err != nil {
		return types.User{}, err
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}
	if !partial {
		errs := fieldErrors{}
		if patch.Email == nil {
			errs.add("email", msgRequired)
		}
		if patch.Username == nil {
			errs.add("username", msgRequired)
		}
		if err := errs.err(); err != nil {
			return types.User{}, err
		}
	}
	return s.apply(ctx, user, patch)
}

func (s *UserService) Delete(ctx context.Context, actor types.User, id int) error {
	if err := canManageUser(actor, id); err != nil {
		return err
	}
	return wrap("user", s.repo.Delete(ctx, id))
}

// UpdateMe applies a partial profile update to the caller.
func (s *UserService) UpdateMe(ctx context.Context, actor types.User, patch UserPatch) (types.User, error) {
	user, err := s.GetByID(ctx, actor.ID)
	if err != nil {
		return types.User{}, err
	}
	return s.apply(ctx, user, patch)
}

func (s *UserService) apply(ctx context.Context, user types.User, patch UserPatch) (types.User, error) {
	errs := fieldErrors{}
	if patch.Email != nil {
		email, ok := normalizeEmail(*patch.Email)
		if !ok {
			errs.add("email", "Enter a valid email address.")
		}
		user.Email = email
	}
	if patch.Username != nil {
		errs.require("username", *patch.Username)
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.UserType != nil {
		if !patch.UserType.Valid() {
			errs.add("user_type", `"`+string(*patch.UserType)+`" is not a valid choice.`)
		}
		user.UserType = *patch.UserType
	}
	if patch.PhoneNumber != nil {
		user.PhoneNumber = blankToNil(patch.PhoneNumber)
	}
	errs.maxLength("username", user.Username, 150)
	errs.maxLength("first_name", user.FirstName, 150)
	errs.maxLength("last_name", user.LastName, 150)
	if user.PhoneNumber != nil {
		errs.maxLength("phone_number", *user.PhoneNumber, 15)
	}
	if err := errs.err(); err != nil {
		return types.User{}, err
	}

	var previous string
	if patch.ProfileImage != nil {
		key, err := s.uploads.Save(ctx, "profile_image", ProfileImages, patch.ProfileImage)
		if err != nil {
			return types.User{}, err
		}
		if user.ProfileImage != nil {
			previous = *user.ProfileImage
		}
		user.ProfileImage = &key
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if user.ProfileImage != nil && patch.ProfileImage != nil {
			s.uploads.Remove(ctx, *user.ProfileImage)
		}
		return types.User{}, wrap("user", err)
	}
	s.uploads.Remove(ctx, previous)
	return updated, nil
}

func canManageUser(actor types.User, id int) error {
	if actor.ID == id || actor.IsAdmin() {
		return nil
	}
	return ErrPermissionDenied
}

// normalizeEmail lower-cases the domain part of a syntactically valid
// address.
func normalizeEmail(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return raw, false
	}
	at := strings.LastIndex(raw, "@")
	return raw[:at] + "@" + strings.ToLower(raw[at+1:]), true
}

func blankToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
