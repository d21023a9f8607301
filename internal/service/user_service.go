package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"learning-service/internal/models"
	"learning-service/internal/repository"
	"learning-service/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxFailedLogins = 10
	lockoutDuration = 10 * time.Minute
	codeGenAttempts = 10
)

type failedLogin struct {
	count       int
	lockedUntil time.Time
}

type UserService struct {
	Users UserRepository

	mu           sync.Mutex
	failedLogins map[string]*failedLogin
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{
		Users:        users,
		failedLogins: make(map[string]*failedLogin),
	}
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Role     string
}

// AuthResult is what a successful registration or login hands back. Token is
// empty when the account is still pending approval.
type AuthResult struct {
	User    *models.User
	Token   string
	Pending bool
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) || role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot self-register with role %q", ErrForbidden, in.Role)
	}

	existing, err := s.Users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username or email already in use", ErrConflict)
	}

	now := time.Now().UTC()
	user := &models.User{
		Name:      in.Name,
		Username:  in.Username,
		Email:     in.Email,
		Role:      role,
		Children:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	// Students are active right away and get a shareable code; parents and
	// teachers wait for approval.
	if role == models.RoleStudent {
		user.Status = models.StatusActive
		code, err := s.uniqueStudentCode(ctx)
		if err != nil {
			return nil, err
		}
		user.StudentCode = code
	} else {
		user.Status = models.StatusPending
	}

	if err := s.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already in use", ErrConflict)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	result := &AuthResult{User: user, Pending: user.Status == models.StatusPending}
	if user.Status == models.StatusActive {
		token, err := utils.GenerateJWT(user.ID.Hex())
		if err != nil {
			return nil, err
		}
		result.Token = token
	}
	return result, nil
}

func (s *UserService) uniqueStudentCode(ctx context.Context) (string, error) {
	for i := 0; i < codeGenAttempts; i++ {
		code := utils.GenerateStudentCode()
		existing, err := s.Users.FindByStudentCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique student code")
}

func (s *UserService) Authenticate(ctx context.Context, login, password string) (*AuthResult, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if s.isLocked(login) {
		return nil, ErrAccountLocked
	}

	user, err := s.Users.FindByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || !user.CheckPassword(password) {
		s.recordFailure(login)
		return nil, ErrInvalidCredentials
	}

	switch user.Status {
	case models.StatusPending:
		return nil, ErrAccountPending
	case models.StatusRejected:
		return nil, ErrAccountRejected
	}

	s.clearFailures(login)
	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) isLocked(login string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fl := s.failedLogins[login]
	return fl != nil && time.Now().Before(fl.lockedUntil)
}

func (s *UserService) recordFailure(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fl := s.failedLogins[login]
	if fl == nil {
		fl = &failedLogin{}
		s.failedLogins[login] = fl
	}
	fl.count++
	if fl.count >= maxFailedLogins {
		fl.lockedUntil = time.Now().Add(lockoutDuration)
		fl.count = 0
	}
}

func (s *UserService) clearFailures(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failedLogins, login)
}

// Approve activates a pending (or already active) account. Re-approving an
// active account is allowed and reassigns approvedBy.
func (s *UserService) Approve(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
	return s.decide(ctx, actor, targetID, models.StatusActive)
}

func (s *UserService) Reject(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
	return s.decide(ctx, actor, targetID, models.StatusRejected)
}

func (s *UserService) decide(ctx context.Context, actor *models.User, targetID, status string) (*models.User, error) {
	id, err := objectID(targetID)
	if err != nil {
		return nil, err
	}
	target, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("looking up target: %w", err)
	}
	if target == nil {
		return nil, ErrNotFound
	}
	if !models.CanDecide(actor.Role, target.Role) {
		return nil, fmt.Errorf("%w: a %s cannot decide a %s account", ErrForbidden, actor.Role, target.Role)
	}

	var approvedBy *primitive.ObjectID
	if status == models.StatusActive {
		approvedBy = &actor.ID
	}
	if err := s.Users.SetStatus(ctx, target.ID, status, approvedBy); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}
	target.Status = status
	if approvedBy != nil {
		target.ApprovedBy = approvedBy
	}
	return target, nil
}

// Reactivate moves a rejected teacher or parent back to active. Admin only;
// the handler enforces the actor role, the service enforces the target state.
func (s *UserService) Reactivate(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
	id, err := objectID(targetID)
	if err != nil {
		return nil, err
	}
	target, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("looking up target: %w", err)
	}
	if target == nil || (target.Role != models.RoleTeacher && target.Role != models.RoleParent) {
		return nil, ErrNotFound
	}
	if target.Status != models.StatusRejected {
		return nil, fmt.Errorf("%w: only rejected accounts can be reactivated", ErrInvalidState)
	}
	if err := s.Users.SetStatus(ctx, target.ID, models.StatusActive, &actor.ID); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}
	target.Status = models.StatusActive
	target.ApprovedBy = &actor.ID
	return target, nil
}

func (s *UserService) DeleteAccount(ctx context.Context, targetID string) error {
	id, err := objectID(targetID)
	if err != nil {
		return err
	}
	target, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("looking up target: %w", err)
	}
	if target == nil {
		return ErrNotFound
	}
	if !models.Deletable(target.Role) {
		return fmt.Errorf("%w: %s accounts cannot be deleted", ErrForbidden, target.Role)
	}
	return s.Users.Delete(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, []models.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrNotFound
	}
	children, err := s.Users.FindByIDs(ctx, user.Children)
	if err != nil {
		return nil, nil, err
	}
	return user, children, nil
}

// LinkChild attaches a student to the caller's account via the student's
// shareable code.
func (s *UserService) LinkChild(ctx context.Context, owner *models.User, studentCode string) (*models.User, error) {
	student, err := s.Users.FindByStudentCode(ctx, strings.ToUpper(strings.TrimSpace(studentCode)))
	if err != nil {
		return nil, fmt.Errorf("looking up student code: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: no student with this code", ErrNotFound)
	}
	if owner.HasChild(student.ID) {
		return nil, fmt.Errorf("%w: student already linked", ErrConflict)
	}
	if err := s.Users.PushChild(ctx, owner.ID, student.ID); err != nil {
		return nil, fmt.Errorf("linking student: %w", err)
	}
	return student, nil
}

// LinkChildByAdmin links a student to a teacher or parent account directly by
// ids, for the admin management screen.
func (s *UserService) LinkChildByAdmin(ctx context.Context, targetUserID, studentID string) (*models.User, error) {
	targetID, err := objectID(targetUserID)
	if err != nil {
		return nil, err
	}
	sid, err := objectID(studentID)
	if err != nil {
		return nil, err
	}
	target, err := s.Users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	student, err := s.Users.FindByID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if target == nil || student == nil {
		return nil, fmt.Errorf("%w: user or student missing", ErrNotFound)
	}
	if target.Role != models.RoleTeacher && target.Role != models.RoleParent {
		return nil, fmt.Errorf("%w: only teachers and parents can be linked to students", ErrForbidden)
	}
	if target.HasChild(student.ID) {
		return nil, fmt.Errorf("%w: student already linked", ErrConflict)
	}
	if err := s.Users.PushChild(ctx, target.ID, student.ID); err != nil {
		return nil, fmt.Errorf("linking student: %w", err)
	}
	return student, nil
}

func (s *UserService) ListPending(ctx context.Context, role string) ([]models.User, error) {
	return s.Users.FindByRoleAndStatuses(ctx, role, models.StatusPending)
}

// ListDecided returns the approval history for a role: accounts already
// approved or rejected.
func (s *UserService) ListDecided(ctx context.Context, role string) ([]models.User, error) {
	return s.Users.FindByRoleAndStatuses(ctx, role, models.StatusActive, models.StatusRejected)
}

func (s *UserService) ListStudents(ctx context.Context) ([]models.User, error) {
	return s.Users.FindByRoleAndStatuses(ctx, models.RoleStudent)
}
