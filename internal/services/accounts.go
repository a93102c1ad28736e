package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// IdentityVerifier checks third-party sign-in tokens.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*models.ExternalIdentity, error)
}

const searchLimit = 20

// AccountService owns users, companies and company follows.
type AccountService struct {
	users     repositories.UserRepository
	companies repositories.CompanyRepository
	follows   repositories.CompanyFollowRepository
	directory *AccountDirectory
	tokens    *TokenIssuer
	identity  IdentityVerifier
	logger    *zap.Logger
}

func NewAccountService(
	users repositories.UserRepository,
	companies repositories.CompanyRepository,
	follows repositories.CompanyFollowRepository,
	directory *AccountDirectory,
	tokens *TokenIssuer,
	identity IdentityVerifier,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		companies: companies,
		follows:   follows,
		directory: directory,
		tokens:    tokens,
		identity:  identity,
		logger:    logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ensureEmailFree checks both account namespaces.
func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("lookup user email: %w", err)
	}

	_, err = s.companies.GetCompanyByEmail(ctx, email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("lookup company email: %w", err)
	}
	return nil
}

func (s *AccountService) respond(ref models.AccountRef, email string, summary models.AccountSummary) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(ref, email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Account: summary}, nil
}

func (s *AccountService) SignupUser(ctx context.Context, req models.CreateLocalUserRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Headline: req.Headline,
		Location: req.Location,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up", zap.Uint("user_id", user.ID))
	return s.respond(user.Ref(), user.Email, user.ToSummary())
}

func (s *AccountService) SignupCompany(ctx context.Context, req models.CreateCompanyRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	company := &models.Company{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Industry: req.Industry,
		Location: req.Location,
	}
	if err := s.companies.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create company: %w", err)
	}

	s.logger.Info("company signed up", zap.Uint("company_id", company.ID))
	return s.respond(company.Ref(), company.Email, company.ToSummary())
}

// SignIn looks the email up as a user first, then as a company.
func (s *AccountService) SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !passwordMatches(user.Password, req.Password) {
			return nil, ErrInvalidCredentials
		}
		return s.respond(user.Ref(), user.Email, user.ToSummary())
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	company, err := s.companies.GetCompanyByEmail(ctx, email)
	switch {
	case err == nil:
		if !passwordMatches(company.Password, req.Password) {
			return nil, ErrInvalidCredentials
		}
		return s.respond(company.Ref(), company.Email, company.ToSummary())
	case errors.Is(err, repositories.ErrNotFound):
		return nil, ErrInvalidCredentials
	}
	return nil, fmt.Errorf("lookup company: %w", err)
}

// passwordMatches is false for accounts created through external sign-in.
func passwordMatches(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ExternalLogin exchanges a third-party ID token for a local token. The user
// is found by external id, then by email (linking the id), or created.
func (s *AccountService) ExternalLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if s.identity == nil {
		return nil, ErrInvalidToken
	}
	identity, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Info("external token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUserByExternalUID(ctx, identity.ExternalID)
	if err == nil {
		return s.respond(user.Ref(), user.Email, user.ToSummary())
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup external uid: %w", err)
	}

	email := normalizeEmail(identity.Email)
	if email == "" {
		return nil, ErrInvalidToken
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !identity.VerifiedEmail {
			return nil, ErrEmailTaken
		}
		uid := identity.ExternalID
		user.ExternalUID = &uid
		if user.PictureURL == "" {
			user.PictureURL = identity.PictureURL
		}
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("link external uid: %w", err)
		}
		s.directory.Invalidate(ctx, user.Ref())
		return s.respond(user.Ref(), user.Email, user.ToSummary())
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if _, err := s.companies.GetCompanyByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup company: %w", err)
	}

	uid := identity.ExternalID
	name := identity.Name
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user = &models.User{
		Name:        name,
		Email:       email,
		ExternalUID: &uid,
		PictureURL:  identity.PictureURL,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up externally", zap.Uint("user_id", user.ID))
	return s.respond(user.Ref(), user.Email, user.ToSummary())
}

func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError("user", err)
	}
	return user, nil
}

func (s *AccountService) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	company, err := s.companies.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, storeError("company", err)
	}
	return company, nil
}

func (s *AccountService) GetAccountSummary(ctx context.Context, ref models.AccountRef) (models.AccountSummary, error) {
	return s.directory.Summary(ctx, ref)
}

func (s *AccountService) UpdateUserProfile(ctx context.Context, actor models.AccountRef, req models.UpdateUserRequest) (*models.User, error) {
	if !actor.IsUser() {
		return nil, ErrUsersOnly
	}
	user, err := s.users.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError("user", err)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Headline != nil {
		user.Headline = *req.Headline
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.About != nil {
		user.About = *req.About
	}
	if req.PictureURL != nil {
		user.PictureURL = *req.PictureURL
	}
	if req.Experiences != nil {
		user.Experiences = req.Experiences
	}
	if req.Educations != nil {
		user.Educations = req.Educations
	}
	if req.Projects != nil {
		user.Projects = req.Projects
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}
	if req.Certificates != nil {
		user.Certificates = req.Certificates
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.directory.Invalidate(ctx, actor)
	return user, nil
}

func (s *AccountService) UpdateCompanyProfile(ctx context.Context, actor models.AccountRef, req models.UpdateCompanyRequest) (*models.Company, error) {
	if actor.Type != models.AccountCompany {
		return nil, ErrCompaniesOnly
	}
	company, err := s.companies.GetCompanyByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError("company", err)
	}

	if req.Name != nil {
		company.Name = strings.TrimSpace(*req.Name)
	}
	if req.Industry != nil {
		company.Industry = *req.Industry
	}
	if req.Location != nil {
		company.Location = *req.Location
	}
	if req.About != nil {
		company.About = *req.About
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.LogoURL != nil {
		company.LogoURL = *req.LogoURL
	}

	if err := s.companies.UpdateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	s.directory.Invalidate(ctx, actor)
	return company, nil
}

// SearchAccounts matches users then companies by name, email or headline.
func (s *AccountService) SearchAccounts(ctx context.Context, query string) ([]models.AccountSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}

	users, err := s.users.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	companies, err := s.companies.SearchCompanies(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}

	results := make([]models.AccountSummary, 0, len(users)+len(companies))
	for i := range users {
		results = append(results, users[i].ToSummary())
	}
	for i := range companies {
		results = append(results, companies[i].ToSummary())
	}
	return results, nil
}

func (s *AccountService) FollowCompany(ctx context.Context, actor models.AccountRef, companyID uint) error {
	if !actor.IsUser() {
		return ErrUsersOnly
	}
	if _, err := s.companies.GetCompanyByID(ctx, companyID); err != nil {
		return storeError("company", err)
	}

	err := s.follows.CreateFollow(ctx, &models.CompanyFollow{UserID: actor.ID, CompanyID: companyID})
	if errors.Is(err, repositories.ErrDuplicate) {
		return ErrAlreadyFollowing
	}
	if err != nil {
		return fmt.Errorf("follow company: %w", err)
	}
	return nil
}

func (s *AccountService) UnfollowCompany(ctx context.Context, actor models.AccountRef, companyID uint) error {
	if !actor.IsUser() {
		return ErrUsersOnly
	}
	return storeError("follow", s.follows.DeleteFollow(ctx, actor.ID, companyID))
}

func (s *AccountService) ListFollowedCompanies(ctx context.Context, userID uint) ([]models.AccountSummary, error) {
	ids, err := s.follows.GetFollowedCompanyIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}

	companies := make([]models.AccountSummary, 0, len(ids))
	for _, id := range ids {
		companies = append(companies, s.directory.SummaryOrStub(ctx, models.CompanyRef(id)))
	}
	return companies, nil
}

func (s *AccountService) CountFollowers(ctx context.Context, companyID uint) (int64, error) {
	if _, err := s.companies.GetCompanyByID(ctx, companyID); err != nil {
		return 0, storeError("company", err)
	}
	return s.follows.GetFollowersCount(ctx, companyID)
}
