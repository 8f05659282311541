package services

import (
	"context"
	"errors"
	"fmt"

	"sciarticles/models"
	"sciarticles/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Session is the verified identity attached to a request by the auth middleware.
type Session struct {
	ExternalID string
	Email      string
	FullName   string
	FirstName  string
	LastName   string
	Username   string
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// ProfileProvider fetches profile data for an external identity.
type ProfileProvider interface {
	FetchProfile(ctx context.Context, externalID string) (*models.IdentityProfile, error)
}

type IdentityService interface {
	// Resolve returns the local user for an external id, creating it on first sight.
	Resolve(ctx context.Context, externalID string) (*models.User, error)
}

type identityService struct {
	userRepo repositories.UserRepository
	profiles ProfileProvider
	log      *zap.Logger
}

func NewIdentityService(userRepo repositories.UserRepository, profiles ProfileProvider, log *zap.Logger) IdentityService {
	return &identityService{
		userRepo: userRepo,
		profiles: profiles,
		log:      log,
	}
}

func (s *identityService) Resolve(ctx context.Context, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, models.ErrorUnauthorized{Message: models.MsgUnauthorized}
	}

	user, err := s.userRepo.GetByClerkID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrorInternalServer{Message: "lookup user", Err: err}
	}

	profile, err := s.profiles.FetchProfile(ctx, externalID)
	if err != nil {
		return nil, models.ErrorIdentityUnavailable{Message: models.MsgUserNotFound, Err: err}
	}
	if profile == nil || profile.Empty() {
		return nil, models.ErrorIdentityUnavailable{Message: models.MsgUserNotFound}
	}

	user, err = s.userRepo.CreateIfAbsent(ctx, &models.User{
		ClerkID: externalID,
		Email:   profile.PrimaryEmail(),
		Name:    profile.DisplayName(),
	})
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "provision user", Err: err}
	}

	s.log.Info("provisioned user",
		zap.String("user_id", user.ID),
		zap.String("clerk_id", externalID),
	)

	return user, nil
}

// ClaimsProfileProvider builds profiles from the verified session claims in ctx.
type ClaimsProfileProvider struct{}

func (ClaimsProfileProvider) FetchProfile(ctx context.Context, externalID string) (*models.IdentityProfile, error) {
	session, ok := SessionFrom(ctx)
	if !ok {
		return nil, errors.New("no session in context")
	}
	if session.ExternalID != externalID {
		return nil, fmt.Errorf("session subject %q does not match %q", session.ExternalID, externalID)
	}

	profile := &models.IdentityProfile{
		ExternalID: session.ExternalID,
		FullName:   session.FullName,
		FirstName:  session.FirstName,
		LastName:   session.LastName,
		Username:   session.Username,
	}
	if session.Email != "" {
		profile.Emails = []string{session.Email}
	}
	return profile, nil
}
