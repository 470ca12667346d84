package auth

import (
	"context"
	"database/sql"
	"errors"

	"bmu-backend/lib/scrapers/gnums"
	"bmu-backend/services/auth/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/auth")

// LinkError reports the state of the google account link. It is an
// expected outcome of GoogleLogin, not a failure of the portal.
type LinkError struct {
	Code    string
	Message string
}

func (e *LinkError) Error() string {
	return e.Message
}

var (
	ErrAccountAlreadyLinked = &LinkError{
		Code:    "ACCOUNT_ALREADY_LINKED",
		Message: "This BMU account is already linked to another Google account.",
	}
	ErrAccountCreatedNeedsLinking = &LinkError{
		Code:    "ACCOUNT_CREATED_NEEDS_LINKING",
		Message: "Account created. Please link your BMU account.",
	}
	ErrAccountNeedsLinking = &LinkError{
		Code:    "ACCOUNT_NEEDS_LINKING",
		Message: "Account exists but is not linked to BMU credentials.",
	}
)

type Service struct {
	db     *sql.DB
	qry    *db.Queries
	portal *gnums.Client
}

func NewService(database *sql.DB, portal *gnums.Client) Service {
	return Service{
		db:     database,
		qry:    db.New(database),
		portal: portal,
	}
}

func (s Service) Login(ctx context.Context, username, password string) (gnums.Session, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	session, err := s.portal.Login(ctx, username, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return session, nil
}

// GoogleLogin resolves a google account to a portal session. With
// credentials provided it verifies them against the portal and links
// them to the google account. Without credentials it logs in with
// whatever the account has stored, returning a LinkError when the
// account is new or still unlinked.
func (s Service) GoogleLogin(ctx context.Context, googleId, username, password string) (gnums.Session, error) {
	ctx, span := tracer.Start(ctx, "GoogleLogin")
	defer span.End()

	span.SetAttributes(attribute.String("google_id", googleId))

	if username != "" && password != "" {
		session, err := s.portal.Login(ctx, username, password)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		existing, err := s.qry.GetUserByUsername(ctx, username)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if err == nil && existing.GoogleId != googleId {
			return nil, ErrAccountAlreadyLinked
		}

		err = s.qry.UpsertUserCredentials(ctx, db.UpsertUserCredentialsParams{
			GoogleId: googleId,
			Username: sql.NullString{String: username, Valid: true},
			Password: sql.NullString{String: password, Valid: true},
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		return session, nil
	}

	user, err := s.qry.GetUserByGoogleId(ctx, googleId)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.qry.CreateUser(ctx, googleId); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		return nil, ErrAccountCreatedNeedsLinking
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if user.Username.String == "" || user.Password.String == "" {
		return nil, ErrAccountNeedsLinking
	}

	session, err := s.portal.Login(ctx, user.Username.String, user.Password.String)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return session, nil
}

// ValidateSession never fails, an unreachable portal just reads as an
// invalid session.
func (s Service) ValidateSession(ctx context.Context, session gnums.Session) bool {
	ctx, span := tracer.Start(ctx, "ValidateSession")
	defer span.End()

	return s.portal.CheckSession(ctx, session)
}

func (s Service) Logout(ctx context.Context, session gnums.Session) error {
	ctx, span := tracer.Start(ctx, "Logout")
	defer span.End()

	err := s.portal.Logout(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
