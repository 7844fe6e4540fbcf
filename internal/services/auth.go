package services

import (
	"context"

	"bankdg/internal/core"
	"bankdg/internal/fetch"
	"bankdg/internal/log"
	"bankdg/internal/session"
)

// Auth logs users in against the backend and keeps the resulting
// token in the session so later API calls carry it.
type Auth struct {
	authenticator fetch.Authenticator
	session       *session.Session
	logger        *log.Logger
}

func NewAuth(authenticator fetch.Authenticator, sess *session.Session, logger *log.Logger) *Auth {
	return &Auth{
		authenticator: authenticator,
		session:       sess,
		logger:        logger.WithComponent(log.ComponentSecurity),
	}
}

func (a *Auth) Login(ctx context.Context, username, password string) (core.User, error) {
	user, token, err := a.authenticator.Login(ctx, username, password)
	if err != nil {
		a.logger.WarnContext(ctx, "login refused", "username", username, log.FieldError, err.Error())
		return core.User{}, err
	}
	a.session.Start(user, token)
	a.logger.InfoContext(ctx, "login succeeded", log.FieldUserID, user.ID)
	return user, nil
}

func (a *Auth) Logout() {
	a.session.End()
}

// Current returns the logged-in user, or an error when the session is
// missing or expired.
func (a *Auth) Current() (core.User, error) {
	return a.session.User()
}
