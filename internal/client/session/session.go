// Package session owns the authenticated principal id and a locally cached
// profile, refreshed through its own live subscription. Authentication
// itself is external: the session is bootstrapped from an already-issued ID
// token.
package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/logging"
	"github.com/dmitrijs2005/groupshare/internal/remote"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	principalID string
	profile     *Cell[models.Principal]
	log         logging.Logger
}

func New(principalID string, log logging.Logger) *Session {
	return &Session{
		principalID: principalID,
		profile:     NewCell(models.Principal{ID: principalID}),
		log:         log,
	}
}

// PrincipalIDFromToken extracts the principal id (subject claim) from an ID
// token issued by the external auth service. The signature is not verified
// here: verification happens server-side; the client only needs the id.
func PrincipalIDFromToken(tokenString string) (string, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", common.ErrInvalidToken
	}
	return sub, nil
}

func (s *Session) PrincipalID() string {
	return s.principalID
}

// Profile is the cached principal profile cell. The subscription started by
// Start is the only writer.
func (s *Session) Profile() *Cell[models.Principal] {
	return s.profile
}

// Start opens the live subscription refreshing the cached profile. The
// returned cancel tears it down.
func (s *Session) Start(ctx context.Context, rc remote.Client) (remote.CancelFunc, error) {
	cancel, err := rc.SubscribeDoc(ctx, common.CollectionUsers, s.principalID, func(doc remote.Document, exists bool, err error) {
		if err != nil || !exists {
			return
		}
		var p models.Principal
		if err := doc.DataTo(&p); err != nil {
			s.log.Warn(ctx, "failed to decode own profile", "error", err)
			return
		}
		p.ID = s.principalID
		s.profile.Set(p)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to own profile: %w", err)
	}
	return cancel, nil
}
