package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pratamaditya/ucap/pkg/errorsx"
)

// User is a learner identity plus language preferences.
type User struct {
	ID               int64     `db:"id"`
	Name             string    `db:"name"`
	APIToken         string    `db:"api_token"`
	LearningLanguage string    `db:"learning_language"`
	LanguageLevel    string    `db:"language_level"`
	Plan             string    `db:"plan"`
	CreatedAt        time.Time `db:"created_at"`
}

// CreateUser inserts a user and fills in the generated id.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, api_token, learning_language, language_level, plan)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.Name, u.APIToken, u.LearningLanguage, u.LanguageLevel, u.Plan,
	)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonStoreQuery)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonStoreQuery)
	}
	u.ID = id
	return nil
}

// UserByToken resolves a bearer token to a user. Unknown tokens come back as
// unauthenticated, not as a store failure.
func (s *Store) UserByToken(ctx context.Context, token string) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE api_token = $1`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, errorsx.New(errorsx.ReasonUnauthenticated, "unknown token")
	}
	if err != nil {
		return User{}, errorsx.Wrap(err, errorsx.ReasonStoreQuery)
	}
	return u, nil
}

// HasAccess reports whether the user's plan includes the feature.
func (s *Store) HasAccess(ctx context.Context, userID int64, feature string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM plan_features pf
		 JOIN users u ON u.plan = pf.plan
		 WHERE u.id = $1 AND pf.feature = $2`,
		userID, feature,
	)
	if err != nil {
		return false, errorsx.Wrap(err, errorsx.ReasonStoreQuery)
	}
	return n > 0, nil
}
