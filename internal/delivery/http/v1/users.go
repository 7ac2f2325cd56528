package v1

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JesusMarth/qa-automation-project/internal/models"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// listedUser is the row shape of GET /api/users and deliberately carries
// the plaintext password. Seeded bug: the endpoint has no auth gate and
// over-exposes credential material.
type listedUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type registerUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (h *handlerImpl) HandleRegisterUser(c *gin.Context) {
	var req registerUserRequest
	err := c.ShouldBindJSON(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidBody))
		return
	}

	// Seeded bugs: the email check is just "contains @" and three
	// characters pass as a password.
	if req.Username == "" || req.Password == "" || req.Email == "" {
		h.logger.Warn().Msg("missing registration fields")
		abort(c, newBadRequestError(msgUserFieldsRequired))
		return
	}
	if !strings.Contains(req.Email, "@") {
		h.logger.Warn().
			Str("email", req.Email).
			Msg("invalid email format")
		abort(c, newBadRequestError(msgUserInvalidEmail))
		return
	}
	if len(req.Password) < 3 {
		h.logger.Warn().Msg("password too short")
		abort(c, newBadRequestError(msgUserShortPassword))
		return
	}

	// Seeded bug: the password is stored verbatim, no hashing.
	insertUserQuery := h.store.Rebind(`
INSERT INTO users (username, password, email, created_at)
VALUES (?, ?, ?, ?) RETURNING id
`)

	var userID int64
	err = h.store.DB.QueryRowContext(
		c,
		insertUserQuery,
		req.Username,
		req.Password,
		req.Email,
		time.Now(),
	).Scan(&userID)
	if err != nil {
		if h.store.IsUniqueViolation(err) {
			h.logger.Warn().
				Str("username", req.Username).
				Msg("user already exists")
			abort(c, newConflictError(msgUserAlreadyExists))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to insert user")
		abort(c, newInternalError(msgUserCreateFailed))
		return
	}
	h.logger.Debug().
		Int64("id", userID).
		Msg("inserted user")

	// Re-read the created row without the password column.
	selectUserQuery := h.store.Rebind(`
SELECT id, username, email, created_at
FROM users WHERE id = ?
`)

	var user models.User
	err = h.store.DB.QueryRowContext(c, selectUserQuery, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", userID).
			Msg("failed to select created user")
		abort(c, newInternalError(msgUserReadBackFailed))
		return
	}

	h.logger.Info().
		Int64("id", user.ID).
		Str("username", user.Username).
		Msg("registered user")
	c.JSON(http.StatusCreated, userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginUser is the user object of a successful login. Seeded bug: it
// includes the plaintext password.
type loginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlerImpl) HandleLoginUser(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidBody))
		return
	}

	if req.Username == "" || req.Password == "" {
		h.logger.Warn().Msg("missing login fields")
		abort(c, newBadRequestError(msgLoginFieldsRequired))
		return
	}

	// Seeded bug: credentials are interpolated into the query text, so
	// the login is injectable; the match itself is exact string equality
	// against the stored plaintext.
	query := fmt.Sprintf(
		`SELECT id, username, password, email FROM users WHERE username = '%s' AND password = '%s'`,
		req.Username, req.Password,
	)

	var user models.User
	err = h.store.DB.QueryRowContext(c, query).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.logger.Warn().
				Str("username", req.Username).
				Msg("invalid credentials")
			abort(c, newUnauthorizedError(msgLoginBadCredentials))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to select user")
		abort(c, newInternalError(msgLoginFailed))
		return
	}

	h.logger.Info().
		Int64("id", user.ID).
		Str("username", user.Username).
		Msg("user logged in")
	c.JSON(http.StatusOK, gin.H{
		"message": msgLoginOK,
		"user": loginUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Password: user.Password,
		},
	})
}

func (h *handlerImpl) HandleListUsers(c *gin.Context) {
	const selectUsersQuery = `
SELECT id, username, password, email, created_at
FROM users
`

	rows, err := h.store.DB.QueryContext(c, selectUsersQuery)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to select users")
		abort(c, newInternalError(msgUserListFailed))
		return
	}
	defer rows.Close()

	users := make([]listedUser, 0)
	for rows.Next() {
		var user models.User
		err = rows.Scan(
			&user.ID,
			&user.Username,
			&user.Password,
			&user.Email,
			&user.CreatedAt,
		)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to scan user")
			abort(c, newInternalError(msgUserListFailed))
			return
		}
		users = append(users, listedUser{
			ID:        user.ID,
			Username:  user.Username,
			Password:  user.Password,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		})
	}

	err = rows.Err()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		abort(c, newInternalError(msgUserListFailed))
		return
	}

	h.logger.Debug().
		Int("count", len(users)).
		Msg("selected users")
	c.JSON(http.StatusOK, users)
}
