package data

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vive-avila/ui-api/internal/data/pgxutil"
	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
	apperrors "github.com/vive-avila/ui-api/internal/errors"
)

// DirectoryRepo provides database operations for the member directory.
// The record handle it hands out is the row id.
type DirectoryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDirectoryRepo creates a new DirectoryRepo with real time provider.
func NewDirectoryRepo(db *sql.DB) *DirectoryRepo {
	return &DirectoryRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDirectoryRepoWithTimeProvider creates a new DirectoryRepo with a custom
// time provider (useful for tests).
func NewDirectoryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DirectoryRepo {
	return &DirectoryRepo{DB: db, timeProvider: tp}
}

// userRow mirrors the users table.
type userRow struct {
	ID           string     `db:"id"`
	UID          string     `db:"uid"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	Phone        string     `db:"phone"`
	ProfileImage string     `db:"profile_image"`
	Role         string     `db:"role"`
	Provider     string     `db:"provider"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

func (u userRow) record() domainauth.Record {
	return domainauth.Record{
		UID:          u.UID,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
		Role:         domainauth.Role(u.Role),
		Provider:     domainauth.Provider(u.Provider),
	}
}

const userSelectByEmailQuery = `
	SELECT id, uid, username, email, phone, profile_image, role, provider, created_at, updated_at
	FROM users
	WHERE email = $1
	ORDER BY created_at
	LIMIT 1`

// FindOneByEmail resolves the first directory record for an email. Defined
// behavior with duplicates: the oldest row wins. A missing record reports
// a not-found error.
func (r *DirectoryRepo) FindOneByEmail(
	ctx context.Context,
	email string,
) (domainauth.Record, string, error) {
	var row userRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userSelectByEmailQuery, normalizeEmail(email))
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
		return err
	})
	if err != nil {
		return domainauth.Record{}, "", apperrors.MapDBError(err)
	}
	return row.record(), row.ID, nil
}

// CountByEmail counts directory records for an email.
func (r *DirectoryRepo) CountByEmail(ctx context.Context, email string) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT count(*) FROM users WHERE email = $1`,
			normalizeEmail(email),
		).Scan(&count)
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return count, nil
}

// Insert creates a new directory record and returns its handle.
func (r *DirectoryRepo) Insert(ctx context.Context, rec domainauth.Record) (string, error) {
	if strings.TrimSpace(rec.Email) == "" {
		return "", apperrors.ValidationField("email", "email is required")
	}

	id := uuid.NewString()
	createdAt := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO users (id, uid, username, email, phone, profile_image, role, provider, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id,
			rec.UID,
			rec.Username,
			normalizeEmail(rec.Email),
			rec.Phone,
			rec.ProfileImage,
			string(rec.Role),
			string(rec.Provider),
			createdAt,
		)
		return err
	})
	if err != nil {
		return "", apperrors.MapDBError(err)
	}
	return id, nil
}

// UpdateByRef overwrites the client-writable attributes of a record. The
// role and provider tags are deliberately not writable through this path.
func (r *DirectoryRepo) UpdateByRef(ctx context.Context, ref string, rec domainauth.Record) error {
	updatedAt := r.timeProvider.Now().UTC()
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE users
			SET username = $1, phone = $2, profile_image = $3, updated_at = $4
			WHERE id = $5`,
			rec.Username,
			rec.Phone,
			rec.ProfileImage,
			updatedAt,
			ref,
		)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if affected == 0 {
		return apperrors.NotFound("directory record not found")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
