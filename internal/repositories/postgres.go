package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aora/backend/internal/db"
	"github.com/aora/backend/internal/models"
)

// PostgresAccountRepository provides PostgreSQL-backed persistence for accounts.
type PostgresAccountRepository struct {
	pool db.Pool
}

// NewPostgresAccountRepository constructs an account repository backed by PostgreSQL.
func NewPostgresAccountRepository(pool db.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// Create persists a new account record.
func (r *PostgresAccountRepository) Create(ctx context.Context, account models.Account) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO accounts (id, email, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, account.ID, account.Email, account.Password, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// FindByEmail fetches an account by its email address.
func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, password_hash, created_at, updated_at
        FROM accounts
        WHERE email = $1
    `, email)

	return scanAccount(row)
}

// FindByID fetches an account by its identifier.
func (r *PostgresAccountRepository) FindByID(ctx context.Context, id string) (models.Account, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, password_hash, created_at, updated_at
        FROM accounts
        WHERE id = $1
    `, id)

	return scanAccount(row)
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	if err := row.Scan(&account.ID, &account.Email, &account.Password, &account.CreatedAt, &account.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, fmt.Errorf("select account: %w", err)
	}
	return account, nil
}

// PostgresProfileRepository provides PostgreSQL-backed persistence for user profiles.
type PostgresProfileRepository struct {
	pool db.Pool
}

// NewPostgresProfileRepository constructs a profile repository backed by PostgreSQL.
func NewPostgresProfileRepository(pool db.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Create persists a new profile document. The account_id column carries a
// unique index, so a second profile for the same account reports ErrConflict.
func (r *PostgresProfileRepository) Create(ctx context.Context, profile models.UserProfile) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO user_profiles (id, account_id, email, username, avatar_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, profile.ID, profile.AccountID, profile.Email, profile.Username, profile.AvatarURL, profile.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert user profile: %w", err)
	}

	return nil
}

// FindByAccountID fetches the profile owned by the provided account.
func (r *PostgresProfileRepository) FindByAccountID(ctx context.Context, accountID string) (models.UserProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, account_id, email, username, avatar_url, created_at
        FROM user_profiles
        WHERE account_id = $1
    `, accountID)

	var profile models.UserProfile
	if err := row.Scan(&profile.ID, &profile.AccountID, &profile.Email, &profile.Username, &profile.AvatarURL, &profile.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserProfile{}, ErrNotFound
		}
		return models.UserProfile{}, fmt.Errorf("select profile by account: %w", err)
	}

	return profile, nil
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for video posts.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const videoSelect = `
        SELECT v.id, v.title, v.prompt, v.thumbnail_url, v.video_url, v.creator_id, v.created_at,
               p.id, p.account_id, p.email, p.username, p.avatar_url, p.created_at
        FROM video_posts v
        JOIN user_profiles p ON p.id = v.creator_id
`

// Create stores a new video post record.
func (r *PostgresVideoRepository) Create(ctx context.Context, post models.VideoPost) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO video_posts (id, title, prompt, thumbnail_url, video_url, creator_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, post.ID, post.Title, post.Prompt, post.ThumbnailURL, post.VideoURL, post.CreatorID, post.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video post: %w", err)
	}

	return nil
}

// ListAll returns every video post, newest first.
func (r *PostgresVideoRepository) ListAll(ctx context.Context) ([]models.VideoPost, error) {
	return r.list(ctx, videoSelect+` ORDER BY v.created_at DESC`)
}

// ListLatest returns the newest posts, capped at limit.
func (r *PostgresVideoRepository) ListLatest(ctx context.Context, limit int) ([]models.VideoPost, error) {
	if limit <= 0 {
		limit = 7
	}
	return r.list(ctx, videoSelect+` ORDER BY v.created_at DESC LIMIT $1`, limit)
}

// Search returns posts whose title matches the provided text.
func (r *PostgresVideoRepository) Search(ctx context.Context, query string) ([]models.VideoPost, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.list(ctx, videoSelect+` WHERE v.title ILIKE $1 ORDER BY v.created_at DESC`, pattern)
}

// ListByCreator returns posts published by the provided profile.
func (r *PostgresVideoRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.VideoPost, error) {
	return r.list(ctx, videoSelect+` WHERE v.creator_id = $1 ORDER BY v.created_at DESC`, creatorID)
}

func (r *PostgresVideoRepository) list(ctx context.Context, sql string, args ...any) ([]models.VideoPost, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query video posts: %w", err)
	}
	defer rows.Close()

	var posts []models.VideoPost
	for rows.Next() {
		var (
			post    models.VideoPost
			creator models.UserProfile
		)
		if err := rows.Scan(
			&post.ID, &post.Title, &post.Prompt, &post.ThumbnailURL, &post.VideoURL, &post.CreatorID, &post.CreatedAt,
			&creator.ID, &creator.AccountID, &creator.Email, &creator.Username, &creator.AvatarURL, &creator.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan video post: %w", err)
		}
		post.Creator = &creator
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video posts: %w", err)
	}

	return posts, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

var _ AccountRepository = (*PostgresAccountRepository)(nil)
var _ ProfileRepository = (*PostgresProfileRepository)(nil)
var _ VideoRepository = (*PostgresVideoRepository)(nil)
