package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aora/backend/internal/auth"
	"github.com/aora/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	dir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		contents, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, table := range []string{"sessions", "video_posts", "user_profiles", "accounts"} {
		if _, err := testPool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Fatalf("reset table %s: %v", table, err)
		}
	}
}

func createTestAccount(t *testing.T, email string) models.Account {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	account := models.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  "secret-hash",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := NewPostgresAccountRepository(testPool).Create(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func createTestProfile(t *testing.T, account models.Account, username string) models.UserProfile {
	t.Helper()
	profile := models.UserProfile{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Email:     account.Email,
		Username:  username,
		AvatarURL: "https://example.com/avatar.svg",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := NewPostgresProfileRepository(testPool).Create(context.Background(), profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return profile
}

func createTestPost(t *testing.T, creator models.UserProfile, title string, createdAt time.Time) models.VideoPost {
	t.Helper()
	post := models.VideoPost{
		ID:           uuid.NewString(),
		Title:        title,
		Prompt:       "prompt for " + title,
		ThumbnailURL: "https://example.com/t.png",
		VideoURL:     "https://example.com/v.mp4",
		CreatorID:    creator.ID,
		CreatedAt:    createdAt,
	}
	if err := NewPostgresVideoRepository(testPool).Create(context.Background(), post); err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return post
}

func TestPostgresAccountRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresAccountRepository(testPool)
	account := createTestAccount(t, "alice@example.com")

	dup := models.Account{
		ID:        uuid.NewString(),
		Email:     account.Email,
		Password:  "another-hash",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email got %v", err)
	}

	found, err := repo.FindByEmail(ctx, account.Email)
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found.ID != account.ID {
		t.Fatalf("expected account %s got %s", account.ID, found.ID)
	}

	byID, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != account.Email {
		t.Fatalf("expected email %s got %s", account.Email, byID.Email)
	}

	if _, err := repo.FindByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestPostgresProfileRepository_UniquePerAccount(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresProfileRepository(testPool)
	account := createTestAccount(t, "bob@example.com")
	profile := createTestProfile(t, account, "bob")

	second := models.UserProfile{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Email:     account.Email,
		Username:  "bob-two",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, second); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for second profile got %v", err)
	}

	orphan := models.UserProfile{
		ID:        uuid.NewString(),
		AccountID: uuid.NewString(),
		Email:     "orphan@example.com",
		Username:  "orphan",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, orphan); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown account got %v", err)
	}

	found, err := repo.FindByAccountID(ctx, account.ID)
	if err != nil {
		t.Fatalf("find by account id: %v", err)
	}
	if found.ID != profile.ID || found.Username != "bob" {
		t.Fatalf("unexpected profile: %+v", found)
	}

	if _, err := repo.FindByAccountID(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestPostgresVideoRepository_Listings(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresVideoRepository(testPool)
	alice := createTestProfile(t, createTestAccount(t, "alice@example.com"), "alice")
	bob := createTestProfile(t, createTestAccount(t, "bob@example.com"), "bob")

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	for i := 0; i < 9; i++ {
		creator := alice
		if i%2 == 1 {
			creator = bob
		}
		createTestPost(t, creator, fmt.Sprintf("clip %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	createTestPost(t, alice, "Drone sunset flight", base.Add(10*time.Minute))

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("expected 10 posts got %d", len(all))
	}
	if all[0].Creator == nil {
		t.Fatal("expected creator profile to be joined")
	}

	latest, err := repo.ListLatest(ctx, 7)
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}
	if len(latest) != 7 {
		t.Fatalf("expected 7 posts got %d", len(latest))
	}
	for i := 1; i < len(latest); i++ {
		if latest[i].CreatedAt.After(latest[i-1].CreatedAt) {
			t.Fatal("expected descending creation order")
		}
	}
	if latest[0].Title != "Drone sunset flight" {
		t.Fatalf("expected newest post first got %s", latest[0].Title)
	}

	matches, err := repo.Search(ctx, "drone")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Title != "Drone sunset flight" {
		t.Fatalf("unexpected search results: %+v", matches)
	}

	// LIKE metacharacters in queries must be treated literally.
	none, err := repo.Search(ctx, "%")
	if err != nil {
		t.Fatalf("search with metacharacter: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches for literal %% got %d", len(none))
	}

	bobs, err := repo.ListByCreator(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list by creator: %v", err)
	}
	if len(bobs) != 4 {
		t.Fatalf("expected 4 posts for bob got %d", len(bobs))
	}
	for _, post := range bobs {
		if post.CreatorID != bob.ID {
			t.Fatalf("unexpected creator %s", post.CreatorID)
		}
	}
}

func TestPostgresSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	store := NewPostgresSessionStore(testPool)
	session := auth.Session{
		RefreshToken: uuid.NewString(),
		AccountID:    uuid.NewString(),
		ExpiresAt:    time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond),
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	found, err := store.Find(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if found.AccountID != session.AccountID || !found.ExpiresAt.Equal(session.ExpiresAt) {
		t.Fatalf("unexpected session: %+v", found)
	}

	if err := store.Delete(ctx, session.RefreshToken); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if err := store.Delete(ctx, session.RefreshToken); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound got %v", err)
	}
	if _, err := store.Find(ctx, session.RefreshToken); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound got %v", err)
	}
}
