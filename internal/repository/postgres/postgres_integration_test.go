package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"support-desk/config"
	"support-desk/internal/entities"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })
	require.NoError(t, repo.Ping(ctx))

	owner, err := repo.CreateUser(ctx, entities.User{
		ID: "u1", Email: "Alice@Example.com", Username: "alice", PasswordHash: "h", Role: entities.RoleUser, IsActive: true,
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", owner.Email)

	_, err = repo.CreateUser(ctx, entities.User{ID: "u2", Email: "alice@example.com", Username: "dup", PasswordHash: "h", Role: entities.RoleUser})
	require.ErrorIs(t, err, entities.ErrUserExists)

	_, err = repo.CreateUser(ctx, entities.User{ID: "u3", Email: "bob@example.com", Username: "bob", PasswordHash: "h", Role: entities.RoleUser, IsActive: true})
	require.NoError(t, err)

	byEmail, err := repo.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", byEmail.ID)

	_, err = repo.GetUser(ctx, "missing")
	require.ErrorIs(t, err, entities.ErrUserNotFound)

	project, err := repo.CreateProject(ctx, entities.Project{ID: "p1", Name: "Billing", OwnerID: "u1"})
	require.NoError(t, err)

	owned, err := repo.ListProjectsByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, owned, 1)

	none, err := repo.ListProjectsByOwner(ctx, "u3")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	ticket, err := repo.CreateTicket(ctx, entities.Ticket{
		ID: "t1", ProjectID: project.ID, AuthorID: "u1", Title: "Invoice broken",
		Status: entities.StatusOpen, Priority: entities.PriorityHigh,
		Metadata: map[string]any{"browser": "firefox"},
	})
	require.NoError(t, err)
	require.Equal(t, "firefox", ticket.Metadata["browser"])

	_, err = repo.UpdateTicketStatus(ctx, ticket.ID, entities.StatusResolved, time.Now())
	require.ErrorIs(t, err, entities.ErrInvalidTransition)

	closed, err := repo.UpdateTicketStatus(ctx, ticket.ID, entities.StatusClosed, time.Now())
	require.NoError(t, err)
	require.Equal(t, entities.StatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	reopened, err := repo.UpdateTicketStatus(ctx, ticket.ID, entities.StatusOpen, time.Now())
	require.NoError(t, err)
	require.Nil(t, reopened.ClosedAt)

	assignee := "u3"
	assigned, err := repo.AssignTicket(ctx, ticket.ID, &assignee, time.Now())
	require.NoError(t, err)
	require.Equal(t, &assignee, assigned.AssigneeID)

	open := entities.StatusOpen
	list, err := repo.ListTickets(ctx, entities.TicketFilter{ProjectID: project.ID, Status: &open, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.AddComment(ctx, entities.Comment{ID: "c1", TicketID: ticket.ID, AuthorID: "u3", Body: "looking"})
	require.NoError(t, err)
	comments, err := repo.ListComments(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	_, err = repo.AddAttachment(ctx, entities.Attachment{
		ID: "a1", TicketID: ticket.ID, UploaderID: "u1", FileName: "log.txt", MimeType: "text/plain", Size: 2, Data: "aGk=",
	})
	require.NoError(t, err)
	att, err := repo.GetAttachment(ctx, ticket.ID, "a1")
	require.NoError(t, err)
	require.Equal(t, "aGk=", att.Data)
	metas, err := repo.ListAttachments(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	require.Empty(t, metas[0].Data)

	now := time.Now()
	require.NoError(t, repo.CreateSession(ctx, entities.Session{TokenHash: "live", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.CreateSession(ctx, entities.Session{TokenHash: "dead", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(-time.Hour)}))
	removed, err := repo.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	_, err = repo.GetSession(ctx, "dead")
	require.ErrorIs(t, err, entities.ErrSessionNotFound)

	stats, err := repo.AdminStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Users)
	require.Equal(t, int64(1), stats.Projects)
	require.Len(t, stats.ByStatus, len(entities.TicketStatuses))

	updated, err := repo.SetUserActive(ctx, "u3", false)
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	require.NoError(t, repo.DeleteProject(ctx, project.ID))
	_, err = repo.GetTicket(ctx, ticket.ID)
	require.ErrorIs(t, err, entities.ErrTicketNotFound)
}

func TestConnectReturnsNilWhenUnreachable(t *testing.T) {
	cfg := config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, User: "postgres", Password: "postgres", DBName: "none",
		SSLMode: "disable", QueryTimeout: time.Second, MaxConns: 1,
	}
	require.Nil(t, Connect(context.Background(), zap.NewNop().Sugar(), cfg))
}

func setupPostgres(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=support_desk_db",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")

	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "migrations"))
	require.NoError(t, err)
	require.DirExists(t, migrationsDir)

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 5 * time.Second},
		HTTP:    config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Storage: config.StorageConfig{Backend: config.BackendPostgres},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           port,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "support_desk_db",
			SSLMode:        "disable",
			MigrationsDir:  migrationsDir,
			QueryTimeout:   10 * time.Second,
			MigrateTimeout: 20 * time.Second,
			MaxConns:       4,
			MinConns:       1,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", "host=localhost port="+hostPort+" user=postgres password=postgres dbname=support_desk_db sslmode=disable")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}
