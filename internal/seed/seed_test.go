package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"support-desk/config"
	"support-desk/internal/entities"
	"support-desk/internal/repository/bolt"
	"support-desk/pkg/password"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFormatsDecodeToSameDocument(t *testing.T) {
	want, err := ReadFile(filepath.Join("testdata", "fixtures.toml"))
	require.NoError(t, err)
	require.Len(t, want.Users, 3)
	require.Len(t, want.Tickets, 2)

	for _, name := range []string{"fixtures.yaml", "fixtures.jsonc"} {
		got, err := ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err, name)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s differs from toml (-toml +%s):\n%s", name, name, diff)
		}
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.toml": FormatTOML, "a.YAML": FormatYAML, "a.yml": FormatYAML,
		"a.json": FormatJSONC, "a.jsonc": FormatJSONC,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err)
		require.Equal(t, want, got, path)
	}

	_, err := FormatOf("fixtures.csv")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseReportsFormat(t *testing.T) {
	_, err := Parse([]byte("users = ["), FormatTOML)
	require.ErrorContains(t, err, "toml")
}

func newRepo(t *testing.T) *bolt.Bolt {
	t.Helper()

	repo := bolt.New(zap.NewNop().Sugar(), &config.Config{Bolt: config.BoltConfig{
		Path:    filepath.Join(t.TempDir(), "seed.db"),
		Timeout: time.Second,
	}})
	require.NoError(t, repo.OnStart(context.Background()))
	t.Cleanup(func() { _ = repo.OnStop(context.Background()) })
	return repo
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	doc, err := ReadFile(filepath.Join("testdata", "fixtures.yaml"))
	require.NoError(t, err)

	res, err := Apply(ctx, zap.NewNop().Sugar(), repo, doc)
	require.NoError(t, err)
	require.Equal(t, Result{Users: 3, Projects: 1, Tickets: 2, Comments: 1}, res)

	admin, err := repo.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, entities.RoleAdmin, admin.Role)
	require.NoError(t, password.Compare(admin.PasswordHash, "change-me-now"))

	mallory, err := repo.GetUserByEmail(ctx, "mallory@example.com")
	require.NoError(t, err)
	require.False(t, mallory.IsActive)

	tickets, err := repo.ListTickets(ctx, entities.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	byTitle := map[string]entities.Ticket{}
	for _, tk := range tickets {
		byTitle[tk.Title] = tk
	}
	invoice := byTitle["Invoice PDF is blank"]
	require.Equal(t, entities.StatusInProgress, invoice.Status)
	require.Equal(t, entities.PriorityHigh, invoice.Priority)
	require.Equal(t, &admin.ID, invoice.AssigneeID)
	require.Equal(t, "firefox", invoice.Metadata["browser"])

	typo := byTitle["Typo on receipt"]
	require.Equal(t, entities.StatusClosed, typo.Status)
	require.NotNil(t, typo.ClosedAt)

	comments, err := repo.ListComments(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, admin.ID, comments[0].AuthorID)

	res, err = Apply(ctx, zap.NewNop().Sugar(), repo, doc)
	require.NoError(t, err)
	require.Equal(t, Result{}, res)

	owned, err := repo.ListProjectsByOwner(ctx, invoice.AuthorID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	tickets, err = repo.ListTickets(ctx, entities.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	comments, err = repo.ListComments(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
}

func TestApplyRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop().Sugar()
	users := []User{{Email: "a@example.com", Password: "long-enough"}}

	tests := []struct {
		name string
		doc  Document
	}{
		{"bad email", Document{Users: []User{{Email: "nope", Password: "long-enough"}}}},
		{"short password", Document{Users: []User{{Email: "b@example.com", Password: "x"}}}},
		{"bad role", Document{Users: []User{{Email: "c@example.com", Password: "long-enough", Role: "root"}}}},
		{"unknown owner", Document{Projects: []Project{{Name: "P", Owner: "ghost@example.com"}}}},
		{"unknown project", Document{Users: users, Tickets: []Ticket{{Project: "none", Author: "a@example.com", Title: "t"}}}},
		{"bad status", Document{
			Users:    users,
			Projects: []Project{{Name: "P", Owner: "a@example.com"}},
			Tickets:  []Ticket{{Project: "P", Author: "a@example.com", Title: "t", Status: "done"}},
		}},
		{"bad metadata", Document{
			Users:    users,
			Projects: []Project{{Name: "P", Owner: "a@example.com"}},
			Tickets:  []Ticket{{Project: "P", Author: "a@example.com", Title: "t", Metadata: map[string]any{"f": func() {}}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(ctx, log, newRepo(t), &tt.doc)
			require.Error(t, err)
		})
	}
}
