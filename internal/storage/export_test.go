// ABOUTME: Tests for export and import of club data.
// ABOUTME: The Markdown leaderboard is checked against a golden file.
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/apnealog/internal/models"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func seedClub(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []*models.UserProfile{
		models.NewUserProfile("Alice"),
		models.NewUserProfile("Bob").WithAnonymize(true),
		models.NewUserProfile("Carol"),
	} {
		require.NoError(t, env.repos.Profiles.Add(ctx, *p))
	}
	records := []models.PerformanceRecord{
		mustRecord(t, "r1", "Alice", models.DisciplineStatic, "04:30", "2024-05-01"),
		mustRecord(t, "r2", "Bob", models.DisciplineStatic, "05:10.400", "2024-05-02"),
		mustRecord(t, "r3", "Carol", models.DisciplineDynamic, "75m", "2024-05-03"),
		mustRecord(t, "r4", "Alice", models.DisciplineDynamic, "100", "2024-05-04"),
		mustRecord(t, "r5", "Alice", models.DisciplineSpeedEndurance, "07:15", "2024-05-05"),
	}
	require.NoError(t, env.repos.Records.Save(ctx, records))

	day, err := models.ParseDate("2024-05-01")
	require.NoError(t, err)
	session := models.ActivitySession{ID: "s1", Date: day, Place: "Pool Longchamp", Description: "Static tables"}
	require.NoError(t, env.repos.Sessions.Add(ctx, session))

	fb := models.NewFeedbackEntry("Alice", "Carol", "longer exhale").WithSession("s1").WithDate(day)
	require.NoError(t, env.repos.Feedback.Add(ctx, *fb))
}

func TestExportMarkdownLeaderboard(t *testing.T) {
	env := setupTestRepos(t)
	seedClub(t, env)

	data, err := env.repos.GetAllData(context.Background())
	require.NoError(t, err)
	data.ExportedAt = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "leaderboard", []byte(ExportMarkdown(data)))
}

func TestExportJSONRoundTrip(t *testing.T) {
	src := setupTestRepos(t)
	seedClub(t, src)
	ctx := context.Background()

	raw, err := src.repos.ExportJSON(ctx)
	require.NoError(t, err)

	dst := setupTestRepos(t)
	require.NoError(t, dst.repos.ImportJSON(ctx, raw))

	for _, name := range []string{"profiles", "records", "sessions", "feedback"} {
		assert.Equal(t, src.transport.Grid(table(name)), dst.transport.Grid(table(name)), "table %s", name)
	}
}

func TestExportYAMLIsValid(t *testing.T) {
	env := setupTestRepos(t)
	seedClub(t, env)

	raw, err := env.repos.ExportYAML(context.Background())
	require.NoError(t, err)

	var data ExportData
	require.NoError(t, yaml.Unmarshal(raw, &data))
	assert.Equal(t, ExportVersion, data.Version)
	assert.Equal(t, "apnealog", data.Tool)
	assert.Len(t, data.Records, 5)
	assert.Len(t, data.Profiles, 3)
	assert.Len(t, data.Sessions, 1)
	assert.Len(t, data.Feedback, 1)
}

func TestImportRejectsDuplicateProfiles(t *testing.T) {
	env := setupTestRepos(t)
	data := &ExportData{
		Profiles: []models.UserProfile{*models.NewUserProfile("Alice"), *models.NewUserProfile("Alice")},
	}

	err := env.repos.ImportData(context.Background(), data)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Zero(t, env.transport.Writes(table("profiles")))
}

func TestImportClearsLinksToMissingSessions(t *testing.T) {
	env := setupTestRepos(t)
	ctx := context.Background()

	kept := mustRecord(t, "r1", "Alice", models.DisciplineStatic, "04:30", "2024-05-01")
	kept.LinkedSessionID = "s1"
	orphan := mustRecord(t, "r2", "Alice", models.DisciplineDynamic, "75m", "2024-05-02")
	orphan.LinkedSessionID = "no-such-session"
	day, err := models.ParseDate("2024-05-01")
	require.NoError(t, err)
	data := &ExportData{
		Profiles: []models.UserProfile{*models.NewUserProfile("Alice")},
		Records:  []models.PerformanceRecord{kept, orphan},
		Sessions: []models.ActivitySession{{ID: "s1", Date: day, Place: "Pool"}},
		Feedback: []models.FeedbackEntry{*models.NewFeedbackEntry("Alice", "Carol", "relax").WithSession("gone")},
	}

	require.NoError(t, env.repos.ImportData(ctx, data))

	records, err := env.repos.Records.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	links := map[string]string{}
	for _, r := range records {
		links[r.ID] = r.LinkedSessionID
	}
	assert.Equal(t, "s1", links["r1"])
	assert.Empty(t, links["r2"])

	feedback, err := env.repos.Feedback.Load(ctx)
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	assert.Empty(t, feedback[0].LinkedSessionID)

	assert.Equal(t, "no-such-session", data.Records[1].LinkedSessionID, "caller data is not modified")
}
