// ABOUTME: MCP tool implementations for apnea club data.
// ABOUTME: Records, sessions, and feedback CRUD plus rankings and user cascades.
package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/ranking"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_record",
		Description: "Record a performance (time like 04:30.5 or distance like 75m) for a diver",
	}, s.handleAddRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List recent performance records, optionally filtered by diver or discipline",
	}, s.handleListRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a performance record by ID or ID prefix",
	}, s.handleDeleteRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rankings",
		Description: "Rank every diver's best performance in one discipline",
	}, s.handleRankings)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "personal_bests",
		Description: "Get a diver's best performance in each discipline",
	}, s.handlePersonalBests)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_session",
		Description: "Create a club activity session",
	}, s.handleAddSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session and unlink its records and feedback",
	}, s.handleDeleteSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_feedback",
		Description: "Add instructor feedback for a diver",
	}, s.handleAddFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rename_user",
		Description: "Rename a diver everywhere they appear",
	}, s.handleRenameUser)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_user",
		Description: "Delete a diver's profile; their records and feedback are kept",
	}, s.handleDeleteUser)
}

// Tool input/output types

type addRecordInput struct {
	User       string `json:"user" jsonschema:"Diver name"`
	Discipline string `json:"discipline" jsonschema:"Discipline code (sta, dyn, dyn_bf, dnf, depth, sprint_16x25) or label"`
	Value      string `json:"value" jsonschema:"Performance as MM:SS[.mmm] for timed disciplines or meters for distance"`
	Date       string `json:"date,omitempty" jsonschema:"Entry date (YYYY-MM-DD), defaults to today"`
	SessionID  string `json:"session_id,omitempty" jsonschema:"Session ID or prefix to link"`
}

type recordOutput struct {
	ID         string `json:"id"`
	User       string `json:"user"`
	Discipline string `json:"discipline"`
	Value      string `json:"value"`
	Message    string `json:"message"`
}

type listRecordsInput struct {
	User       string `json:"user,omitempty" jsonschema:"Filter by diver name"`
	Discipline string `json:"discipline,omitempty" jsonschema:"Filter by discipline"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or unique prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type rankingsInput struct {
	Discipline string `json:"discipline" jsonschema:"Discipline code or label"`
}

type userInput struct {
	User string `json:"user" jsonschema:"Diver name"`
}

type addSessionInput struct {
	Date        string `json:"date,omitempty" jsonschema:"Session date (YYYY-MM-DD), defaults to today"`
	Place       string `json:"place" jsonschema:"Where the session took place"`
	Description string `json:"description,omitempty" jsonschema:"What was trained"`
}

type sessionOutput struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type addFeedbackInput struct {
	Diver      string `json:"diver" jsonschema:"Diver receiving the feedback"`
	Instructor string `json:"instructor" jsonschema:"Instructor giving the feedback"`
	Text       string `json:"text" jsonschema:"Feedback text"`
	Date       string `json:"date,omitempty" jsonschema:"Feedback date (YYYY-MM-DD), defaults to today"`
	SessionID  string `json:"session_id,omitempty" jsonschema:"Session ID or prefix to link"`
}

type renameUserInput struct {
	OldName string `json:"old_name" jsonschema:"Current diver name"`
	NewName string `json:"new_name" jsonschema:"New diver name"`
}

type cascadeOutput struct {
	Records  int    `json:"records"`
	Feedback int    `json:"feedback"`
	Message  string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddRecord(ctx context.Context, req *mcp.CallToolRequest, input addRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	user := strings.TrimSpace(input.User)
	if user == "" {
		return nil, recordOutput{}, fmt.Errorf("user is required")
	}
	d, err := models.ParseDiscipline(input.Discipline)
	if err != nil {
		return nil, recordOutput{}, err
	}
	r, err := models.NewPerformanceRecord(user, d, input.Value)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if input.Date != "" {
		day, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, recordOutput{}, fmt.Errorf("invalid date %q: %w", input.Date, err)
		}
		r.WithEntryDate(day)
	}
	if input.SessionID != "" {
		sess, err := s.repos.Sessions.Get(ctx, input.SessionID)
		if err != nil {
			return nil, recordOutput{}, fmt.Errorf("session %s: %w", input.SessionID, err)
		}
		r.WithSession(sess.ID)
	}

	if err := s.repos.Records.Add(ctx, *r); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add record: %w", err)
	}

	return nil, recordOutput{
		ID:         shortID(r.ID),
		User:       r.User,
		Discipline: string(d),
		Value:      r.DisplayValue(),
		Message:    fmt.Sprintf("Added %s %s for %s (ID: %s)", d.Label(), r.DisplayValue(), r.User, shortID(r.ID)),
	}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	var discipline models.Discipline
	if input.Discipline != "" {
		d, err := models.ParseDiscipline(input.Discipline)
		if err != nil {
			return nil, nil, err
		}
		discipline = d
	}

	records, err := s.repos.Records.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list records: %w", err)
	}

	var out []models.PerformanceRecord
	for _, r := range records {
		if input.User != "" && r.User != input.User {
			continue
		}
		if discipline != "" && r.Discipline != discipline {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, map[string]any{"message": "No records found."}, nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EntryDate.After(out[j].EntryDate)
	})
	if len(out) > input.Limit {
		out = out[:input.Limit]
	}
	return nil, out, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	removed, err := s.repos.Records.Delete(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete record: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted record %s (%s %s)", shortID(removed.ID), removed.User, removed.DisplayValue()),
	}, nil
}

func (s *Server) handleRankings(ctx context.Context, req *mcp.CallToolRequest, input rankingsInput) (*mcp.CallToolResult, any, error) {
	d, err := models.ParseDiscipline(input.Discipline)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.rankings(ctx, d)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, map[string]any{"message": fmt.Sprintf("No results for %s yet.", d.Label())}, nil
	}
	return nil, rankingRows(entries), nil
}

func (s *Server) handlePersonalBests(ctx context.Context, req *mcp.CallToolRequest, input userInput) (*mcp.CallToolResult, any, error) {
	records, err := s.repos.Records.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load records: %w", err)
	}

	bests := ranking.PersonalBests(input.User, records)
	if len(bests) == 0 {
		return nil, map[string]any{"message": fmt.Sprintf("No records for %s.", input.User)}, nil
	}

	out := make(map[string]any, len(bests))
	for _, pb := range bests {
		out[string(pb.Discipline)] = map[string]any{
			"label": pb.Discipline.Label(),
			"value": pb.Record.DisplayValue(),
			"date":  models.FormatDate(pb.Record.EntryDate),
			"id":    shortID(pb.Record.ID),
		}
	}
	return nil, out, nil
}

func (s *Server) handleAddSession(ctx context.Context, req *mcp.CallToolRequest, input addSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	place := strings.TrimSpace(input.Place)
	if place == "" {
		return nil, sessionOutput{}, fmt.Errorf("place is required")
	}
	day := models.Date(time.Now())
	if input.Date != "" {
		d, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, sessionOutput{}, fmt.Errorf("invalid date %q: %w", input.Date, err)
		}
		day = d
	}

	sess := models.NewActivitySession(day, place).WithDescription(input.Description)
	if err := s.repos.Sessions.Add(ctx, *sess); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to add session: %w", err)
	}

	return nil, sessionOutput{
		ID:      shortID(sess.ID),
		Title:   sess.Title(),
		Message: fmt.Sprintf("Added session %s (ID: %s)", sess.Title(), shortID(sess.ID)),
	}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, cascadeOutput, error) {
	sess, err := s.repos.Sessions.Get(ctx, input.ID)
	if err != nil {
		return nil, cascadeOutput{}, fmt.Errorf("session %s: %w", input.ID, err)
	}
	res, err := s.coord.DeleteSession(ctx, sess.ID)
	if err != nil {
		return nil, cascadeOutput{}, fmt.Errorf("failed to delete session: %w", err)
	}

	return nil, cascadeOutput{
		Records:  res.Records,
		Feedback: res.Feedback,
		Message: fmt.Sprintf("Deleted session %s; unlinked %d records and %d feedback entries",
			sess.Title(), res.Records, res.Feedback),
	}, nil
}

func (s *Server) handleAddFeedback(ctx context.Context, req *mcp.CallToolRequest, input addFeedbackInput) (*mcp.CallToolResult, simpleOutput, error) {
	if strings.TrimSpace(input.Diver) == "" || strings.TrimSpace(input.Text) == "" {
		return nil, simpleOutput{}, fmt.Errorf("diver and text are required")
	}
	fb := models.NewFeedbackEntry(strings.TrimSpace(input.Diver), strings.TrimSpace(input.Instructor), input.Text)
	if input.Date != "" {
		d, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("invalid date %q: %w", input.Date, err)
		}
		fb.WithDate(d)
	}
	if input.SessionID != "" {
		sess, err := s.repos.Sessions.Get(ctx, input.SessionID)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("session %s: %w", input.SessionID, err)
		}
		fb.WithSession(sess.ID)
	}

	if err := s.repos.Feedback.Add(ctx, *fb); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to add feedback: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Added feedback for %s (ID: %s)", fb.DiverName, shortID(fb.ID)),
	}, nil
}

func (s *Server) handleRenameUser(ctx context.Context, req *mcp.CallToolRequest, input renameUserInput) (*mcp.CallToolResult, cascadeOutput, error) {
	res, err := s.coord.RenameUser(ctx, input.OldName, input.NewName)
	if err != nil {
		return nil, cascadeOutput{}, err
	}
	return nil, cascadeOutput{
		Records:  res.Records,
		Feedback: res.Feedback,
		Message: fmt.Sprintf("Renamed %s to %s; updated %d records and %d feedback entries",
			input.OldName, strings.TrimSpace(input.NewName), res.Records, res.Feedback),
	}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, req *mcp.CallToolRequest, input userInput) (*mcp.CallToolResult, cascadeOutput, error) {
	res, err := s.coord.DeleteUser(ctx, input.User)
	if err != nil {
		return nil, cascadeOutput{}, err
	}
	return nil, cascadeOutput{
		Records:  res.Records,
		Feedback: res.Feedback,
		Message: fmt.Sprintf("Deleted profile %s; kept %d records and %d feedback entries",
			input.User, res.Records, res.Feedback),
	}, nil
}

// rankings loads records and profiles and ranks d with anonymized names redacted.
func (s *Server) rankings(ctx context.Context, d models.Discipline) ([]ranking.Entry, error) {
	records, err := s.repos.Records.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	book, err := s.repos.Profiles.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	entries := ranking.RankAll(d, records, ranking.KnownUsers(book, records))
	return ranking.Redact(entries, book), nil
}

type rankingRow struct {
	Rank  int    `json:"rank"`
	User  string `json:"user"`
	Value string `json:"value"`
	Date  string `json:"date"`
}

func rankingRows(entries []ranking.Entry) []rankingRow {
	rows := make([]rankingRow, len(entries))
	for i, e := range entries {
		rows[i] = rankingRow{
			Rank:  e.Rank,
			User:  e.User,
			Value: e.Record.DisplayValue(),
			Date:  models.FormatDate(e.Record.EntryDate),
		}
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
