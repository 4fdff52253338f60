// ABOUTME: MCP resource implementations for apnea club data.
// ABOUTME: Provides apnealog://rankings and apnealog://sessions resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/apnealog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	rankingsURI = "apnealog://rankings"
	sessionsURI = "apnealog://sessions"
)

func (s *Server) registerResources() {
	// apnealog://rankings - every discipline's leaderboard, anonymized
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         rankingsURI,
		Name:        "Club Rankings",
		Description: "Leaderboard for each discipline with anonymized divers redacted",
		MIMEType:    "application/json",
	}, s.handleRankingsResource)

	// apnealog://sessions - sessions with how much links to each
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         sessionsURI,
		Name:        "Club Sessions",
		Description: "Activity sessions with linked record and feedback counts",
		MIMEType:    "application/json",
	}, s.handleSessionsResource)
}

// Resource handlers

func (s *Server) handleRankingsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	type board struct {
		Discipline string       `json:"discipline"`
		Label      string       `json:"label"`
		Entries    []rankingRow `json:"entries"`
	}

	var boards []board
	for _, d := range models.AllDisciplines {
		entries, err := s.rankings(ctx, d)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}
		boards = append(boards, board{Discipline: string(d), Label: d.Label(), Entries: rankingRows(entries)})
	}

	return jsonResource(rankingsURI, map[string]any{"rankings": boards})
}

func (s *Server) handleSessionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.repos.Sessions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	records, err := s.repos.Records.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	feedback, err := s.repos.Feedback.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	recordCount := make(map[string]int)
	for _, r := range records {
		if r.LinkedSessionID != "" {
			recordCount[r.LinkedSessionID]++
		}
	}
	feedbackCount := make(map[string]int)
	for _, f := range feedback {
		if f.LinkedSessionID != "" {
			feedbackCount[f.LinkedSessionID]++
		}
	}

	list := make([]map[string]any, 0, len(sessions))
	for _, sess := range sessions {
		list = append(list, map[string]any{
			"id":          sess.ID,
			"date":        models.FormatDate(sess.Date),
			"place":       sess.Place,
			"description": sess.Description,
			"records":     recordCount[sess.ID],
			"feedback":    feedbackCount[sess.ID],
		})
	}

	return jsonResource(sessionsURI, map[string]any{"sessions": list})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
