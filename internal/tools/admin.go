package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/piyushranjan2301/ITC27/internal/report"
	"github.com/piyushranjan2301/ITC27/internal/results"
)

// DefaultLeaderboardLimit is the row count admin_leaderboard shows by default.
const DefaultLeaderboardLimit = 10

// --- admin_stats ---

// StatsTool handles the admin_stats MCP tool.
type StatsTool struct {
	store results.Store
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(store results.Store) *StatsTool {
	return &StatsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("admin_stats",
		mcp.WithDescription(
			"Aggregate every stored result: respondent count, average engagement "+
				"and points, trait averages, department ranking, badge and category "+
				"counts, and the recent daily points trend.",
		),
	)
}

// Handle processes the admin_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	st := report.Compute(list)

	var b strings.Builder
	b.WriteString("# Survey Statistics\n\n")
	if st.Total == 0 {
		b.WriteString("No results stored yet.\n")
		return mcp.NewToolResultText(b.String()), nil
	}
	writeStats(&b, st)
	return mcp.NewToolResultText(b.String()), nil
}

// FormatStats renders st as markdown.
func FormatStats(st report.Stats) string {
	var b strings.Builder
	writeStats(&b, st)
	return b.String()
}

func writeStats(b *strings.Builder, st report.Stats) {
	fmt.Fprintf(b, "- **Respondents:** %d\n", st.Total)
	fmt.Fprintf(b, "- **Average engagement:** %.2f / 5\n", st.AverageEngagement)
	fmt.Fprintf(b, "- **Average points:** %.0f\n", st.AveragePoints)
	fmt.Fprintf(b, "- **Badges awarded:** %d\n", st.BadgesAwarded)
	if top := st.TopDepartment(); top != "" {
		fmt.Fprintf(b, "- **Top department:** %s\n", top)
	}

	if len(st.TraitAverages) > 0 {
		b.WriteString("\n## Trait Averages\n\n")
		for _, ta := range st.TraitAverages {
			fmt.Fprintf(b, "- %s: %.2f\n", ta.Trait, ta.Average)
		}
	}

	b.WriteString("\n## Departments\n\n")
	b.WriteString("| Department | Avg points | Respondents |\n")
	b.WriteString("|------------|------------|-------------|\n")
	for _, d := range st.Departments {
		fmt.Fprintf(b, "| %s | %d | %d |\n", d.Department, d.AveragePoints, d.Respondents)
	}

	writeCounts(b, "Badges", st.Badges)
	writeCounts(b, "Categories", st.Categories)

	if len(st.DailyPoints) > 0 {
		b.WriteString("\n## Daily Points\n\n")
		for _, d := range st.DailyPoints {
			fmt.Fprintf(b, "- %s: %d\n", d.Date, d.Points)
		}
	}
}

func writeCounts(b *strings.Builder, title string, counts []report.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, c := range counts {
		fmt.Fprintf(b, "- %s: %d\n", c.Name, c.Count)
	}
}

// --- admin_leaderboard ---

// LeaderboardTool handles the admin_leaderboard MCP tool.
type LeaderboardTool struct {
	store results.Store
}

// NewLeaderboardTool creates a LeaderboardTool.
func NewLeaderboardTool(store results.Store) *LeaderboardTool {
	return &LeaderboardTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *LeaderboardTool) Definition() mcp.Tool {
	return mcp.NewTool("admin_leaderboard",
		mcp.WithDescription("Rank stored results by total points. Ties go to the more recent result."),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Number of rows to show (default %d, 0 for all).", DefaultLeaderboardLimit)),
		),
	)
}

// Handle processes the admin_leaderboard tool call.
func (t *LeaderboardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", DefaultLeaderboardLimit))
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}
	list, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Leaderboard\n\n")
	entries := report.Leaderboard(list, limit)
	if len(entries) == 0 {
		b.WriteString("No results stored yet.\n")
		return mcp.NewToolResultText(b.String()), nil
	}
	writeLeaderboard(&b, entries)
	return mcp.NewToolResultText(b.String()), nil
}

// FormatLeaderboard renders leaderboard rows as a markdown table.
func FormatLeaderboard(entries []report.Entry) string {
	var b strings.Builder
	writeLeaderboard(&b, entries)
	return b.String()
}

func writeLeaderboard(b *strings.Builder, entries []report.Entry) {
	b.WriteString("| # | Name | PNo | Department | Points | Category |\n")
	b.WriteString("|---|------|-----|------------|--------|----------|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %d | %s |\n",
			e.Rank, e.Name, e.PNo, e.Department, e.Points, e.Category)
	}
}

// --- admin_delete_result ---

// DeleteResultTool handles the admin_delete_result MCP tool.
// Deleting a result lets the employee number take the assessment again.
type DeleteResultTool struct {
	store  results.Store
	logger *zap.Logger
}

// NewDeleteResultTool creates a DeleteResultTool.
func NewDeleteResultTool(store results.Store, logger *zap.Logger) *DeleteResultTool {
	return &DeleteResultTool{store: store, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteResultTool) Definition() mcp.Tool {
	return mcp.NewTool("admin_delete_result",
		mcp.WithDescription(
			"Delete the stored result of an employee number so it can take the "+
				"assessment again. This cannot be undone.",
		),
		mcp.WithString("pno",
			mcp.Required(),
			mcp.Description("Employee number whose result is deleted."),
		),
	)
}

// Handle processes the admin_delete_result tool call.
func (t *DeleteResultTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pno := strings.TrimSpace(req.GetString("pno", ""))
	if pno == "" {
		return mcp.NewToolResultError("pno is required"), nil
	}
	if err := t.store.Delete(ctx, pno); err != nil {
		if errors.Is(err, results.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No result stored for employee %q.", pno)), nil
		}
		return nil, fmt.Errorf("deleting result: %w", err)
	}
	t.logger.Warn("result deleted", zap.String("pno", pno))
	return mcp.NewToolResultText(fmt.Sprintf("Result of employee `%s` deleted.", pno)), nil
}
