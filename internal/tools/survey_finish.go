package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/piyushranjan2301/ITC27/internal/assessment"
	"github.com/piyushranjan2301/ITC27/internal/catalog"
	"github.com/piyushranjan2301/ITC27/internal/results"
	"github.com/piyushranjan2301/ITC27/internal/scoring"
)

// --- survey_feedback_options ---

// FeedbackOptionsTool handles the survey_feedback_options MCP tool.
type FeedbackOptionsTool struct {
	cat  *catalog.Catalog
	lang catalog.Language
}

// NewFeedbackOptionsTool creates a FeedbackOptionsTool.
func NewFeedbackOptionsTool(cat *catalog.Catalog, lang catalog.Language) *FeedbackOptionsTool {
	return &FeedbackOptionsTool{cat: cat, lang: lang}
}

// Definition returns the MCP tool definition for registration.
func (t *FeedbackOptionsTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_feedback_options",
		mcp.WithDescription("List the fixed feedback choices offered before finishing the assessment."),
		mcp.WithString("language",
			mcp.Description("Display language."),
			mcp.Enum(string(catalog.LangEnglish), string(catalog.LangHindi)),
		),
	)
}

// Handle processes the survey_feedback_options tool call.
func (t *FeedbackOptionsTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lang, err := parseLanguage(req.GetString("language", ""), t.lang)
	if err != nil {
		return mcp.NewToolResultError(capitalize(err.Error())), nil
	}
	var b strings.Builder
	b.WriteString("# Feedback Options\n\n")
	writeFeedbackOptions(&b, t.cat, lang)
	return mcp.NewToolResultText(b.String()), nil
}

// --- survey_finalize ---

// FinalizeTool handles the survey_finalize MCP tool.
// It scores the session and stores the result.
type FinalizeTool struct {
	cat      *catalog.Catalog
	store    results.Store
	sessions *Registry
	logger   *zap.Logger
}

// NewFinalizeTool creates a FinalizeTool.
func NewFinalizeTool(cat *catalog.Catalog, store results.Store, sessions *Registry, logger *zap.Logger) *FinalizeTool {
	return &FinalizeTool{cat: cat, store: store, sessions: sessions, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *FinalizeTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_finalize", withSessionID(
		mcp.WithDescription(
			"Submit feedback and finish the assessment. The session is scored, "+
				"the result is stored under the employee number and shown. "+
				"Calling it again returns the same result.",
		),
		mcp.WithString("feedback",
			mcp.Required(),
			mcp.Description("One of the survey_feedback_options choices, or free text."),
		),
	)...)
}

// Handle processes the survey_finalize tool call.
func (t *FinalizeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	feedback := req.GetString("feedback", "")

	var (
		res  *scoring.Result
		lang catalog.Language
	)
	err := t.sessions.With(id, func(s *assessment.Session) error {
		lang = s.Language()
		var err error
		res, err = s.Finalize(ctx, feedback, t.store)
		return err
	})
	if err != nil {
		if out, internal := userError(err); internal == nil {
			return out, nil
		}
		t.logger.Error("storing result failed", zap.String("session_id", id), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf(
			"The result could not be saved: %v. Your answers are kept; call `survey_finalize` again to retry.", err,
		)), nil
	}

	t.logger.Info("assessment finalized",
		zap.String("session_id", id),
		zap.String("pno", res.Identity.PNo),
		zap.Int("total_points", res.TotalPoints),
		zap.String("category", res.Category),
	)
	var b strings.Builder
	b.WriteString("# 🎉 Assessment Complete\n\n")
	writeResult(&b, t.cat, res, lang)
	return mcp.NewToolResultText(b.String()), nil
}

// --- survey_result ---

// ResultTool handles the survey_result MCP tool.
// It looks up a stored result by employee number.
type ResultTool struct {
	cat   *catalog.Catalog
	store results.Store
	lang  catalog.Language
}

// NewResultTool creates a ResultTool.
func NewResultTool(cat *catalog.Catalog, store results.Store, lang catalog.Language) *ResultTool {
	return &ResultTool{cat: cat, store: store, lang: lang}
}

// Definition returns the MCP tool definition for registration.
func (t *ResultTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_result",
		mcp.WithDescription("Show the stored result of an employee number."),
		mcp.WithString("pno",
			mcp.Required(),
			mcp.Description("Employee number."),
		),
		mcp.WithString("language",
			mcp.Description("Display language."),
			mcp.Enum(string(catalog.LangEnglish), string(catalog.LangHindi)),
		),
	)
}

// Handle processes the survey_result tool call.
func (t *ResultTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pno := strings.TrimSpace(req.GetString("pno", ""))
	if pno == "" {
		return mcp.NewToolResultError("pno is required"), nil
	}
	lang, err := parseLanguage(req.GetString("language", ""), t.lang)
	if err != nil {
		return mcp.NewToolResultError(capitalize(err.Error())), nil
	}
	res, err := t.store.FetchByIdentity(ctx, pno)
	if err != nil {
		return nil, fmt.Errorf("fetching result: %w", err)
	}
	if res == nil {
		return mcp.NewToolResultError(fmt.Sprintf("No result stored for employee %q.", pno)), nil
	}
	var b strings.Builder
	writeResult(&b, t.cat, res, lang)
	return mcp.NewToolResultText(b.String()), nil
}

// --- survey_close ---

// CloseTool handles the survey_close MCP tool.
type CloseTool struct {
	sessions *Registry
	logger   *zap.Logger
}

// NewCloseTool creates a CloseTool.
func NewCloseTool(sessions *Registry, logger *zap.Logger) *CloseTool {
	return &CloseTool{sessions: sessions, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *CloseTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_close", withSessionID(
		mcp.WithDescription(
			"Discard a session. Unfinished answers are lost; a stored result is kept.",
		),
	)...)
}

// Handle processes the survey_close tool call.
func (t *CloseTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	if !t.sessions.Close(id) {
		return userError(ErrSessionNotFound)
	}
	t.logger.Info("session closed", zap.String("session_id", id))
	return mcp.NewToolResultText(fmt.Sprintf("Session `%s` closed.", id)), nil
}
