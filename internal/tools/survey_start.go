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

// StartTool handles the survey_start MCP tool.
// It logs a respondent in and opens a session, or shows the stored result
// when the employee number has already completed the assessment.
type StartTool struct {
	cat      *catalog.Catalog
	store    results.Store
	sessions *Registry
	random   RandomSource
	lang     catalog.Language
	logger   *zap.Logger
}

// NewStartTool creates a StartTool. lang is used when the call names no
// language.
func NewStartTool(cat *catalog.Catalog, store results.Store, sessions *Registry, random RandomSource, lang catalog.Language, logger *zap.Logger) *StartTool {
	return &StartTool{cat: cat, store: store, sessions: sessions, random: random, lang: lang, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_start",
		mcp.WithDescription(
			"Log a respondent in and start the engagement assessment. "+
				"Returns a `session_id` and the first question. If the employee "+
				"number already has a stored result, that result is shown instead "+
				"and no session is opened.",
		),
		mcp.WithString("pno",
			mcp.Required(),
			mcp.Description("Employee number. Each number can complete the assessment once."),
		),
		mcp.WithString("employee_name",
			mcp.Required(),
			mcp.Description("Full name of the respondent."),
		),
		mcp.WithString("department", mcp.Description("Department. Defaults to General.")),
		mcp.WithString("designation", mcp.Description("Designation. Defaults to Staff.")),
		mcp.WithString("role", mcp.Description("Role. Defaults to worker.")),
		mcp.WithString("phone_number", mcp.Description("Contact number.")),
		mcp.WithString("location", mcp.Description("Work location. Defaults to Unknown.")),
		mcp.WithString("language",
			mcp.Description("Display language."),
			mcp.Enum(string(catalog.LangEnglish), string(catalog.LangHindi)),
		),
	)
}

// Handle processes the survey_start tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lang, err := parseLanguage(req.GetString("language", ""), t.lang)
	if err != nil {
		return mcp.NewToolResultError(capitalize(err.Error())), nil
	}
	if strings.TrimSpace(req.GetString("employee_name", "")) == "" {
		return mcp.NewToolResultError("employee_name is required"), nil
	}
	identity, err := scoring.Identity{
		EmployeeName: req.GetString("employee_name", ""),
		PNo:          req.GetString("pno", ""),
		Department:   req.GetString("department", ""),
		Designation:  req.GetString("designation", ""),
		Role:         req.GetString("role", ""),
		PhoneNumber:  req.GetString("phone_number", ""),
		Location:     req.GetString("location", ""),
	}.Normalize()
	if err != nil {
		return mcp.NewToolResultError(capitalize(err.Error())), nil
	}

	stored, err := t.store.FetchByIdentity(ctx, identity.PNo)
	if err != nil {
		return nil, fmt.Errorf("checking stored result: %w", err)
	}
	if stored != nil {
		t.logger.Info("returning respondent", zap.String("pno", identity.PNo))
		var b strings.Builder
		fmt.Fprintf(&b, "# Assessment already completed\n\n")
		fmt.Fprintf(&b, "Employee `%s` finished on %s. The stored result is shown below.\n\n",
			stored.Identity.PNo, stored.CreatedAt.Format("2006-01-02 15:04"))
		writeResult(&b, t.cat, stored, lang)
		return mcp.NewToolResultText(b.String()), nil
	}

	offset, err := t.store.PriorAnsweredCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting prior answers: %w", err)
	}
	s, err := assessment.NewSession(t.cat, identity, lang, t.random())
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	if err := s.Begin(offset); err != nil {
		return nil, fmt.Errorf("beginning session: %w", err)
	}
	id := t.sessions.Open(s)
	t.logger.Info("session started",
		zap.String("session_id", id),
		zap.String("pno", identity.PNo),
		zap.String("language", string(lang)),
		zap.Int("global_offset", offset),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "# Welcome, %s\n\n", identity.EmployeeName)
	fmt.Fprintf(&b, "**Session ID:** `%s`\n\n", id)
	b.WriteString("The assessment has three question phases: engagement, behavioral and situational judgment. ")
	b.WriteString("Answer honestly; there are no wrong answers.\n\n")
	if err := writeState(&b, t.cat, s); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(b.String()), nil
}
