package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/piyushranjan2301/ITC27/internal/assessment"
	"github.com/piyushranjan2301/ITC27/internal/catalog"
)

// --- survey_question ---

// QuestionTool handles the survey_question MCP tool.
// It shows what the session currently presents without changing it.
type QuestionTool struct {
	cat      *catalog.Catalog
	sessions *Registry
}

// NewQuestionTool creates a QuestionTool.
func NewQuestionTool(cat *catalog.Catalog, sessions *Registry) *QuestionTool {
	return &QuestionTool{cat: cat, sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *QuestionTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_question", withSessionID(
		mcp.WithDescription(
			"Show the current question or phase screen of a session, "+
				"including progress and any answer already given.",
		),
	)...)
}

// Handle processes the survey_question tool call.
func (t *QuestionTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	var b strings.Builder
	err := t.sessions.With(id, func(s *assessment.Session) error {
		return writeState(&b, t.cat, s)
	})
	if err != nil {
		return userError(err)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// --- survey_answer ---

// AnswerTool handles the survey_answer MCP tool.
type AnswerTool struct {
	sessions *Registry
	logger   *zap.Logger
}

// NewAnswerTool creates an AnswerTool.
func NewAnswerTool(sessions *Registry, logger *zap.Logger) *AnswerTool {
	return &AnswerTool{sessions: sessions, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_answer", withSessionID(
		mcp.WithDescription(
			"Record the answer to a question already shown in the current phase. "+
				"Engagement questions take 1 to 5, behavioral questions A or B, "+
				"situational questions A to D. Answering again replaces the answer.",
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("Question ID as shown by survey_question."),
		),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("Answer key: 1-5, A/B or A-D."),
		),
	)...)
}

// Handle processes the survey_answer tool call.
func (t *AnswerTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	questionID := req.GetString("question_id", "")
	answer := req.GetString("answer", "")

	var progress assessment.Progress
	err := t.sessions.With(id, func(s *assessment.Session) error {
		if err := s.SubmitAnswer(questionID, answer); err != nil {
			return err
		}
		progress = s.Progress()
		return nil
	})
	if err != nil {
		t.logger.Debug("answer rejected", zap.String("session_id", id), zap.Error(err))
		return userError(err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Recorded `%s` for `%s`. %s answered so far.\n\nCall `survey_next` to continue.",
		strings.ToUpper(strings.TrimSpace(answer)), strings.TrimSpace(questionID),
		plural(progress.Answered, "question"),
	)), nil
}

// --- survey_next ---

// NextTool handles the survey_next MCP tool.
type NextTool struct {
	cat      *catalog.Catalog
	sessions *Registry
	logger   *zap.Logger
}

// NewNextTool creates a NextTool.
func NewNextTool(cat *catalog.Catalog, sessions *Registry, logger *zap.Logger) *NextTool {
	return &NextTool{cat: cat, sessions: sessions, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *NextTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_next", withSessionID(
		mcp.WithDescription(
			"Move to the next question. The current question must be answered. "+
				"Finishing the last question of a phase moves to the next phase.",
		),
	)...)
}

// Handle processes the survey_next tool call.
func (t *NextTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	var b strings.Builder
	err := t.sessions.With(id, func(s *assessment.Session) error {
		from := s.Phase()
		done, err := s.Advance()
		if err != nil {
			return err
		}
		if done {
			t.logger.Info("phase completed",
				zap.String("session_id", id),
				zap.String("phase", string(from)),
				zap.String("next", string(s.Phase())),
			)
			fmt.Fprintf(&b, "✅ %s phase complete.\n\n", capitalize(string(from)))
		}
		return writeState(&b, t.cat, s)
	})
	if err != nil {
		return userError(err)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// --- survey_back ---

// BackTool handles the survey_back MCP tool.
type BackTool struct {
	cat      *catalog.Catalog
	sessions *Registry
}

// NewBackTool creates a BackTool.
func NewBackTool(cat *catalog.Catalog, sessions *Registry) *BackTool {
	return &BackTool{cat: cat, sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *BackTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_back", withSessionID(
		mcp.WithDescription(
			"Go back one question within the current phase. Answers are kept. "+
				"Earlier phases cannot be revisited.",
		),
	)...)
}

// Handle processes the survey_back tool call.
func (t *BackTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	var b strings.Builder
	err := t.sessions.With(id, func(s *assessment.Session) error {
		if err := s.Retreat(); err != nil {
			return err
		}
		return writeState(&b, t.cat, s)
	})
	if err != nil {
		return userError(err)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// --- survey_continue ---

// ContinueTool handles the survey_continue MCP tool.
type ContinueTool struct {
	cat      *catalog.Catalog
	sessions *Registry
}

// NewContinueTool creates a ContinueTool.
func NewContinueTool(cat *catalog.Catalog, sessions *Registry) *ContinueTool {
	return &ContinueTool{cat: cat, sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *ContinueTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_continue", withSessionID(
		mcp.WithDescription(
			"Leave an informational screen (profile mapping, growth, roadmap) "+
				"and move to the next phase.",
		),
	)...)
}

// Handle processes the survey_continue tool call.
func (t *ContinueTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	var b strings.Builder
	err := t.sessions.With(id, func(s *assessment.Session) error {
		if err := s.Continue(); err != nil {
			return err
		}
		return writeState(&b, t.cat, s)
	})
	if err != nil {
		return userError(err)
	}
	return mcp.NewToolResultText(b.String()), nil
}
