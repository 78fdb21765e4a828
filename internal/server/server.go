// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
	"github.com/piyushranjan2301/ITC27/internal/config"
	"github.com/piyushranjan2301/ITC27/internal/prompts"
	"github.com/piyushranjan2301/ITC27/internal/resources"
	"github.com/piyushranjan2301/ITC27/internal/results"
	"github.com/piyushranjan2301/ITC27/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// openStore is replaced in tests.
var openStore = func(cfg results.Config) (results.Store, error) {
	return results.New(cfg)
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered.
//
// The returned cleanup function closes the results store and must be
// called on shutdown. It is always non-nil.
func New(cfg *config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create shared dependencies ---

	cat, err := catalog.Default()
	if err != nil {
		return nil, noop, fmt.Errorf("loading catalog: %w", err)
	}

	store, err := openStore(cfg.Results())
	if err != nil {
		return nil, noop, fmt.Errorf("opening results store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing results store", zap.Error(err))
		}
	}

	sessions := tools.NewRegistry()
	random := tools.SeededSource(cfg.Survey.Seed)
	lang := cfg.Language()
	surveyLog := logger.Named("survey")

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"itc27",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register respondent tools ---

	start := tools.NewStartTool(cat, store, sessions, random, lang, surveyLog)
	s.AddTool(start.Definition(), start.Handle)

	question := tools.NewQuestionTool(cat, sessions)
	s.AddTool(question.Definition(), question.Handle)

	answer := tools.NewAnswerTool(sessions, surveyLog)
	s.AddTool(answer.Definition(), answer.Handle)

	next := tools.NewNextTool(cat, sessions, surveyLog)
	s.AddTool(next.Definition(), next.Handle)

	back := tools.NewBackTool(cat, sessions)
	s.AddTool(back.Definition(), back.Handle)

	cont := tools.NewContinueTool(cat, sessions)
	s.AddTool(cont.Definition(), cont.Handle)

	feedback := tools.NewFeedbackOptionsTool(cat, lang)
	s.AddTool(feedback.Definition(), feedback.Handle)

	finalize := tools.NewFinalizeTool(cat, store, sessions, surveyLog)
	s.AddTool(finalize.Definition(), finalize.Handle)

	result := tools.NewResultTool(cat, store, lang)
	s.AddTool(result.Definition(), result.Handle)

	closeTool := tools.NewCloseTool(sessions, surveyLog)
	s.AddTool(closeTool.Definition(), closeTool.Handle)

	// --- Register admin tools ---

	stats := tools.NewStatsTool(store)
	s.AddTool(stats.Definition(), stats.Handle)

	leaderboard := tools.NewLeaderboardTool(store)
	s.AddTool(leaderboard.Definition(), leaderboard.Handle)

	deleteResult := tools.NewDeleteResultTool(store, logger.Named("admin"))
	s.AddTool(deleteResult.Definition(), deleteResult.Handle)

	// --- Register prompts ---

	guide := prompts.NewGuidePrompt(lang)
	s.AddPrompt(guide.Definition(), guide.Handle)

	review := prompts.NewReviewPrompt()
	s.AddPrompt(review.Definition(), review.Handle)

	// --- Register resources ---

	rh := resources.NewHandler(cat, sessions)
	s.AddResource(rh.CatalogResource(), rh.HandleCatalog)
	s.AddResource(rh.SessionsResource(), rh.HandleSessions)
	s.AddResourceTemplate(rh.SessionResourceTemplate(), rh.HandleSession)

	logger.Info("server ready",
		zap.String("version", Version),
		zap.String("language", string(lang)),
		zap.String("data_dir", cfg.Storage.DataDir),
	)
	return s, cleanup, nil
}

// noop is the cleanup returned when New fails.
func noop() {}

// serverInstructions tells the host how to run the survey.
func serverInstructions() string {
	return `You have access to ITC27, an adaptive employee engagement assessment.

## Respondent flow

1. survey_start logs the employee in with their employee number (pno) and name.
   Each pno completes the assessment once; a returning pno gets its stored result.
2. Three question phases follow:
   - Engagement: 15 statements rated 1 (strongly disagree) to 5 (strongly agree).
     The last 7 are chosen from the first 8 answers.
   - Behavioral: forced-choice scenarios answered A or B.
   - Situational judgment: scenarios answered A to D. Bold answers lead to
     harder scenarios; the phase grows up to 15 questions.
   For each question: show it, wait for the employee, survey_answer, survey_next.
   survey_back goes back within the current phase only.
3. Profile mapping, growth and roadmap screens are left with survey_continue.
4. Feedback: show survey_feedback_options, then survey_finalize.
   If saving fails, the answers are kept and survey_finalize can be retried.

## Rules

- NEVER answer a question for the employee or suggest a "better" answer.
- Show question text and options exactly as returned.
- Respect the session language (en or hi).

## Admin tools

admin_stats, admin_leaderboard and admin_delete_result are for administrators.
Only delete a result when explicitly asked for that employee number.`
}
