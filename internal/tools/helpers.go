// Package tools implements the MCP tool handlers of the ITC27 survey.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition and Handle for registration.
// Respondent tools drive an assessment.Session held in the Registry;
// admin tools read the results store.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/piyushranjan2301/ITC27/internal/assessment"
	"github.com/piyushranjan2301/ITC27/internal/catalog"
)

// RandomSource creates the randomizer of a new session.
type RandomSource func() assessment.Randomizer

// SeededSource returns a RandomSource. A zero seed gives every session its
// own clock-based seed; any other value makes every session draw the same
// paths.
func SeededSource(seed int64) RandomSource {
	return func() assessment.Randomizer { return assessment.NewRandomizer(seed) }
}

func withSessionID(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append([]mcp.ToolOption{
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by survey_start."),
		),
	}, opts...)
}

// sessionID reads the required session_id argument.
func sessionID(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := strings.TrimSpace(req.GetString("session_id", ""))
	if id == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return id, nil
}

// parseLanguage validates an optional language argument.
func parseLanguage(raw string, fallback catalog.Language) (catalog.Language, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return fallback, nil
	}
	lang := catalog.Language(raw)
	if err := catalog.ValidateLanguage(lang); err != nil {
		return "", err
	}
	return lang, nil
}

// userError reports errors the respondent can fix as tool errors. Anything
// else is returned as an internal failure.
func userError(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return mcp.NewToolResultError("Session not found. Start a new one with `survey_start`."), nil
	case errors.Is(err, assessment.ErrMalformedAnswer),
		errors.Is(err, assessment.ErrUnknownQuestion),
		errors.Is(err, assessment.ErrAnswerRequired),
		errors.Is(err, assessment.ErrWrongPhase):
		return mcp.NewToolResultError(capitalize(err.Error())), nil
	}
	return nil, err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
