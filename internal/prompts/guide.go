// Package prompts implements the MCP prompts of the ITC27 survey.
//
// Prompts are user-triggered workflows that tell the host which tools to
// call and in what order.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
)

// GuidePrompt handles the survey_guide MCP prompt.
// It walks a respondent through one complete assessment.
type GuidePrompt struct {
	lang catalog.Language
}

// NewGuidePrompt creates a GuidePrompt. lang is used when the request names
// no language.
func NewGuidePrompt(lang catalog.Language) *GuidePrompt {
	return &GuidePrompt{lang: lang}
}

// Definition returns the MCP prompt definition for registration.
func (p *GuidePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("survey_guide",
		mcp.WithPromptDescription(
			"Guide an employee through the engagement assessment, from login "+
				"to the final result.",
		),
		mcp.WithArgument("language",
			mcp.ArgumentDescription("Display language: 'en' (English) or 'hi' (Hindi). Default: the server setting."),
		),
		mcp.WithArgument("pno",
			mcp.ArgumentDescription("Employee number, if already known."),
		),
	)
}

// Handle processes the survey_guide prompt request.
func (p *GuidePrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	lang := p.lang
	pno := ""
	if args := req.Params.Arguments; args != nil {
		if l := catalog.Language(strings.ToLower(strings.TrimSpace(args["language"]))); catalog.ValidateLanguage(l) == nil {
			lang = l
		}
		pno = strings.TrimSpace(args["pno"])
	}

	login := "1. Ask me for my employee number (pno) and name, plus department, designation and location if I want to give them."
	if pno != "" {
		login = fmt.Sprintf("1. My employee number is `%s`. Ask me for my name, plus department, designation and location if I want to give them.", pno)
	}

	languageNote := "Talk to me in English."
	if lang == catalog.LangHindi {
		languageNote = "Talk to me in Hindi (हिंदी में बात करें). Keep question IDs and answer keys as they are."
	}

	return &mcp.GetPromptResult{
		Description: "Take the ITC27 engagement assessment",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to take the employee engagement assessment.\n\n"+
						"Please:\n"+
						"%s\n"+
						"2. Call `survey_start` with language='%s'. If it says I already finished, show me my result and stop.\n"+
						"3. Show me each question exactly as `survey_question` returns it and wait for my choice.\n"+
						"4. Record it with `survey_answer`, then call `survey_next`. If I want to change an earlier answer in the same phase, use `survey_back`.\n"+
						"5. On the profile, growth and roadmap screens, show the content and call `survey_continue` when I am ready.\n"+
						"6. At the feedback step, show `survey_feedback_options` and call `survey_finalize` with my choice.\n"+
						"7. Present the result. If saving failed, call `survey_finalize` again.\n\n"+
						"Never answer a question on my behalf. %s",
					login, lang, languageNote,
				)),
			},
		},
	}, nil
}
