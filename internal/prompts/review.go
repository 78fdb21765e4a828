package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the survey_review MCP prompt.
// It asks the host to summarise the stored results for an administrator.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("survey_review",
		mcp.WithPromptDescription(
			"Review the survey results as an administrator: headline numbers, "+
				"department ranking, leaderboard and notable trends.",
		),
	)
}

// Handle processes the survey_review prompt request.
func (p *ReviewPrompt) Handle(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Review ITC27 survey results",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please review the engagement survey results.\n\n" +
						"1. Call `admin_stats` and summarise the respondent count, average engagement and average points.\n" +
						"2. Name the top department and any department far below the average.\n" +
						"3. Call `admin_leaderboard` and show the top 10.\n" +
						"4. Point out the dominant behavioral traits and how many respondents need support.\n" +
						"5. Describe the daily points trend in one sentence.\n\n" +
						"Do not delete anything unless I ask for a specific employee number.",
				),
			},
		},
	}, nil
}
