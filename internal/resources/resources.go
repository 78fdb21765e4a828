// Package resources implements the MCP resources of the ITC27 survey.
//
// Resources provide read-only JSON the host can consume for context.
// They use URI-based addressing (itc27://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/piyushranjan2301/ITC27/internal/assessment"
	"github.com/piyushranjan2301/ITC27/internal/catalog"
	"github.com/piyushranjan2301/ITC27/internal/scoring"
)

const (
	// CatalogURI addresses the question catalog summary.
	CatalogURI = "itc27://catalog"
	// SessionsURI addresses the list of open session ids.
	SessionsURI = "itc27://sessions"
	// SessionTemplate addresses one open session.
	SessionTemplate = "itc27://sessions/{id}"

	sessionPrefix = "itc27://sessions/"
)

// Sessions is the view of open sessions the handler reads from.
type Sessions interface {
	With(id string, fn func(*assessment.Session) error) error
	IDs() []string
}

// Handler manages the survey resource endpoints.
type Handler struct {
	cat      *catalog.Catalog
	sessions Sessions
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(cat *catalog.Catalog, sessions Sessions) *Handler {
	return &Handler{cat: cat, sessions: sessions}
}

// --- Catalog ---

// CatalogSummary is the JSON shape of the catalog resource.
type CatalogSummary struct {
	Engagement      map[catalog.AdaptiveTag]int `json:"engagement"`
	Behavioral      int                         `json:"behavioral"`
	Situational     map[catalog.Complexity]int  `json:"situational"`
	LikertLabels    []catalog.Text              `json:"likert_labels"`
	FeedbackOptions []catalog.Text              `json:"feedback_options"`
	TraitRoles      []catalog.TraitRole         `json:"trait_roles"`
	Badges          []catalog.Badge             `json:"badges"`
}

// CatalogResource returns the MCP resource definition for the catalog.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		CatalogURI,
		"ITC27 Question Catalog",
		mcp.WithResourceDescription("Pool sizes per adaptive tag and complexity, answer labels, trait roles and badges"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalog returns the catalog summary as JSON.
func (h *Handler) HandleCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sum := CatalogSummary{
		Engagement:      map[catalog.AdaptiveTag]int{},
		Behavioral:      len(h.cat.BehavioralIDs()),
		Situational:     map[catalog.Complexity]int{},
		LikertLabels:    h.cat.LikertLabels(),
		FeedbackOptions: h.cat.FeedbackOptions(),
		TraitRoles:      h.cat.TraitRoles(),
		Badges:          h.cat.Badges(),
	}
	for _, tag := range []catalog.AdaptiveTag{catalog.TagStandard, catalog.TagHighEngagement, catalog.TagLowEngagement, catalog.TagDeepDive} {
		sum.Engagement[tag] = len(h.cat.EngagementTagged(tag))
	}
	for _, cx := range []catalog.Complexity{catalog.ComplexityBasic, catalog.ComplexityAdvanced, catalog.ComplexityCoaching} {
		sum.Situational[cx] = len(h.cat.SituationalOf(cx))
	}
	return jsonResource(req.Params.URI, sum)
}

// --- Sessions ---

// SessionsResource returns the MCP resource definition for the open
// session list.
func (h *Handler) SessionsResource() mcp.Resource {
	return mcp.NewResource(
		SessionsURI,
		"Open Survey Sessions",
		mcp.WithResourceDescription("Ids of the assessment sessions currently open"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSessions returns the open session ids as JSON.
func (h *Handler) HandleSessions(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, map[string][]string{"sessions": h.sessions.IDs()})
}

// SessionView is the JSON shape of one session.
type SessionView struct {
	ID             string                        `json:"id"`
	Identity       scoring.Identity              `json:"identity"`
	Language       catalog.Language              `json:"language"`
	Phase          assessment.Phase              `json:"phase"`
	Progress       assessment.Progress           `json:"progress"`
	Completed      []assessment.Phase            `json:"completed_phases"`
	Paths          map[assessment.Phase][]string `json:"paths"`
	EngagementMode assessment.Mode               `json:"engagement_mode,omitempty"`
	DepthScore     int                           `json:"depth_score"`
	ElapsedSeconds int                           `json:"elapsed_seconds"`
	Result         *scoring.Result               `json:"result,omitempty"`
}

// SessionResourceTemplate returns the MCP resource template for one session.
func (h *Handler) SessionResourceTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		SessionTemplate,
		"Survey Session",
		mcp.WithTemplateDescription("Phase, progress, drawn paths and result of one open session"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandleSession returns one session as JSON.
func (h *Handler) HandleSession(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(req.Params.URI, sessionPrefix)
	if id == "" || id == req.Params.URI {
		return errorResource(req.Params.URI, "session id is required"), nil
	}

	var view SessionView
	err := h.sessions.With(id, func(s *assessment.Session) error {
		view = SessionView{
			ID:             id,
			Identity:       s.Identity(),
			Language:       s.Language(),
			Phase:          s.Phase(),
			Progress:       s.Progress(),
			Completed:      []assessment.Phase{},
			Paths:          map[assessment.Phase][]string{},
			EngagementMode: s.EngagementMode(),
			DepthScore:     s.DepthScore(),
			ElapsedSeconds: int(s.Elapsed().Seconds()),
			Result:         s.Result(),
		}
		for _, p := range assessment.PhaseOrder {
			if s.PhaseComplete(p) {
				view.Completed = append(view.Completed, p)
			}
			if assessment.IsQuestionPhase(p) {
				view.Paths[p] = s.Path(p)
			}
		}
		return nil
	})
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, view)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
