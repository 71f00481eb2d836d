package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/impel-lab/compass/pkg/domain/interfaces"
	"github.com/impel-lab/compass/pkg/domain/model"
	"github.com/impel-lab/compass/pkg/service/catalog"
	"github.com/impel-lab/compass/pkg/service/papersearch"
	"github.com/impel-lab/compass/pkg/service/websearch"
	"github.com/impel-lab/compass/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Content handles market analysis and content-based recommendation
// queries: trending skills, job market insight, and course suggestions
// grounded in an uploaded resume. It does not use collaborative data, so
// SimilarCourses is always empty.
type Content struct {
	llmClient gollem.LLMClient
	catalog   *catalog.Service
	search    *websearch.Client
	papers    *papersearch.Service
	files     interfaces.FileStore
}

var _ interfaces.Agent = &Content{}

// ContentOption is a functional option for Content configuration
type ContentOption func(*Content)

// WithWebSearch enables the job market and trending skills sections
func WithWebSearch(client *websearch.Client) ContentOption {
	return func(a *Content) {
		a.search = client
	}
}

// WithPaperSearch enables research paper recommendations alongside the
// course section
func WithPaperSearch(svc *papersearch.Service) ContentOption {
	return func(a *Content) {
		a.papers = svc
	}
}

// WithFileStore enables resume ingestion from uploaded file references
func WithFileStore(store interfaces.FileStore) ContentOption {
	return func(a *Content) {
		a.files = store
	}
}

// NewContent creates the content analysis agent
func NewContent(llmClient gollem.LLMClient, catalogSvc *catalog.Service, opts ...ContentOption) (*Content, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if catalogSvc == nil {
		return nil, goerr.New("catalog service is required")
	}

	a := &Content{
		llmClient: llmClient,
		catalog:   catalogSvc,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// focusResponse is the structured output of focus classification
type focusResponse struct {
	Focuses []string `json:"focuses"`
}

const (
	focusCourses  = "courses"
	focusJobs     = "jobs"
	focusTrending = "trending_skills"
)

func focusSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "QueryFocusResponse",
		Description: "The content areas the query asks about",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"focuses": {
				Type:        gollem.TypeArray,
				Description: "One or more focus areas present in the query",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
					Enum: []string{focusCourses, focusJobs, focusTrending},
				},
			},
		},
	}
}

// classifyFocus determines which sections to build for the query. On any
// failure it falls back to the courses section alone so the agent still
// produces an answer.
func (a *Content) classifyFocus(ctx context.Context, query string) []string {
	session, err := a.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(focusSchema()),
		gollem.WithSessionSystemPrompt("Classify which content areas the user's query asks about: course recommendations, job market information, or trending skills."),
	)
	if err != nil {
		logging.From(ctx).Warn("focus classification session failed", "error", err.Error())
		return []string{focusCourses}
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(query))
	if err != nil || len(resp.Texts) == 0 {
		logging.From(ctx).Warn("focus classification failed, defaulting to courses")
		return []string{focusCourses}
	}

	var parsed focusResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil || len(parsed.Focuses) == 0 {
		logging.From(ctx).Warn("unparseable focus classification, defaulting to courses",
			"response", resp.Texts[0])
		return []string{focusCourses}
	}
	return parsed.Focuses
}

// resumeText loads and concatenates the uploaded files. Unreadable files
// are skipped: a broken upload degrades the resume grounding, it does
// not fail the query.
func (a *Content) resumeText(ctx context.Context, refs []string) string {
	if a.files == nil || len(refs) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, ref := range refs {
		data, err := a.files.Fetch(ctx, ref)
		if err != nil {
			logging.From(ctx).Warn("skipping unreadable uploaded file",
				"ref", ref, "error", err.Error())
			continue
		}
		sb.Write(data)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func (a *Content) courseSection(ctx context.Context, query, resume string) string {
	var sb strings.Builder
	sb.WriteString("You are a course recommendation assistant. Below are courses and their modules from the IMPEL database:\n")
	sb.WriteString(a.catalog.PromptBlock(ctx))
	sb.WriteString("\n")
	if resume != "" {
		sb.WriteString("The user's resume:\n")
		sb.WriteString(resume)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "User query: '%s'\n", query)
	sb.WriteString("Recommend relevant courses and modules, tailored to the user's background.")

	text, err := generateText(ctx, a.llmClient, sb.String())
	if err != nil {
		logging.From(ctx).Warn("course section generation failed", "error", err.Error())
		return "## Course Recommendations\nUnable to generate course recommendations due to system error."
	}
	return "## Course Recommendations\n" + text
}

// paperSection recommends research papers related to the query. It
// follows the search sections' degradation policy: no corpus, a failed
// search, or no matches yield no section rather than an error. A failed
// summarization falls back to the raw snippets so the papers still reach
// the user.
func (a *Content) paperSection(ctx context.Context, query, resume string) string {
	if a.papers == nil {
		return ""
	}

	searchQuery := query
	if resume != "" {
		searchQuery = resume + "\n" + query
	}
	papers, err := a.papers.Search(ctx, searchQuery)
	if err != nil {
		logging.From(ctx).Warn("paper search failed", "error", err.Error())
		return ""
	}
	if len(papers) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Summarize each of these research papers in 1-2 sentences, as a bulleted list of '- **filename**: summary' lines. Keep every paper.\n\n")
	for _, p := range papers {
		fmt.Fprintf(&sb, "- %s: %s\n", p.Name, p.Snippet)
	}
	fmt.Fprintf(&sb, "\nUser query: '%s'", query)

	text, err := generateText(ctx, a.llmClient, sb.String())
	if err != nil {
		logging.From(ctx).Warn("paper summarization failed, listing snippets", "error", err.Error())
		var lines []string
		for _, p := range papers {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", p.Name, p.Snippet))
		}
		return "## Related Research Papers\n" + strings.Join(lines, "\n")
	}
	return "## Related Research Papers\n" + text
}

// searchSection builds one web-search-grounded section. Returns an empty
// string when the section cannot be produced.
func (a *Content) searchSection(ctx context.Context, heading, query, instruction string) string {
	if a.search == nil {
		logging.From(ctx).Debug("web search not configured, skipping section", "heading", heading)
		return ""
	}

	results, err := a.search.Search(ctx, query)
	if err != nil {
		logging.From(ctx).Warn("web search failed", "heading", heading, "error", err.Error())
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\nSearch results:\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", r.Title, r.URL, r.Content)
	}
	fmt.Fprintf(&sb, "\nUser query: '%s'", query)

	text, err := generateText(ctx, a.llmClient, sb.String())
	if err != nil {
		logging.From(ctx).Warn("section generation failed", "heading", heading, "error", err.Error())
		return ""
	}
	return heading + "\n" + text
}

// Execute builds the focus-dependent sections and assembles them into
// one response
func (a *Content) Execute(ctx context.Context, input *model.QueryInput, userVector []float32) (*model.AgentResult, error) {
	focuses := a.classifyFocus(ctx, input.Query)
	resume := a.resumeText(ctx, input.UploadedFiles)

	var sections []string
	for _, focus := range focuses {
		switch focus {
		case focusCourses:
			sections = append(sections, a.courseSection(ctx, input.Query, resume))
			if s := a.paperSection(ctx, input.Query, resume); s != "" {
				sections = append(sections, s)
			}
		case focusJobs:
			if s := a.searchSection(ctx, "## Job Market Insights", input.Query,
				"Summarize the current job market relevant to the user's query from the search results below."); s != "" {
				sections = append(sections, s)
			}
		case focusTrending:
			if s := a.searchSection(ctx, "## Trending Skills", input.Query,
				"Summarize the trending skills relevant to the user's query from the search results below."); s != "" {
				sections = append(sections, s)
			}
		}
	}

	if len(sections) == 0 {
		return &model.AgentResult{
			Response:       "I wasn't able to process your request. Please try rephrasing your question about courses, jobs, or trending skills.",
			SimilarCourses: "",
			UserVector:     userVector,
		}, nil
	}

	response := a.assemble(ctx, input.Query, sections)

	return &model.AgentResult{
		Response:       response,
		SimilarCourses: "",
		UserVector:     userVector,
	}, nil
}

// assemble merges sections into one coherent response. When assembly
// fails the sections are joined with separators instead.
func (a *Content) assemble(ctx context.Context, query string, sections []string) string {
	if len(sections) == 1 {
		return sections[0]
	}

	var sb strings.Builder
	sb.WriteString("Merge the following sections into one coherent answer. Keep the section headings and all factual content.\n\n")
	sb.WriteString(strings.Join(sections, "\n\n"))
	fmt.Fprintf(&sb, "\n\nUser query: '%s'", query)

	text, err := generateText(ctx, a.llmClient, sb.String())
	if err != nil {
		logging.From(ctx).Warn("final assembly failed, joining sections", "error", err.Error())
		return strings.Join(sections, "\n\n---\n\n")
	}
	return text
}
