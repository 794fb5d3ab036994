// Package pipeline runs the deterministic processing chain for one claim:
// text extraction per document, rule-based field extraction, an optional AI
// pass for the fields the rules left empty, the pro-rata refund computation
// and the final letter rendering.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tmc/langchaingo/textsplitter"

	"rimborso/src/extraction"
	"rimborso/src/fsutil"
	"rimborso/src/infrastructure/job"
	"rimborso/src/letter"
	"rimborso/src/log"
	"rimborso/src/ollama"
	"rimborso/src/refund"
	"rimborso/src/textextract"
)

const (
	DefaultTimeout = 60 * time.Second

	// maxPromptChars bounds how much of each document reaches the model.
	maxPromptChars = 6000
)

// Analyzer is the AI-analysis collaborator.
type Analyzer interface {
	Chat(ctx context.Context, model string, messages []ollama.ChatMessage) (ollama.Response, error)
}

// Result is the structured output stored on a completed job.
type Result struct {
	Profile   extraction.FinancialProfile `json:"profile"`
	Breakdown refund.Breakdown            `json:"breakdown"`
	Letter    string                      `json:"letter"`
}

// Pipeline composes the processing steps. Safe for concurrent use.
type Pipeline struct {
	objects   fsutil.ObjectStore
	bucket    string
	extractor textextract.Extractor
	analyzer  Analyzer
	model     string
	timeout   time.Duration
}

type Option func(p *Pipeline)

// WithAnalyzer enables the AI pass that fills fields the rules left empty.
func WithAnalyzer(a Analyzer, model string) Option {
	return func(p *Pipeline) {
		p.analyzer = a
		p.model = model
	}
}

// WithTimeout bounds the wall-clock time of one analysis call.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func New(objects fsutil.ObjectStore, bucket string, extractor textextract.Extractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		objects:   objects,
		bucket:    bucket,
		extractor: extractor,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run processes one claim. Unusable document text degrades to defaulted
// fields; a failing or undecodable analysis call is a hard error that
// fails the job.
func (p *Pipeline) Run(ctx context.Context, input job.Input) (*Result, error) {
	contractText, err := p.loadText(ctx, input.Contract)
	if err != nil {
		return nil, err
	}
	statementText, err := p.loadText(ctx, input.Statement)
	if err != nil {
		return nil, err
	}
	templateText, err := p.loadText(ctx, input.Template)
	if err != nil {
		return nil, err
	}

	profile := extraction.Merge(
		extraction.Extract(contractText),
		extraction.Extract(statementText),
	)

	if p.analyzer != nil {
		aiProfile, err := p.analyze(ctx, contractText, statementText)
		if err != nil {
			return nil, err
		}
		profile = extraction.FillMissing(profile, aiProfile)
	}

	breakdown := refund.Compute(profile)

	values := letter.Values{
		Amount: letter.FormatAmount(breakdown.Refund),
		Date:   time.Now().Format("02/01/2006"),
	}
	if profile.ClientName != nil {
		values.ClientName = *profile.ClientName
	}
	if profile.SettlementDate != nil {
		values.Date = *profile.SettlementDate
	}

	return &Result{
		Profile:   profile,
		Breakdown: breakdown,
		Letter:    letter.Render(templateText, values),
	}, nil
}

// loadText fetches one document and converts it to plain text. Conversion
// failures degrade to empty text so the run proceeds with defaulted fields;
// only the blob read itself is fatal.
func (p *Pipeline) loadText(ctx context.Context, ref job.DocumentRef) (string, error) {
	data, err := p.objects.GetObject(ctx, p.bucket, ref.Key)
	if err != nil {
		return "", fmt.Errorf("failed to load document %s: %w", ref.Key, err)
	}

	text, err := p.extractor.ExtractText(ctx, data, ref.MimeType)
	if err != nil {
		log.Error(err, "text extraction failed, proceeding without this document", "key", ref.Key)
		return "", nil
	}
	return text, nil
}

func (p *Pipeline) analyze(ctx context.Context, contractText, statementText string) (extraction.FinancialProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt, err := renderPrompt(boundText(contractText), boundText(statementText))
	if err != nil {
		return extraction.FinancialProfile{}, fmt.Errorf("failed to render analysis prompt: %w", err)
	}

	resp, err := p.analyzer.Chat(ctx, p.model, []ollama.ChatMessage{
		{Role: "system", Content: AnalysisSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return extraction.FinancialProfile{}, &ExternalServiceError{Op: "chat", Err: err}
	}

	var profile extraction.FinancialProfile
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &profile); err != nil {
		return extraction.FinancialProfile{}, newParseError(resp.Text)
	}
	return profile, nil
}

func renderPrompt(contractText, statementText string) (string, error) {
	t := template.Must(template.New("analysis").Parse(analysisPromptTmpl))

	var buf bytes.Buffer
	err := t.Execute(&buf, struct {
		ContractText  string
		StatementText string
	}{contractText, statementText})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// boundText caps the document text fed into the prompt, cutting on natural
// boundaries where possible.
func boundText(text string) string {
	if len(text) <= maxPromptChars {
		return text
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(maxPromptChars),
		textsplitter.WithChunkOverlap(0),
	)
	chunks, err := splitter.SplitText(text)
	if err != nil || len(chunks) == 0 {
		return text[:maxPromptChars]
	}
	return chunks[0]
}

// extractJSON tolerates models that wrap their JSON answer in markdown
// fences or prose: it keeps the outermost object literal.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return strings.TrimSpace(s)
}
