// Package remote provides a best-effort adapter to an external text
// inference endpoint that can enrich or override a rule-based verdict.
// Every failure mode resolves the same way: the caller keeps the rule
// verdict. The adapter never returns an error across its boundary.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/triago/internal/domain/model"
	"github.com/okian/triago/internal/domain/triage"
	"github.com/okian/triago/pkg/logger"
)

// Default adapter configuration constants.
const (
	defaultTimeout = 10 * time.Second

	confidenceBoost  = 0.10
	confidenceReduce = 0.10
)

// Adapter is the capability-abstracted collaborator contract: either a
// verdict comes back with ok=true, or the caller falls back to the rule
// engine's verdict unmodified.
type Adapter interface {
	TryClassify(ctx context.Context, req model.TriageRequest, base model.TriageVerdict) (model.TriageVerdict, bool)
}

// Option applies a configuration option to the HTTPAdapter.
type Option func(*HTTPAdapter)

// WithTimeout bounds each inference call.
func WithTimeout(timeout time.Duration) Option {
	return func(a *HTTPAdapter) {
		if timeout > 0 {
			a.client.SetTimeout(timeout)
		}
	}
}

// WithToken sets the bearer token sent with each request.
func WithToken(token string) Option {
	return func(a *HTTPAdapter) {
		if token != "" {
			a.client.SetAuthToken(token)
		}
	}
}

// WithClient replaces the underlying HTTP client, used by tests.
func WithClient(client *resty.Client) Option {
	return func(a *HTTPAdapter) {
		if client != nil {
			a.client = client
		}
	}
}

// HTTPAdapter implements Adapter against a text-generation HTTP endpoint.
type HTTPAdapter struct {
	endpoint string
	client   *resty.Client
	logger   logger.Logger
}

// NewHTTPAdapter creates an adapter for the given inference endpoint.
func NewHTTPAdapter(endpoint string, log logger.Logger, opts ...Option) *HTTPAdapter {
	a := &HTTPAdapter{
		endpoint: endpoint,
		client:   resty.New().SetTimeout(defaultTimeout),
		logger:   log,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// inferenceRequest mirrors the hosted-inference text generation schema.
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// inferenceReply covers the two reply shapes the endpoint produces: a single
// object or a one-element array of objects.
type inferenceReply struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error"`
}

// TryClassify asks the remote model to assess the presentation. On success
// it returns the base verdict with severity, confidence, reason, and
// recommendations replaced by the model's assessment. On any failure it
// returns ok=false and the caller keeps the rule verdict.
func (a *HTTPAdapter) TryClassify(ctx context.Context, req model.TriageRequest, base model.TriageVerdict) (model.TriageVerdict, bool) {
	text, err := a.generate(ctx, buildPrompt(req))
	if err != nil {
		a.logger.Warn(ctx, "remote model call failed, keeping rule verdict", logger.Error(err))
		return model.TriageVerdict{}, false
	}

	severity, err := parseSeverity(text)
	if err != nil {
		a.logger.Warn(ctx, "remote model reply unusable, keeping rule verdict", logger.Error(err))
		return model.TriageVerdict{}, false
	}

	verdict := base
	verdict.Severity = severity
	verdict.Confidence = adjustConfidence(base.Confidence, text)
	verdict.Reason = fmt.Sprintf("Remote model assessment: %s severity", severity)
	verdict.Recommendations = triage.RecommendationsFor(severity)
	verdict.Method = model.MethodRemoteModel
	verdict.ClampConfidence()

	return verdict, true
}

// generate performs the bounded HTTP call and extracts the generated text.
func (a *HTTPAdapter) generate(ctx context.Context, prompt string) (string, error) {
	var (
		list   []inferenceReply
		single inferenceReply
	)

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(inferenceRequest{Inputs: prompt}).
		Post(a.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	body := resp.Body()
	text := ""
	switch {
	case jsonInto(body, &list) && len(list) > 0:
		if list[0].Error != "" {
			return "", replyError(list[0].Error)
		}
		text = list[0].GeneratedText
	case jsonInto(body, &single):
		if single.Error != "" {
			return "", replyError(single.Error)
		}
		text = single.GeneratedText
	default:
		text = string(body)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	if strings.Contains(strings.ToLower(text), "loading") {
		return "", ErrModelLoading
	}
	return text, nil
}

func replyError(msg string) error {
	if strings.Contains(strings.ToLower(msg), "loading") {
		return fmt.Errorf("%w: %s", ErrModelLoading, msg)
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, msg)
}

// buildPrompt assembles the structured triage prompt sent to the model.
func buildPrompt(req model.TriageRequest) string {
	var b strings.Builder

	b.WriteString("You are a medical triage assistant. ")
	b.WriteString("Assess the patient and answer with a severity of RED, YELLOW, or GREEN ")
	b.WriteString("plus a short justification and a confidence statement.\n")
	fmt.Fprintf(&b, "Patient age: %d years\n", req.Age)
	fmt.Fprintf(&b, "Pregnant: %t\n", req.Pregnant)
	for key, value := range req.Context {
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}
	fmt.Fprintf(&b, "Symptoms: %s\n", req.Symptoms)

	return b.String()
}

// Severity keyword sets for free-text replies.
var (
	redMarkers    = []string{"RED", "CRITICAL", "EMERGENCY"}
	yellowMarkers = []string{"YELLOW", "URGENT", "PRIORITY"}
	greenMarkers  = []string{"GREEN", "ROUTINE", "LOW"}
)

// parseSeverity scans the reply for severity markers. Exactly one tier must
// match; anything else is ambiguous and resolves to the rule verdict.
func parseSeverity(text string) (model.Severity, error) {
	upper := strings.ToUpper(text)

	matched := make([]model.Severity, 0, 3)
	if containsAny(upper, redMarkers) {
		matched = append(matched, model.SeverityRed)
	}
	if containsAny(upper, yellowMarkers) {
		matched = append(matched, model.SeverityYellow)
	}
	// "LOW" is a substring of "YELLOW"; strip the YELLOW marker before
	// scanning the GREEN tier so a YELLOW reply is not read as ambiguous.
	if containsAny(strings.ReplaceAll(upper, "YELLOW", ""), greenMarkers) {
		matched = append(matched, model.SeverityGreen)
	}

	if len(matched) != 1 {
		return "", ErrAmbiguous
	}
	return matched[0], nil
}

// adjustConfidence nudges the base confidence by the reply's own hedging.
// "uncertain" is checked before "certain" since the former contains the latter.
func adjustConfidence(base float64, text string) float64 {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "low confidence") || strings.Contains(lower, "uncertain"):
		return base - confidenceReduce
	case strings.Contains(lower, "high confidence") || strings.Contains(lower, "certain"):
		return base + confidenceBoost
	default:
		return base
	}
}

func jsonInto(data []byte, v any) bool {
	return json.Unmarshal(data, v) == nil
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
