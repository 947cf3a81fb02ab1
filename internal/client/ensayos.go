package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Operation names, used in errors, logs and metrics.
const (
	OpListEnsayos       = "list_ensayos"
	OpGetEnsayo         = "get_ensayo"
	OpSubmitEnsayo      = "submit_ensayo"
	OpResultsSummary    = "results_summary"
	OpQuestionBreakdown = "question_breakdown"
	OpCompletedEnsayos  = "completed_ensayos"
	OpReviewResult      = "review_result"
	OpEditExplanation   = "edit_explanation"
)

// ListEnsayos fetches every exam: GET /exams/, falling back to GET /ensayos/.
func (c *Client) ListEnsayos(ctx context.Context) (json.RawMessage, error) {
	return c.withFallback(ctx,
		call{op: OpListEnsayos, method: http.MethodGet, path: "/exams/"},
		call{op: OpListEnsayos, method: http.MethodGet, path: "/ensayos/"},
	)
}

// GetEnsayo fetches one exam: GET /exams/{id}/, falling back to GET /ensayos/{id}/.
func (c *Client) GetEnsayo(ctx context.Context, id int) (json.RawMessage, error) {
	return c.withFallback(ctx,
		call{op: OpGetEnsayo, method: http.MethodGet, path: fmt.Sprintf("/exams/%d/", id)},
		call{op: OpGetEnsayo, method: http.MethodGet, path: fmt.Sprintf("/ensayos/%d/", id)},
	)
}

// SubmitEnsayo posts answers to POST /ensayos/{id}/submit/ in the client's
// SubmitFormat.
func (c *Client) SubmitEnsayo(ctx context.Context, id int, answers AnswerPayload) (json.RawMessage, error) {
	return c.single(ctx, call{
		op:     OpSubmitEnsayo,
		method: http.MethodPost,
		path:   fmt.Sprintf("/ensayos/%d/submit/", id),
		body:   submissionBody(answers, c.submitFormat),
	})
}

// ResultsSummary fetches GET /ensayos/{id}/results/summary/.
func (c *Client) ResultsSummary(ctx context.Context, id int) (json.RawMessage, error) {
	return c.single(ctx, call{
		op:     OpResultsSummary,
		method: http.MethodGet,
		path:   fmt.Sprintf("/ensayos/%d/results/summary/", id),
	})
}

// QuestionBreakdown fetches GET /ensayos/{id}/questions/{questionID}/breakdown/.
func (c *Client) QuestionBreakdown(ctx context.Context, id, questionID int) (json.RawMessage, error) {
	return c.single(ctx, call{
		op:     OpQuestionBreakdown,
		method: http.MethodGet,
		path:   fmt.Sprintf("/ensayos/%d/questions/%d/breakdown/", id, questionID),
	})
}

// CompletedEnsayos fetches the caller's completed exams: GET /ensayos/completados/.
func (c *Client) CompletedEnsayos(ctx context.Context) (json.RawMessage, error) {
	return c.single(ctx, call{
		op:     OpCompletedEnsayos,
		method: http.MethodGet,
		path:   "/ensayos/completados/",
	})
}

// ReviewResult fetches GET /ensayos/{id}/results/{resultID}/review/.
func (c *Client) ReviewResult(ctx context.Context, id, resultID int) (json.RawMessage, error) {
	return c.single(ctx, call{
		op:     OpReviewResult,
		method: http.MethodGet,
		path:   fmt.Sprintf("/ensayos/%d/results/%d/review/", id, resultID),
	})
}

// EditExplanation patches a question's explanation:
// PATCH /preguntas/{questionID}/explicacion/ with {"texto"?, "url"?}.
func (c *Client) EditExplanation(ctx context.Context, questionID int, edit ExplanationEdit) (json.RawMessage, error) {
	var body explanationBody
	if edit != nil {
		body = edit.normalize()
	}
	return c.single(ctx, call{
		op:     OpEditExplanation,
		method: http.MethodPatch,
		path:   fmt.Sprintf("/preguntas/%d/explicacion/", questionID),
		body:   body,
	})
}
