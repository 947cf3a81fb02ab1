package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidPayload is returned by the Parse helpers for input they cannot
// map onto one of the accepted shapes.
var ErrInvalidPayload = errors.New("invalid payload")

// Answer is one answer entry. Its keys are owned by the server
// (pregunta_id, opcion_id, texto) and passed through untouched.
type Answer map[string]any

// AnswerPayload is the closed set of shapes SubmitEnsayo accepts:
// Answers (a bare sequence) and Submission (already wrapped).
type AnswerPayload interface {
	answerList() []Answer
	shape() SubmitFormat
}

// Answers is a bare ordered sequence of answer entries.
type Answers []Answer

func (a Answers) answerList() []Answer { return a }
func (Answers) shape() SubmitFormat     { return SubmitBare }

// Submission is a sequence already wrapped under "respuestas".
type Submission struct {
	Respuestas []Answer `json:"respuestas"`
}

func (s Submission) answerList() []Answer { return s.Respuestas }
func (Submission) shape() SubmitFormat     { return SubmitWrapped }

// SubmitFormat selects the wire shape of a submission body.
type SubmitFormat int

const (
	// SubmitAuto sends each payload in the shape it was given: Answers bare,
	// Submission wrapped.
	SubmitAuto SubmitFormat = iota
	// SubmitWrapped always sends {"respuestas": [...]}, the shape the submit view reads.
	SubmitWrapped
	// SubmitBare always sends the bare array.
	SubmitBare
)

func (f SubmitFormat) String() string {
	switch f {
	case SubmitAuto:
		return "auto"
	case SubmitWrapped:
		return "wrapped"
	case SubmitBare:
		return "bare"
	default:
		return fmt.Sprintf("SubmitFormat(%d)", int(f))
	}
}

// ParseSubmitFormat maps "auto" (or empty), "wrapped" and "bare" to their SubmitFormat.
func ParseSubmitFormat(s string) (SubmitFormat, error) {
	switch s {
	case "", "auto":
		return SubmitAuto, nil
	case "wrapped":
		return SubmitWrapped, nil
	case "bare":
		return SubmitBare, nil
	default:
		return 0, fmt.Errorf("unknown submit format %q", s)
	}
}

// submissionBody produces the body for p in format f. Under SubmitAuto the
// payload variant decides; a nil payload is sent wrapped.
func submissionBody(p AnswerPayload, f SubmitFormat) any {
	var list []Answer
	if p != nil {
		list = p.answerList()
		if f == SubmitAuto {
			f = p.shape()
		}
	}
	if list == nil {
		list = []Answer{}
	}
	if f == SubmitBare {
		return list
	}
	return Submission{Respuestas: list}
}

// ParseAnswers decodes a JSON array of answers or an object wrapping one
// under "respuestas".
func ParseAnswers(data []byte) (AnswerPayload, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidPayload)
	}
	switch data[0] {
	case '[':
		var list Answers
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return list, nil
	case '{':
		var wrapped struct {
			Respuestas *[]Answer `json:"respuestas"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		if wrapped.Respuestas == nil {
			return nil, fmt.Errorf("%w: object has no \"respuestas\" list", ErrInvalidPayload)
		}
		return Submission{Respuestas: *wrapped.Respuestas}, nil
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", ErrInvalidPayload)
	}
}

// ExplanationEdit is the closed set of shapes EditExplanation accepts:
// Explanation, LegacyExplanation and ExplanationFields.
type ExplanationEdit interface {
	normalize() explanationBody
}

// explanationBody is the single outgoing PATCH shape. Absent fields are omitted.
type explanationBody struct {
	Texto *string `json:"texto,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// Explanation uses the current field names. Nil fields are not sent.
type Explanation struct {
	Texto *string
	URL   *string
}

func (e Explanation) normalize() explanationBody {
	return explanationBody{Texto: e.Texto, URL: e.URL}
}

// LegacyExplanation uses the explicacion_* field names.
type LegacyExplanation struct {
	ExplicacionTexto *string
	ExplicacionURL   *string
}

func (e LegacyExplanation) normalize() explanationBody {
	return explanationBody{Texto: e.ExplicacionTexto, URL: e.ExplicacionURL}
}

// ExplanationFields is a loose key map that may mix both naming styles.
// Current keys are applied first; legacy keys override them.
type ExplanationFields map[string]string

// Accepted ExplanationFields keys.
const (
	FieldTexto            = "texto"
	FieldURL              = "url"
	FieldExplicacionTexto = "explicacion_texto"
	FieldExplicacionURL   = "explicacion_url"
)

func (f ExplanationFields) normalize() explanationBody {
	var b explanationBody
	if v, ok := f[FieldTexto]; ok {
		b.Texto = &v
	}
	if v, ok := f[FieldURL]; ok {
		b.URL = &v
	}
	if v, ok := f[FieldExplicacionTexto]; ok {
		b.Texto = &v
	}
	if v, ok := f[FieldExplicacionURL]; ok {
		b.URL = &v
	}
	return b
}

// ParseExplanation decodes a JSON object into ExplanationFields. Keys other
// than the four accepted ones are ignored; accepted keys must hold strings,
// not null.
func ParseExplanation(data []byte) (ExplanationEdit, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	fields := ExplanationFields{}
	for _, key := range []string{FieldTexto, FieldURL, FieldExplicacionTexto, FieldExplicacionURL} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil || s == nil {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidPayload, key)
		}
		fields[key] = *s
	}
	return fields, nil
}

// String returns a pointer to v, for Explanation literals.
func String(v string) *string { return &v }
