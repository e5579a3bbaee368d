package briefModel

import "strings"

type DocFormat string

const (
	FormatPlainText  DocFormat = "PLAIN_TEXT"
	FormatMarkdown   DocFormat = "MARKDOWN"
	FormatWordLegacy DocFormat = "WORD_LEGACY"
	FormatWordModern DocFormat = "WORD_MODERN"
	FormatPDF        DocFormat = "PDF"
	FormatUnknown    DocFormat = "UNSUPPORTED"
)

type ExtractionMethod string

const (
	MethodPrimary  ExtractionMethod = "primary"
	MethodFallback ExtractionMethod = "fallback"
)

// UploadedDocument only exists for the duration of extraction.
type UploadedDocument struct {
	Data      []byte
	MediaType string
	Filename  string
}

type ExtractedText struct {
	Text   string
	Format DocFormat
	Method ExtractionMethod
}

type TextChunk struct {
	Index         int    `json:"index"`
	Text          string `json:"text"`
	TokenEstimate int    `json:"token_estimate"`
	//Overlap is true when the chunk starts with trailing context from the previous one
	Overlap bool `json:"overlap"`
}

// Brief is the canonical structured record extracted from an uploaded
// document. Downstream stages read it; only extraction merge and explicit
// user edits ever mutate it.
type Brief struct {
	Title            string   `json:"title"`
	Objective        string   `json:"objective"`
	TargetAudience   string   `json:"target_audience"`
	ValueProposition string   `json:"value_proposition,omitempty"`
	Product          string   `json:"product,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	KeyMessages      []string `json:"key_messages,omitempty"`
	Platforms        []string `json:"platforms,omitempty"`
	Constraints      string   `json:"constraints,omitempty"`
	Budget           string   `json:"budget,omitempty"`
	Timeline         string   `json:"timeline,omitempty"`

	//FromFallback marks a brief produced entirely by heuristic extraction
	//so the review step can prompt more scrutiny
	FromFallback bool `json:"from_fallback,omitempty"`
}

// Confirmable reports whether the brief can pass the review gate.
func (b Brief) Confirmable() bool {
	return strings.TrimSpace(b.Title) != "" &&
		strings.TrimSpace(b.Objective) != "" &&
		strings.TrimSpace(b.TargetAudience) != ""
}

// IsEmpty reports whether no field carries any content.
func (b Brief) IsEmpty() bool {
	return b.Title == "" && b.Objective == "" && b.TargetAudience == "" &&
		b.ValueProposition == "" && b.Product == "" && b.Industry == "" &&
		len(b.KeyMessages) == 0 && len(b.Platforms) == 0
}

type OutcomeSource string

const (
	OutcomeSuccess  OutcomeSource = "success"
	OutcomeFallback OutcomeSource = "fallback"
	OutcomeFailed   OutcomeSource = "failed"
)

// ChunkOutcome is the tagged result of extracting one chunk. The merger
// only reads Brief; the tag is kept for quality accounting.
type ChunkOutcome struct {
	Index  int
	Source OutcomeSource
	Brief  Brief
	Err    error
}

type Motivation struct {
	Id        string `json:"id"`
	Text      string `json:"text"`
	Rationale string `json:"rationale"`
	Selected  bool   `json:"selected"`
}

type CopyVariant struct {
	Id           string `json:"id"`
	MotivationId string `json:"motivation_id"`
	Text         string `json:"text"`
	Variant      int    `json:"variant"` //1..N per motivation
}
