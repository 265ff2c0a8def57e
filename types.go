package verdict

import "time"

// LogStatus tracks a log record through creation and detection processing.
type LogStatus string

const (
	// StatusLogNotFound means the service has no record of the log yet.
	// Creation may still be in flight, so this is not terminal.
	StatusLogNotFound LogStatus = "LOG_NOT_FOUND"
	// StatusLogCreationInProgress means the record is being persisted.
	StatusLogCreationInProgress LogStatus = "LOG_CREATION_IN_PROGRESS"
	// StatusLogCreatedNoDetections means the record was stored and no
	// detections were requested for it.
	StatusLogCreatedNoDetections LogStatus = "LOG_CREATED_NO_DETECTIONS_PENDING"
	// StatusDetectionInProgress means detections are still being evaluated.
	StatusDetectionInProgress LogStatus = "LOG_CREATED_AND_DETECTION_IN_PROGRESS"
	// StatusDetectionCompleted means all requested detections finished.
	StatusDetectionCompleted LogStatus = "LOG_CREATED_AND_DETECTION_COMPLETED"
)

// Terminal reports whether no further processing will happen for the log.
func (s LogStatus) Terminal() bool {
	return s == StatusLogCreatedNoDetections || s == StatusDetectionCompleted
}

// Document is a retrieved context document attached to a log. Plain strings
// and maps with a "page_content" key are accepted anywhere a Document is.
type Document struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// LogRecord is the payload sent to the service for each captured interaction.
// The ID and CreatedAt fields are generated client-side.
type LogRecord struct {
	ID                  string           `json:"id"`
	AppName             string           `json:"app_name"`
	Environment         string           `json:"environment"`
	CreatedAt           time.Time        `json:"created_at"`
	UserQuery           string           `json:"user_query"`
	ModelOutput         string           `json:"model_output"`
	Documents           []any            `json:"documents,omitempty"`
	MessageHistory      []map[string]any `json:"message_history,omitempty"`
	Instructions        []string         `json:"instructions,omitempty"`
	Tags                map[string]any   `json:"tags,omitempty"`
	Detections          []DetectionType  `json:"detections,omitempty"`
	DetectionSampleRate float64          `json:"detection_sample_rate"`
}

// LogEntry is a stored log record as returned by the service.
type LogEntry struct {
	LogRecord
	Status LogStatus `json:"status"`
}

// EvalScore is the judgment for a single evaluated item.
type EvalScore string

const (
	ScorePass         EvalScore = "PASS"
	ScoreFail         EvalScore = "FAIL"
	ScoreInconclusive EvalScore = "INCONCLUSIVE"
)

// Evaluation holds the judgment for one evaluated item: a document, a message
// from the history, or an instruction. Index points back into the submitted
// slice the item came from.
type Evaluation struct {
	Index                 int       `json:"index"`
	Score                 EvalScore `json:"score"`
	Reasoning             string    `json:"reasoning,omitempty"`
	SupportingEvidenceIDs []string  `json:"supporting_evidence_ids,omitempty"`
}

// DetectionResult bundles the detection outcome for a single log record.
type DetectionResult struct {
	Log                       LogEntry     `json:"log"`
	IsHallucinated            bool         `json:"is_hallucinated"`
	DocEvaluations            []Evaluation `json:"doc_evaluations,omitempty"`
	MessageHistoryEvaluations []Evaluation `json:"message_history_evaluations,omitempty"`
	InstructionEvaluations    []Evaluation `json:"instruction_evaluations,omitempty"`
	FullDocContextEvaluations []Evaluation `json:"full_doc_context_evaluations,omitempty"`
}

// Float64 returns a pointer to v. Optional numeric fields take pointers so
// the zero value and "unset" stay distinguishable.
func Float64(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
