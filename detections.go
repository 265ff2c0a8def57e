package verdict

import "fmt"

// DetectionType identifies an asynchronous evaluation the service can run on
// a log record.
type DetectionType string

const (
	// DetectionHallucination checks the model output for claims unsupported
	// by the provided context.
	DetectionHallucination DetectionType = "hallucination"
	// DetectionDocumentRelevancy scores each document's relevance to the
	// user query.
	DetectionDocumentRelevancy DetectionType = "document_relevancy"
)

// detectionParams carries the raw detection fields from a LoggerConfig or a
// LogParams before reconciliation.
type detectionParams struct {
	detections          []DetectionType
	detectionSampleRate *float64

	hallucination     *bool
	inconsistency     *bool
	hallucinationRate *float64
}

// used reports whether the caller set any detection field at all. A call
// that sets none inherits the logger's configured settings.
func (p detectionParams) used() bool {
	return len(p.legacyFields()) > 0 || len(p.currentFields()) > 0
}

func (p detectionParams) legacyFields() []string {
	var fields []string
	if p.hallucination != nil {
		fields = append(fields, "HallucinationDetection")
	}
	if p.inconsistency != nil {
		fields = append(fields, "InconsistencyDetection")
	}
	if p.hallucinationRate != nil {
		fields = append(fields, "HallucinationDetectionSampleRate")
	}
	return fields
}

func (p detectionParams) currentFields() []string {
	var fields []string
	if p.detections != nil {
		fields = append(fields, "Detections")
	}
	if p.detectionSampleRate != nil {
		fields = append(fields, "DetectionSampleRate")
	}
	return fields
}

// detectionSettings is the reconciled form used for the rest of a call.
type detectionSettings struct {
	detections []DetectionType
	sampleRate float64
	legacy     bool
}

const deprecationNotice = "HallucinationDetection and HallucinationDetectionSampleRate are deprecated, use Detections and DetectionSampleRate instead"

// resolveDetections reconciles the legacy boolean flags and the current
// detections list into one settings value. Mixing the two schemes in a single
// call is an error and nothing proceeds. Legacy parameters are converted
// with a deprecation notice returned for the caller to surface; the retired
// InconsistencyDetection flag is dropped and the notice says so.
func resolveDetections(p detectionParams) (detectionSettings, string, error) {
	legacy := p.legacyFields()
	current := p.currentFields()

	if len(legacy) > 0 && len(current) > 0 {
		return detectionSettings{}, "", &ParameterConflictError{Legacy: legacy, Current: current}
	}

	if len(legacy) > 0 {
		var settings detectionSettings
		settings.legacy = true
		if p.hallucination != nil && *p.hallucination {
			settings.detections = []DetectionType{DetectionHallucination}
		}
		if p.hallucinationRate != nil {
			rate, err := sampleRateValue("HallucinationDetectionSampleRate", p.hallucinationRate)
			if err != nil {
				return detectionSettings{}, "", err
			}
			settings.sampleRate = rate
		}
		notice := deprecationNotice
		if p.inconsistency != nil {
			notice += "; InconsistencyDetection is no longer supported and was ignored"
		}
		return settings, notice, nil
	}

	var settings detectionSettings
	for _, d := range p.detections {
		switch d {
		case DetectionHallucination, DetectionDocumentRelevancy:
		default:
			return detectionSettings{}, "", &ValidationError{
				Field:  "Detections",
				Reason: fmt.Sprintf("unknown detection type %q", d),
			}
		}
		if !containsDetection(settings.detections, d) {
			settings.detections = append(settings.detections, d)
		}
	}
	rate, err := sampleRateValue("DetectionSampleRate", p.detectionSampleRate)
	if err != nil {
		return detectionSettings{}, "", err
	}
	settings.sampleRate = rate
	return settings, "", nil
}

// sampleRateValue resolves an optional rate to its value, defaulting to 0.
func sampleRateValue(field string, rate *float64) (float64, error) {
	if rate == nil {
		return 0, nil
	}
	if *rate < 0 || *rate > 1 {
		return 0, &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be between 0 and 1, got %v", *rate),
		}
	}
	return *rate, nil
}

func containsDetection(list []DetectionType, d DetectionType) bool {
	for _, have := range list {
		if have == d {
			return true
		}
	}
	return false
}
