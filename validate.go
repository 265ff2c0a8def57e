package verdict

import "fmt"

// validateLoggerConfig checks the static fields of a logger configuration.
// Detection fields are handled separately by resolveDetections.
func validateLoggerConfig(cfg LoggerConfig) error {
	if cfg.AppName == "" {
		return &ConfigurationError{Reason: "AppName is required"}
	}
	if cfg.Environment == "" {
		return &ConfigurationError{Reason: "Environment is required"}
	}
	if cfg.SampleRate != nil && (*cfg.SampleRate < 0 || *cfg.SampleRate > 1) {
		return &ConfigurationError{
			Reason: fmt.Sprintf("SampleRate must be between 0 and 1, got %v", *cfg.SampleRate),
		}
	}
	return nil
}

// validateDocuments checks that every element is one of the accepted shapes:
// a string, a Document, or a map with a string "page_content" key. Failures
// name the offending index so multi-document payloads stay debuggable.
func validateDocuments(docs []any) error {
	for i, doc := range docs {
		switch d := doc.(type) {
		case string:
		case Document:
		case map[string]any:
			content, ok := d["page_content"]
			if !ok {
				return &ValidationError{
					Field:  fmt.Sprintf("Documents[%d]", i),
					Reason: `missing "page_content" key`,
				}
			}
			if _, ok := content.(string); !ok {
				return &ValidationError{
					Field:  fmt.Sprintf("Documents[%d]", i),
					Reason: fmt.Sprintf(`"page_content" must be a string, got %T`, content),
				}
			}
			if meta, ok := d["metadata"]; ok {
				if _, ok := meta.(map[string]any); !ok {
					return &ValidationError{
						Field:  fmt.Sprintf("Documents[%d]", i),
						Reason: fmt.Sprintf(`"metadata" must be a map, got %T`, meta),
					}
				}
			}
		default:
			return &ValidationError{
				Field:  fmt.Sprintf("Documents[%d]", i),
				Reason: fmt.Sprintf("must be a string, Document, or map, got %T", doc),
			}
		}
	}
	return nil
}

// checkDetectionRequirements verifies the payload carries the inputs each
// requested detection needs. Hallucination detection reads the query, the
// output, and at least one context source. Document relevancy reads the
// query and the documents; it does not need the model output. Calls made
// through the legacy flags always require the query and output, whether or
// not a detection ended up enabled.
func checkDetectionRequirements(settings detectionSettings, p LogParams) error {
	if settings.legacy {
		if p.UserQuery == "" {
			return &ValidationError{Field: "UserQuery", Reason: "required when using detection parameters"}
		}
		if p.ModelOutput == "" {
			return &ValidationError{Field: "ModelOutput", Reason: "required when using detection parameters"}
		}
	}
	for _, d := range settings.detections {
		switch d {
		case DetectionHallucination:
			if p.UserQuery == "" {
				return &ValidationError{Field: "UserQuery", Reason: "required for hallucination detection"}
			}
			if p.ModelOutput == "" {
				return &ValidationError{Field: "ModelOutput", Reason: "required for hallucination detection"}
			}
			if len(p.Documents) == 0 && len(p.MessageHistory) == 0 && len(p.Instructions) == 0 {
				return &ValidationError{
					Field:  "Documents",
					Reason: "hallucination detection needs documents, message history, or instructions as context",
				}
			}
		case DetectionDocumentRelevancy:
			if p.UserQuery == "" {
				return &ValidationError{Field: "UserQuery", Reason: "required for document relevancy detection"}
			}
			if len(p.Documents) == 0 {
				return &ValidationError{Field: "Documents", Reason: "required for document relevancy detection"}
			}
		}
	}
	return nil
}
