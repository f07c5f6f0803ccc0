package services

import "fmt"

// IngestionErrorKind classifies document normalization failures.
type IngestionErrorKind string

const (
	IngestTooLarge         IngestionErrorKind = "FILE_TOO_LARGE"
	IngestExtractionFailed IngestionErrorKind = "EXTRACTION_FAILED"

	// IngestUnsupportedFormat is part of the client-facing error
	// vocabulary but currently unreachable: anything that is not a
	// PDF or Word document is accepted as plain text. It becomes
	// live the moment a format gets rejected instead.
	IngestUnsupportedFormat IngestionErrorKind = "UNSUPPORTED_FORMAT"
)

type IngestionError struct {
	Kind IngestionErrorKind
	Err  error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// GatewayErrorKind classifies failures at the model proxy boundary.
type GatewayErrorKind string

const (
	GatewayPlanningFailed        GatewayErrorKind = "PLANNING_FAILED"
	GatewayImageGenerationFailed GatewayErrorKind = "IMAGE_GENERATION_FAILED"
	GatewayRefinementFailed      GatewayErrorKind = "REFINEMENT_FAILED"
	GatewayAuthMissing           GatewayErrorKind = "AUTH_MISSING"
	GatewayMalformedRequest      GatewayErrorKind = "MALFORMED_REQUEST"
)

type GatewayError struct {
	Kind    GatewayErrorKind
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func gatewayErr(kind GatewayErrorKind, msg string, err error) *GatewayError {
	return &GatewayError{Kind: kind, Message: msg, Err: err}
}

// ingestion messages shown to the user, keyed by UI language
var ingestionMessages = map[IngestionErrorKind]map[string]string{
	IngestTooLarge: {
		"en": "File is too large (Max 20MB)",
		"zh": "文件过大 (最大 20MB)",
	},
	IngestExtractionFailed: {
		"en": "Failed to read Word document.",
		"zh": "无法读取 Word 文档。",
	},
	IngestUnsupportedFormat: {
		"en": "File type not supported",
		"zh": "不支持的文件类型",
	},
}

// UserMessage resolves a localized message for an ingestion failure.
// Unknown errors and languages fall back to a generic English message.
func UserMessage(err error, lang string) string {
	if lang != "zh" {
		lang = "en"
	}
	if ie, ok := err.(*IngestionError); ok {
		if byLang, ok := ingestionMessages[ie.Kind]; ok {
			return byLang[lang]
		}
	}
	if lang == "zh" {
		return "文件处理失败，请重试。"
	}
	return "Failed to process file. Please try again."
}
