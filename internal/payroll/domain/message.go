package domain

// Message is a diagnostic attached to a report. Warnings never stop computation.
type Message struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const LevelWarning = "WARNING"

const (
	CodeInvalidTimestamps     = "INVALID_TIMESTAMPS"
	CodeWorkingDaysMissing    = "WORKING_DAYS_MISSING"
	CodeTotalRowLowConfidence = "TOTAL_ROW_LOW_CONFIDENCE"
	CodePushSchemaAmbiguous   = "PUSH_SCHEMA_AMBIGUOUS"
	CodeDurationUnrecognized  = "DURATION_UNRECOGNIZED"
	CodeNoLeads               = "NO_LEADS"
)

// Warning builds a WARNING level message.
func Warning(code, message string) Message {
	return Message{Level: LevelWarning, Code: code, Message: message}
}
