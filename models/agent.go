package models

// ResultKind classifies the outcome of an agent call.
type ResultKind string

const (
	KindOK            ResultKind = "ok"
	KindInputError    ResultKind = "input_error"
	KindNotFound      ResultKind = "not_found"
	KindParseError    ResultKind = "parse_error"
	KindUnavailable   ResultKind = "unavailable"
	KindDeliveryError ResultKind = "delivery_error"
	KindInternalError ResultKind = "internal_error"
)

// AgentResult is what every handler behind the intent router returns. Handlers never
// surface raw errors; the kind tells the caller what went wrong.
type AgentResult struct {
	Success bool        `json:"success"`
	Answer  string      `json:"answer"`
	Kind    ResultKind  `json:"kind"`
	Data    interface{} `json:"data,omitempty"`
}

func Ok(answer string, data interface{}) AgentResult {
	return AgentResult{Success: true, Answer: answer, Kind: KindOK, Data: data}
}

func Fail(kind ResultKind, answer string) AgentResult {
	return AgentResult{Success: false, Answer: answer, Kind: kind}
}

func (r AgentResult) WithData(data interface{}) AgentResult {
	r.Data = data
	return r
}

const InternalErrorAnswer = "I apologize, but I encountered an error processing your request. Please try again."
