package extractdto

import "github.com/awmpietro/golang-vcd-transaction-case/internal/app"

type ExtractRequest struct {
	ConfigYAML string  `json:"config_yaml"`
	Trace      string  `json:"trace"`
	Until      *uint64 `json:"until,omitempty"`
	Debug      bool    `json:"debug,omitempty"`
}

func (r ExtractRequest) App() app.ExtractRequest {
	return app.ExtractRequest{
		ConfigYAML: r.ConfigYAML,
		Trace:      r.Trace,
		Until:      r.Until,
		Debug:      r.Debug,
	}
}

type ExtractResponse = app.ExtractResult

// ErrorBody is the JSON answer for every rejected request. Summary is set
// when the trace failed part way through.
func ErrorBody(msg string, err error, partial *app.ExtractResult) map[string]any {
	body := map[string]any{
		"error":   msg,
		"details": err.Error(),
	}
	if partial != nil && partial.Summary != nil {
		body["summary"] = partial.Summary
		body["records"] = partial.Records
	}
	return body
}
