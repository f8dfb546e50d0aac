package response

// Envelope used by middleware rejections. Handlers use the fres
// envelope for success paths; this one carries a machine-readable code.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Error(code, message string, data any) Body {
	return Body{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
