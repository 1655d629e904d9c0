package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldChannel         = "channel"
	FieldCount           = "count"
	FieldDealID          = "deal-id"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldMessageID       = "message-id"
	FieldMode            = "mode"
	FieldOperator        = "operator"
	FieldProductID       = "product-id"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldRoute           = "route"
	FieldScanRunID       = "scan-run-id"
	FieldScore           = "score"
	FieldSource          = "source"
	FieldStack           = "stack"
	FieldStatus          = "status"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
)
