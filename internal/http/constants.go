package http

const (
	KeyHeaderContentType   = "Content-Type"
	KeyHeaderRequestID     = "X-Request-Id"
	ValueHeaderJson        = "application/json"
	KeyHeaderAuthorization = "Authorization"
)
