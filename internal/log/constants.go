package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyConfig             = "config"
	KeySessionID          = "sessionId"
	KeyProductID          = "productId"
	KeyCheckoutState      = "checkoutState"
	KeyItemCount          = "itemCount"
	KeyCacheKey           = "cacheKey"
	KeyUsername           = "username"
	KeyToken              = "token"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestProcessedAt = "requestProcessedAt"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
)
