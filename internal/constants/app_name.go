package constants

const (
	AppMainCardshop   = "cardshop"
	AppShopService    = "shop-service"
	AppRelayService   = "relay-service"
	AppCatalogService = "catalog-service"

	AudienceAdmin = "admin"
)
