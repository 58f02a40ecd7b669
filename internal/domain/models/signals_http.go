package models

// Requests for signal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalsRequest struct {
	Tier   string `query:"tier" json:"tier" default:"free" validate:"required"`
	UserID string `query:"user_id" json:"user_id"`
	Symbol string `query:"symbol" json:"symbol"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type EntitlementsRequest struct {
	Tier string `query:"tier" json:"tier" validate:"required"`
}

type UpgradeRequest struct {
	From string `query:"from" json:"from" validate:"required"`
	To   string `query:"to" json:"to" validate:"required"`
}
