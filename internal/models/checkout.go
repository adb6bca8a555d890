package models

type StartCheckoutRequest struct {
	Origin   CheckoutOrigin `json:"origin" validate:"required,oneof=cart design"`
	DesignID string         `json:"design_id,omitempty" validate:"omitempty,uuid"`
}

type SelectShippingMethodRequest struct {
	MethodID string `json:"method_id" validate:"required,oneof=standard express premium"`
}

type ApplyPromoRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}
