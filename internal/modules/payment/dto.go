package payment

type PayosCallbackRequest struct {
	BookingID int64  `json:"bookingId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

type ConfirmResponse struct {
	OrderCode string `json:"order_code"`
	Status    string `json:"status"`
}
