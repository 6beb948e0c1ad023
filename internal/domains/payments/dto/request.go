package dto

type CreatePaymentRequest struct {
	Amount           int64  `json:"amount" validate:"required,numeric,min=1000" example:"500000"`
	OrderDescription string `json:"orderDescription" validate:"required,max=255" example:"Thanh toan hoa don thang 9"`
	InvoiceID        string `json:"invoiceId,omitempty" validate:"omitempty,len=24,hexadecimal" example:"66d1f2a4b3c9e8d7f6a5b4c3"`
	Language         string `json:"language,omitempty" validate:"omitempty,oneof=vn en" example:"vn"`
	BankCode         string `json:"bankCode,omitempty" validate:"omitempty,alphanum,max=20" example:"NCB"`
}

type RefundPaymentRequest struct {
	Amount int64  `json:"amount,omitempty" validate:"omitempty,numeric,min=1" example:"500000"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=255" example:"Tenant cancelled the booking"`
	Actor  string `json:"actor,omitempty" validate:"omitempty,max=64" example:"admin@rentora.io"`
}
