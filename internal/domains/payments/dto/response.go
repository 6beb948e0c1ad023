package dto

type CreatePaymentResponse struct {
	PaymentID  string `json:"payment_id"`
	OrderRef   string `json:"order_ref"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
	PaymentURL string `json:"payment_url"`
}

type PaymentStatusResponse struct {
	PaymentID     string `json:"payment_id"`
	InvoiceID     string `json:"invoice_id,omitempty"`
	OrderRef      string `json:"order_ref"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Method        string `json:"method"`
	ResponseCode  string `json:"response_code,omitempty"`
	Message       string `json:"message,omitempty"`
	BankCode      string `json:"bank_code,omitempty"`
	CardType      string `json:"card_type,omitempty"`
	TransactionNo string `json:"transaction_no,omitempty"`
	PayDate       string `json:"pay_date,omitempty"`
	Refunded      bool   `json:"refunded"`
	RefundedAmt   int64  `json:"refunded_amount,omitempty"`
}

type RefundPaymentResponse struct {
	PaymentID     string `json:"payment_id"`
	OrderRef      string `json:"order_ref"`
	Amount        int64  `json:"amount"`
	Type          string `json:"type"`
	ResponseCode  string `json:"response_code"`
	TransactionNo string `json:"transaction_no,omitempty"`
}

// PaymentReturnResult carries the outcome of a gateway return so the
// handler can redirect the browser back to the frontend.
type PaymentReturnResult struct {
	RedirectURL string
	Successful  bool
}
