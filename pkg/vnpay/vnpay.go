// Package vnpay implements the VNPay merchant integration: building signed
// payment URLs, verifying return callbacks and performing server-to-server
// status and refund requests.
//
// Amounts cross this package's API as whole VND. The provider's subunit
// convention (amount multiplied by 100) is applied exactly once when request
// parameters are built, and unapplied exactly once when provider responses
// are mapped back.
package vnpay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Version is the VNPay API version spoken by this client.
	Version = "2.1.0"

	commandPay     = "pay"
	commandQueryDR = "querydr"
	commandRefund  = "refund"

	currencyVND      = "VND"
	defaultLocale    = "vn"
	defaultOrderType = "billpayment"

	// createDateFormat is the provider's yyyyMMddHHmmss timestamp layout.
	createDateFormat = "20060102150405"

	// orderRefHexLen is the number of random hex characters appended to the
	// millisecond timestamp when generating an order reference.
	orderRefHexLen = 8

	// RefundFull and RefundPartial are the provider's vnp_TransactionType
	// values for refund requests.
	RefundFull    = "02"
	RefundPartial = "03"

	_defaultRequestTimeout = 15 * time.Second
	_defaultClientIP       = "127.0.0.1"
)

// ErrConfiguration marks a missing provider credential or endpoint. It is
// raised at construction time, never lazily on first use.
var ErrConfiguration = errors.New("vnpay: incomplete configuration")

// RequestError wraps a transport-level failure talking to the provider API,
// as opposed to a provider-side rejection carried in the response code. The
// client performs no retries; whether a status check is retried later is the
// caller's decision.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return "vnpay: provider request failed: " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Config carries the merchant credentials and provider endpoints.
type Config struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	APIURL     string
	ReturnURL  string
}

func (c Config) validate() error {
	switch {
	case c.TmnCode == "":
		return fmt.Errorf("%w: terminal code", ErrConfiguration)
	case c.HashSecret == "":
		return fmt.Errorf("%w: hash secret", ErrConfiguration)
	case c.PayURL == "":
		return fmt.Errorf("%w: pay url", ErrConfiguration)
	case c.APIURL == "":
		return fmt.Errorf("%w: api url", ErrConfiguration)
	case c.ReturnURL == "":
		return fmt.Errorf("%w: return url", ErrConfiguration)
	}

	return nil
}

// Client is a stateless VNPay API client. It holds read-only configuration
// only, so a single instance is safe for unbounded concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	loc        *time.Location
	now        func() time.Time
	serverIP   string
}

// New validates cfg and returns a ready client. A missing credential or
// endpoint fails here rather than producing malformed URLs later.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: _defaultRequestTimeout},
		loc:        time.Local,
		now:        time.Now,
		serverIP:   _defaultClientIP,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// PaymentRequest describes one checkout attempt. Amount is whole VND.
type PaymentRequest struct {
	Amount    int64
	OrderInfo string
	OrderType string
	Locale    string
	BankCode  string
	ClientIP  string
}

// PaymentURL is the result of building a signed payment redirect.
type PaymentURL struct {
	URL     string
	OrderID string
}

// CallbackResult is the outcome of verifying a return callback. Successful
// is never true when ValidSignature is false: a forged callback carrying a
// success code must not be honored.
type CallbackResult struct {
	ValidSignature bool
	Successful     bool
	ResponseCode   string
	OrderID        string
	Amount         int64
	BankCode       string
	BankTranNo     string
	CardType       string
	PayDate        string
	TransactionNo  string
	Message        string
}

// TransactionStatus is the mapped result of a querydr request.
type TransactionStatus struct {
	Successful        bool
	ResponseCode      string
	Message           string
	TransactionStatus string
	OrderID           string
	Amount            int64
	BankCode          string
	BankTranNo        string
	CardType          string
	PayDate           string
	TransactionNo     string
}

// RefundRequest describes a refund against a completed transaction. The
// caller is responsible for ensuring the original transaction is in a
// terminal success state and that Amount does not exceed OriginalAmount;
// this client only executes the provider call.
type RefundRequest struct {
	OrderID        string
	Amount         int64
	OriginalAmount int64
	TransactionNo  string
	CreatedBy      string
}

// RefundResult is the mapped result of a refund request.
type RefundResult struct {
	Successful      bool
	ResponseCode    string
	Message         string
	OrderID         string
	Amount          int64
	TransactionNo   string
	TransactionType string
}

// BuildPaymentURL assembles, signs and serializes a payment redirect URL and
// returns it together with the freshly generated order reference.
//
// The order reference is epoch milliseconds plus 8 random hex characters.
// Collisions are negligible at that entropy but not impossible; callers that
// need strict uniqueness must check against their persisted orders.
func (c *Client) BuildPaymentURL(req PaymentRequest) (PaymentURL, error) {
	if req.OrderInfo == "" {
		return PaymentURL{}, errors.New("vnpay: order info is required")
	}

	orderID := c.generateOrderID()

	params := map[string]string{
		"vnp_Version":    Version,
		"vnp_Command":    commandPay,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Locale":     defaultString(req.Locale, defaultLocale),
		"vnp_CurrCode":   currencyVND,
		"vnp_TxnRef":     orderID,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  defaultString(req.OrderType, defaultOrderType),
		"vnp_Amount":     formatAmount(req.Amount),
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     defaultString(req.ClientIP, c.serverIP),
		"vnp_CreateDate": c.createDate(),
	}

	// Optional field is omitted entirely, not sent as an empty string.
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	params["vnp_SecureHash"] = Sign(c.cfg.HashSecret, params)

	return PaymentURL{
		URL:     c.cfg.PayURL + "?" + encodeQuery(params),
		OrderID: orderID,
	}, nil
}

// VerifyReturn recomputes the signature over the inbound callback parameters
// and classifies the response code. The received hash fields are excluded
// from the recomputation. An invalid signature short-circuits: the response
// code is still reported but never interpreted as success.
func (c *Client) VerifyReturn(query map[string]string) CallbackResult {
	receivedHash := query["vnp_SecureHash"]

	params := make(map[string]string, len(query))

	for k, v := range query {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}

		params[k] = v
	}

	res := CallbackResult{
		ResponseCode:  query["vnp_ResponseCode"],
		OrderID:       query["vnp_TxnRef"],
		Amount:        parseAmount(query["vnp_Amount"]),
		BankCode:      query["vnp_BankCode"],
		BankTranNo:    query["vnp_BankTranNo"],
		CardType:      query["vnp_CardType"],
		PayDate:       query["vnp_PayDate"],
		TransactionNo: query["vnp_TransactionNo"],
	}

	if receivedHash == "" || !signatureEqual(receivedHash, Sign(c.cfg.HashSecret, params)) {
		res.Message = "Invalid signature"

		return res
	}

	res.ValidSignature = true
	res.Successful = res.ResponseCode == ResponseCodeSuccess
	res.Message = ResponseMessage(res.ResponseCode)

	return res
}

// QueryTransaction performs a querydr request for the given order reference
// and returns the provider's view of the transaction.
func (c *Client) QueryTransaction(ctx context.Context, orderID string, amount int64) (TransactionStatus, error) {
	createDate := c.createDate()

	params := map[string]string{
		"vnp_Version":         Version,
		"vnp_Command":         commandQueryDR,
		"vnp_TmnCode":         c.cfg.TmnCode,
		"vnp_TxnRef":          orderID,
		"vnp_OrderInfo":       "Query transaction " + orderID,
		"vnp_Amount":          formatAmount(amount),
		"vnp_TransactionDate": createDate,
		"vnp_CreateDate":      createDate,
		"vnp_IpAddr":          c.serverIP,
	}

	resp, err := c.call(ctx, params)
	if err != nil {
		return TransactionStatus{}, err
	}

	return TransactionStatus{
		Successful:        resp.ResponseCode == ResponseCodeSuccess,
		ResponseCode:      resp.ResponseCode,
		Message:           ResponseMessage(resp.ResponseCode),
		TransactionStatus: resp.TransactionStatus,
		OrderID:           resp.TxnRef,
		Amount:            parseAmount(resp.Amount),
		BankCode:          resp.BankCode,
		BankTranNo:        resp.BankTranNo,
		CardType:          resp.CardType,
		PayDate:           resp.PayDate,
		TransactionNo:     resp.TransactionNo,
	}, nil
}

// Refund submits a refund request against a previously completed
// transaction. The transaction type is derived from the amounts: refunding
// less than the original amount is a partial refund.
func (c *Client) Refund(ctx context.Context, req RefundRequest) (RefundResult, error) {
	createDate := c.createDate()
	txnType := RefundTransactionType(req.Amount, req.OriginalAmount)

	params := map[string]string{
		"vnp_Version":         Version,
		"vnp_Command":         commandRefund,
		"vnp_TmnCode":         c.cfg.TmnCode,
		"vnp_TxnRef":          "RF" + req.OrderID,
		"vnp_OrderInfo":       "Refund for order " + req.OrderID,
		"vnp_Amount":          formatAmount(req.Amount),
		"vnp_TransactionNo":   req.TransactionNo,
		"vnp_TransactionType": txnType,
		"vnp_TransactionDate": createDate,
		"vnp_CreateDate":      createDate,
		"vnp_IpAddr":          c.serverIP,
		"vnp_CreateBy":        defaultString(req.CreatedBy, "system"),
	}

	resp, err := c.call(ctx, params)
	if err != nil {
		return RefundResult{}, err
	}

	return RefundResult{
		Successful:      resp.ResponseCode == ResponseCodeSuccess,
		ResponseCode:    resp.ResponseCode,
		Message:         ResponseMessage(resp.ResponseCode),
		OrderID:         resp.TxnRef,
		Amount:          parseAmount(resp.Amount),
		TransactionNo:   resp.TransactionNo,
		TransactionType: txnType,
	}, nil
}

// RefundTransactionType selects the provider transaction type for a refund:
// partial when the refunded amount is below the original, full otherwise.
func RefundTransactionType(amount, originalAmount int64) string {
	if amount < originalAmount {
		return RefundPartial
	}

	return RefundFull
}

// apiResponse is the provider's JSON response body for querydr and refund
// requests. All fields are documented as strings.
type apiResponse struct {
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	TxnRef            string `json:"vnp_TxnRef"`
	Amount            string `json:"vnp_Amount"`
	BankCode          string `json:"vnp_BankCode"`
	BankTranNo        string `json:"vnp_BankTranNo"`
	CardType          string `json:"vnp_CardType"`
	PayDate           string `json:"vnp_PayDate"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
}

// call signs params, submits them as a form-encoded POST to the provider API
// endpoint and decodes the JSON response.
func (c *Client) call(ctx context.Context, params map[string]string) (apiResponse, error) {
	params["vnp_SecureHash"] = Sign(c.cfg.HashSecret, params)

	body := strings.NewReader(encodeQuery(params))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, body)
	if err != nil {
		return apiResponse{}, &RequestError{Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apiResponse{}, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiResponse{}, &RequestError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return apiResponse{}, &RequestError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return decoded, nil
}

func (c *Client) createDate() string {
	return c.now().In(c.loc).Format(createDateFormat)
}

func (c *Client) generateOrderID() string {
	hexPart := strings.ReplaceAll(uuid.NewString(), "-", "")[:orderRefHexLen]

	return strconv.FormatInt(c.now().UnixMilli(), 10) + hexPart
}

// encodeQuery serializes params as a URL-encoded query string with keys in
// ascending order. Unlike the signing string, transmitted values are encoded.
func encodeQuery(params map[string]string) string {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}

	return values.Encode()
}

func formatAmount(vnd int64) string {
	return strconv.FormatInt(vnd*100, 10)
}

func parseAmount(subunits string) int64 {
	n, err := strconv.ParseInt(subunits, 10, 64)
	if err != nil {
		return 0
	}

	return n / 100
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
