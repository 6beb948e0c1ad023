package vnpay

// ResponseCodeSuccess is the only vnp_ResponseCode the provider documents as
// a successful transaction.
const ResponseCodeSuccess = "00"

// ResponseCodeUserCancelled is returned when the customer abandons the
// payment page. Pending payments with this code are not terminal failures.
const ResponseCodeUserCancelled = "24"

// responseMessages maps the provider-documented vnp_ResponseCode values to
// human-readable descriptions.
var responseMessages = map[string]string{
	"00": "Transaction successful",
	"01": "Transaction already exists",
	"02": "Invalid merchant (check the configured terminal code)",
	"03": "Malformed request data",
	"04": "Transaction initialization failed, website temporarily locked",
	"05": "Transaction failed: wrong password entered too many times",
	"06": "Transaction failed: wrong transaction OTP entered",
	"07": "Amount deducted, transaction suspected of fraud",
	"08": "Transaction failed: insufficient account balance",
	"09": "Transaction failed: card or account not registered for internet banking",
	"10": "Transaction failed: card or account information verified incorrectly more than 3 times",
	"11": "Transaction failed: payment window expired",
	"12": "Transaction failed: card or account is locked",
	"13": "Transaction failed: wrong transaction OTP entered",
	"24": "Transaction failed: cancelled by customer",
	"51": "Transaction failed: insufficient account balance",
	"65": "Transaction failed: daily transaction limit exceeded",
	"75": "Paying bank is under maintenance",
	"79": "Transaction failed: wrong payment password entered too many times",
	"99": "Other error",
}

// ResponseMessage resolves a vnp_ResponseCode to its documented description.
// Unlisted codes resolve to a generic message rather than an error: the
// provider reserves the right to add codes.
func ResponseMessage(code string) string {
	if msg, ok := responseMessages[code]; ok {
		return msg
	}

	return "Unknown error"
}
