package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldUpdateID = "update_id"
	FieldSenderID = "sender_id"
	FieldChatID   = "chat_id"
	FieldCommand  = "command"
	FieldCategory = "category"
	FieldAmount   = "amount"
	FieldRowRef   = "row_ref"
	FieldBackend  = "backend"
)

// Components defines standard component names.
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentDispatcher = "dispatcher"
	ComponentLedger     = "ledger"
	ComponentTelegram   = "telegram"
	ComponentDedup      = "dedup"
	ComponentBackend    = "backend"
)
