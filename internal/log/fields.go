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

	FieldTransactionID = "id"
	FieldKind          = "kind"
	FieldCategory      = "category"
	FieldAmountCents   = "amount_cents"
	FieldOccurredOn    = "occurred_on"
	FieldWindowFrom    = "from"
	FieldWindowTo      = "to"
	FieldMode          = "mode"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentImport  = "import"
	ComponentSummary = "summary"
)

// Standard operation names.
const (
	OpCreate   = "create"
	OpList     = "list"
	OpDelete   = "delete"
	OpSummary  = "summary"
	OpExport   = "export"
	OpImport   = "import"
	OpMirror   = "mirror"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
