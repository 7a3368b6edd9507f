package log

// Common field names for structured logging
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
	FieldUID        = "uid"
	FieldSource     = "source"
	FieldRowCount   = "row_count"
	FieldEntryID    = "entry_id"
	FieldAmount     = "amount"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentSession  = "session"
	ComponentDocstore = "docstore"
	ComponentIdentity = "identity"
	ComponentBank     = "bank"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentStorage  = "storage"
	ComponentCache    = "cache"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpRefresh  = "refresh"
	OpCreate   = "create"
	OpQuery    = "query"
	OpSignIn   = "sign_in"
	OpSignOut  = "sign_out"
	OpMirror   = "mirror"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
