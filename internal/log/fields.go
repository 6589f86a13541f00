package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldTransactionID = "transaction_id"
	FieldKind          = "kind"
	FieldDate          = "date"
	FieldAmount        = "amount"
	FieldDescription   = "description"
	FieldRecords       = "records"
	FieldPeriod        = "period"
	FieldRevision      = "revision"
	FieldBackend       = "backend"
	FieldPath          = "path"
	FieldEntries       = "entries"
	FieldExchange      = "exchange"
	FieldRoutingKey    = "routing_key"
	FieldMessageID     = "message_id"
	FieldSheetsRef     = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentLedger      = "ledger"
	ComponentPersistence = "persistence"
	ComponentStorage     = "storage"
	ComponentBackend     = "backend"
	ComponentReport      = "report"
	ComponentSheets      = "sheets"
	ComponentAMQP        = "amqp"
	ComponentCLI         = "cli"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpRead       = "read"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpList       = "list"
	OpSummary    = "summary"
	OpBeginEdit  = "begin_edit"
	OpCancelEdit = "cancel_edit"
	OpSetPeriod  = "set_period"
	OpSave       = "save"
	OpLoad       = "load"
	OpExport     = "export"
	OpPublish    = "publish"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id int64, kind, date, amount string) LogFields {
	f[FieldTransactionID] = id
	f[FieldKind] = kind
	f[FieldDate] = date
	f[FieldAmount] = amount
	return f
}

// WithRevision adds the ledger revision
func (f LogFields) WithRevision(rev uint64) LogFields {
	f[FieldRevision] = rev
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
