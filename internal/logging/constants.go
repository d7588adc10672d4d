package logging

// Field names shared across components so log output stays filterable.
const (
	FieldTransactionID = "transaction_id"
	FieldBudgetID      = "budget_id"
	FieldCategory      = "category"
	FieldCategoryKind  = "category_kind"
	FieldMonthYear     = "month_year"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldCount         = "count"
	FieldDuration      = "duration_ms"
	FieldFile          = "file_path"
	FieldStoreKey      = "store_key"
	FieldBackend       = "backend"
	FieldProvider      = "provider"
	FieldModel         = "model"
	FieldLanguages     = "languages"
	FieldComponent     = "component"
)
