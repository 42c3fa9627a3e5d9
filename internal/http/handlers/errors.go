// Package handlers defines HTTP-layer error codes and validation categories.
//
// ErrCode* values travel in ErrorResponse.code. Type* values travel in
// ValidationDetail.type and let clients tell a duplicate key from a missing
// record without parsing the message.

package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
)

// Validation categories.
const (
	TypeDuplicate   = "duplicate"
	TypeNotFound    = "not founded"
	TypeMissing     = "value_error.missing"
	TypeInteger     = "type_error.integer"
	TypeString      = "type_error.str"
	TypeEnum        = "type_error.enum"
	TypeEmptyString = "value_error.any_str.min_length"
	TypeJSONDecode  = "value_error.jsondecode"
)

// Validation messages that are not derived from a service error.
const (
	msgFieldRequired = "field required"
	msgNotInteger    = "value is not a valid integer"
	msgNotString     = "str type expected"
	msgEmptyName     = "ensure this value has at least 1 characters"
	msgBadJSON       = "request body is not valid JSON"
	msgBadKind       = "value is not a valid enumeration member; permitted: 'terrier', 'bulldog', 'dalmatian'"
)
