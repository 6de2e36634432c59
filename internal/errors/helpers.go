package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}

	return nil
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// Type checking helpers

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is a validation error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsSlotConflict checks if an error is a slot conflict
func IsSlotConflict(err error) bool {
	return GetCode(err) == CodeSlotConflict
}

// IsCapacityExceeded checks if an error is a capacity error
func IsCapacityExceeded(err error) bool {
	return GetCode(err) == CodeCapacityExceeded
}

// IsAlreadyEquipped checks if an error is an already equipped error
func IsAlreadyEquipped(err error) bool {
	return GetCode(err) == CodeAlreadyEquipped
}

// IsStorage checks if an error is a storage failure
func IsStorage(err error) bool {
	return GetCode(err) == CodeStorage
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsUnavailable checks if an error is an unavailable error
func IsUnavailable(err error) bool {
	return GetCode(err) == CodeUnavailable
}

// IsEquipRejection reports whether err is one of the equip-time invariant violations.
// State is left unchanged when one of these is returned.
func IsEquipRejection(err error) bool {
	switch GetCode(err) {
	case CodeSlotConflict, CodeCapacityExceeded, CodeAlreadyEquipped:
		return true
	default:
		return false
	}
}
