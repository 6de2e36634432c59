package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK               Code = "OK"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeSlotConflict     Code = "SLOT_CONFLICT"
	CodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	CodeAlreadyEquipped  Code = "ALREADY_EQUIPPED"
	CodeStorage          Code = "STORAGE"
	CodeCanceled         Code = "CANCELED"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
	CodeUnimplemented    Code = "UNIMPLEMENTED"
	CodeUnavailable      Code = "UNAVAILABLE"
	CodeInternal         Code = "INTERNAL"
)

// codeInfo pairs the transport statuses for a code.
type codeInfo struct {
	http int
	grpc codes.Code
}

// Storage failures surface as plain internal errors on both transports.
var codeTable = map[Code]codeInfo{
	CodeOK:               {http.StatusOK, codes.OK},
	CodeInvalidArgument:  {http.StatusBadRequest, codes.InvalidArgument},
	CodeNotFound:         {http.StatusNotFound, codes.NotFound},
	CodeSlotConflict:     {http.StatusConflict, codes.FailedPrecondition},
	CodeCapacityExceeded: {http.StatusConflict, codes.ResourceExhausted},
	CodeAlreadyEquipped:  {http.StatusConflict, codes.AlreadyExists},
	CodeStorage:          {http.StatusInternalServerError, codes.Internal},
	CodeCanceled:         {http.StatusRequestTimeout, codes.Canceled},
	CodeDeadlineExceeded: {http.StatusGatewayTimeout, codes.DeadlineExceeded},
	CodeUnimplemented:    {http.StatusNotImplemented, codes.Unimplemented},
	CodeUnavailable:      {http.StatusServiceUnavailable, codes.Unavailable},
	CodeInternal:         {http.StatusInternalServerError, codes.Internal},
}

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// HTTPStatus returns the corresponding HTTP status code
func (c Code) HTTPStatus() int {
	if info, ok := codeTable[c]; ok {
		return info.http
	}
	return http.StatusInternalServerError
}

// GRPCCode returns the corresponding gRPC code
func (c Code) GRPCCode() codes.Code {
	if info, ok := codeTable[c]; ok {
		return info.grpc
	}
	return codes.Unknown
}

// IsKnown reports whether c is one of the codes above.
func (c Code) IsKnown() bool {
	_, ok := codeTable[c]
	return ok
}

// codeFromGRPC maps a bare gRPC status back to a code when no detail says otherwise.
func codeFromGRPC(grpcCode codes.Code) Code {
	switch grpcCode {
	case codes.OK:
		return CodeOK
	case codes.InvalidArgument, codes.OutOfRange:
		return CodeInvalidArgument
	case codes.NotFound:
		return CodeNotFound
	case codes.FailedPrecondition:
		return CodeSlotConflict
	case codes.ResourceExhausted:
		return CodeCapacityExceeded
	case codes.AlreadyExists:
		return CodeAlreadyEquipped
	case codes.Canceled:
		return CodeCanceled
	case codes.DeadlineExceeded:
		return CodeDeadlineExceeded
	case codes.Unimplemented:
		return CodeUnimplemented
	case codes.Unavailable:
		return CodeUnavailable
	default:
		return CodeInternal
	}
}
