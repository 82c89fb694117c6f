package reg

import (
	"github.com/joshuapare/appxkit/pkg/types"
)

// Win32 status codes returned by the registry API.
const (
	statusFileNotFound     = 2
	statusPathNotFound     = 3
	statusAccessDenied     = 5
	statusInvalidParameter = 87
	statusMoreData         = 234
	statusNoMoreItems      = 259
	statusDatatypeMismatch = 1629
	statusUnsupportedType  = 1630
)

// classifyStatus maps a non-zero Win32 status to the error taxonomy.
// cause is kept for Unwrap.
func classifyStatus(op string, code uint32, cause error) error {
	switch code {
	case statusNoMoreItems:
		return ErrNoMoreItems
	case statusFileNotFound, statusPathNotFound:
		return &types.Error{Kind: types.ErrKindNotFound, Op: op, Err: cause}
	case statusAccessDenied:
		return &types.Error{Kind: types.ErrKindAccessDenied, Op: op, Err: cause}
	case statusMoreData:
		return &types.Error{Kind: types.ErrKindBufferTooSmall, Op: op, Err: cause}
	case statusDatatypeMismatch, statusUnsupportedType:
		return &types.Error{Kind: types.ErrKindTypeMismatch, Op: op, Err: cause}
	case statusInvalidParameter:
		return &types.Error{Kind: types.ErrKindInvalidArgument, Op: op, Err: cause}
	default:
		return types.Errorf(types.ErrKindUnknown, op, cause, "status %d", code)
	}
}
