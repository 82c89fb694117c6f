package reg

import (
	"runtime"

	"github.com/joshuapare/appxkit/pkg/types"
)

type unsupportedStore struct{}

// Unsupported returns a Store whose every operation fails with
// types.ErrUnsupported. It is Native() on platforms without a registry.
func Unsupported() Store { return unsupportedStore{} }

func (unsupportedStore) OpenRoot(root Root, _ []uint16, _ Options, _ Access) (Handle, error) {
	return nil, types.Errorf(types.ErrKindUnsupported, "OpenRoot", nil,
		"%s: no registry on %s", root, runtime.GOOS)
}
