package osal

type (
	// Object is implemented by every stateful type in this package.
	//
	// IsConstructed reports whether construction fully succeeded, which is
	// only the case if every owned or borrowed dependency also reports true.
	// An object that is not constructed must not be trusted: its operations
	// are no-ops, returning a failure indicator.
	Object interface {
		IsConstructed() bool
	}

	// constructed is embedded to implement Object. It is written by the
	// owning constructor (and teardown), before the object is shared.
	constructed struct {
		ok bool
	}
)

// IsConstructed implements Object.
func (x *constructed) IsConstructed() bool {
	return x != nil && x.ok
}

func (x *constructed) setConstructed(ok bool) {
	x.ok = ok
}

// allConstructed is the conjunction used by constructors, nil objects are
// treated as not constructed.
func allConstructed(objects ...Object) bool {
	for _, o := range objects {
		if o == nil || !o.IsConstructed() {
			return false
		}
	}
	return true
}
