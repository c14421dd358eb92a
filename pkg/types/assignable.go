package types

// IsAssignable reports whether a value of type source can occupy a slot
// of type target. isTypeScript selects the JavaScript-mode relaxation
// that treats undefined as assignable to any target.
func IsAssignable(source, target Type, isTypeScript bool) bool {
	if IsAny(source) || IsAny(target) {
		return true
	}

	if sp, ok := source.(Primitive); ok {
		if tp, ok := target.(Primitive); ok && sp.Name == tp.Name {
			return true
		}
	}
	if sn, ok := source.(Named); ok {
		if tn, ok := target.(Named); ok && sn.Name == tn.Name && sn.Kind == tn.Kind {
			return true
		}
	}

	if sp, ok := source.(Primitive); ok && sp.Name == Null.Name {
		if tp, ok := target.(Primitive); ok && isPrimitiveScalar(tp) {
			return false
		}
		return true
	}

	if sp, ok := source.(Primitive); ok && sp.Name == Undefined.Name {
		return !isTypeScript
	}

	if tu, ok := target.(Union); ok {
		for _, m := range tu.Members {
			if IsAssignable(source, m, isTypeScript) {
				return true
			}
		}
		return false
	}

	if si, ok := source.(Intersection); ok {
		for _, m := range si.Members {
			if !IsAssignable(m, target, isTypeScript) {
				return false
			}
		}
		return true
	}

	if sa, ok := source.(Array); ok {
		if ta, ok := target.(Array); ok {
			return IsAssignable(sa.Element, ta.Element, isTypeScript)
		}
		return false
	}

	sourceShape, sourceIsShape := shapeOf(source)
	targetShape, targetIsShape := shapeOf(target)
	if sourceIsShape && targetIsShape {
		return isStructurallyAssignable(sourceShape, targetShape, isTypeScript)
	}

	if sf, ok := source.(Function); ok {
		if tf, ok := target.(Function); ok {
			return isFunctionAssignable(sf, tf, isTypeScript)
		}
	}

	return false
}

func isPrimitiveScalar(p Primitive) bool {
	switch p.Name {
	case Number.Name, String.Name, Boolean.Name:
		return true
	}
	return false
}

// shapeOf extracts the structural Object shape backing a type, if any:
// an Object type directly, or a Named class/interface's declared shape.
func shapeOf(t Type) (Object, bool) {
	switch v := t.(type) {
	case Object:
		return v, true
	case Named:
		return v.Shape, true
	}
	return Object{}, false
}

// isStructurallyAssignable holds iff every required (non-optional)
// property on target appears on source with an assignable type.
func isStructurallyAssignable(source, target Object, isTypeScript bool) bool {
	for _, tp := range target.Props {
		sp, ok := source.Lookup(tp.Name)
		if !ok {
			if tp.Optional {
				continue
			}
			return false
		}
		if !IsAssignable(sp.Type, tp.Type, isTypeScript) {
			return false
		}
	}
	return true
}

// isFunctionAssignable holds iff arity matches, each target parameter
// type is assignable to the corresponding source parameter type
// (contravariance), and the source return type is assignable to the
// target return type (covariance).
func isFunctionAssignable(source, target Function, isTypeScript bool) bool {
	if len(source.Params) != len(target.Params) {
		return false
	}
	for i := range source.Params {
		if !IsAssignable(target.Params[i].Type, source.Params[i].Type, isTypeScript) {
			return false
		}
	}
	return IsAssignable(source.Return, target.Return, isTypeScript)
}
