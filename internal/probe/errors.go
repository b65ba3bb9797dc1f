package probe

// Error types for every way a probe request can be rejected before any
// network I/O happens. All of them surface as 400 responses with the
// Error() text; none are retried.

type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return e.Name + " parameter is missing"
}

type UnknownModuleError struct {
	Name string
}

func (e *UnknownModuleError) Error() string {
	return "unknown module: " + e.Name
}

type BodyNotAllowedError struct {
	Method string
}

func (e *BodyNotAllowedError) Error() string {
	return "body is not allowed for GET or HEAD method"
}

type InvalidTargetSchemeError struct {
	Target string
}

func (e *InvalidTargetSchemeError) Error() string {
	return "target must be an http:// or https:// URL"
}

type TargetNotAllowedError struct {
	Target string
}

func (e *TargetNotAllowedError) Error() string {
	return "target is not allowed in probe config"
}

type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return "sorry, this only accept GET method"
}
