package errors

// Convenience constructors for common error patterns

// Config errors

func ConfigNotFound(path string) *DoxyfxError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func NewConfigError(message string, cause error) *DoxyfxError {
	return Wrap(cause, CategoryConfig, SeverityFatal, message)
}

// Conversion errors

func NewInputError(message string, cause error) *DoxyfxError {
	return Wrap(cause, CategoryInput, SeverityFatal, message)
}

func NewParseError(message string, cause error) *DoxyfxError {
	return Wrap(cause, CategoryParse, SeverityFatal, message)
}

func NewWriteError(message string, cause error) *DoxyfxError {
	return Wrap(cause, CategoryWrite, SeverityFatal, message)
}

func NewLinkError(message string, cause error) *DoxyfxError {
	return Wrap(cause, CategoryLink, SeverityFatal, message)
}

// Quality-check errors

func LintFailed(issues int) *DoxyfxError {
	return New(CategoryLint, SeverityError, "summary lint found unresolved cross-references").
		WithContext("issues", issues)
}

func GateFailed(errorCount, warningCount int) *DoxyfxError {
	return New(CategoryGate, SeverityError, "static analysis thresholds exceeded").
		WithContext("errors", errorCount).
		WithContext("warnings", warningCount)
}

func Internal(message string, cause error) *DoxyfxError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
