package errors

// Convenience constructors for the pipeline error taxonomy.

// Metadata extraction errors

// MalformedDocument reports a source that does not start with a front matter
// opening delimiter.
func MalformedDocument(source string) *ForgeError {
	e := New(CategoryMetadata, SeverityFatal, "document does not start with a front matter block")
	e.Code = CodeMalformedDocument
	return e.WithContext("source", source)
}

// UnterminatedMetadata reports a front matter block with no closing delimiter.
func UnterminatedMetadata(source string) *ForgeError {
	e := New(CategoryMetadata, SeverityFatal, "front matter block is missing its closing delimiter")
	e.Code = CodeUnterminatedMetadata
	return e.WithContext("source", source)
}

// MissingRequiredField reports an absent required metadata field.
func MissingRequiredField(field, source string) *ForgeError {
	e := New(CategoryMetadata, SeverityFatal, "required front matter field missing")
	e.Code = CodeMissingRequiredField
	return e.WithContext("field", field).WithContext("source", source)
}

// UnparseableField reports a metadata line that is not a key/value form.
// Recovered locally: the field is dropped and the document still renders.
func UnparseableField(line int, text string) *ForgeError {
	e := New(CategoryMetadata, SeverityWarning, "front matter line is not a key/value field")
	e.Code = CodeUnparseableField
	return e.WithContext("line", line).WithContext("text", text)
}

// Directive expansion errors

// UnterminatedDirective reports an open directive marker with no matching close
// before end of input. Fatal: passing raw marker text through would corrupt output.
func UnterminatedDirective(name string, offset int, source string) *ForgeError {
	e := New(CategoryDirective, SeverityFatal, "directive is missing its close marker")
	e.Code = CodeUnterminatedDirective
	return e.WithContext("directive", name).
		WithContext("offset", offset).
		WithContext("source", source)
}

// Document construction errors

// InvalidDocument reports a document that failed validation, carrying the
// specific sub-reason.
func InvalidDocument(reason, source string) *ForgeError {
	e := New(CategoryDocument, SeverityFatal, "document failed validation")
	e.Code = CodeInvalidDocument
	return e.WithContext("reason", reason).WithContext("source", source)
}

// InvalidDocumentWrap wraps a cause (e.g. a date parse error) as InvalidDocument.
func InvalidDocumentWrap(cause error, reason, source string) *ForgeError {
	e := Wrap(cause, CategoryDocument, SeverityFatal, "document failed validation")
	e.Code = CodeInvalidDocument
	return e.WithContext("reason", reason).WithContext("source", source)
}

// Corpus errors

// DuplicateIdentifier reports a second, distinct source resolving to an
// identifier already held by the corpus. The first document is retained.
func DuplicateIdentifier(identifier, source, existingSource string) *ForgeError {
	e := New(CategoryCorpus, SeverityFatal, "identifier already owned by another source")
	e.Code = CodeDuplicateIdentifier
	return e.WithContext("identifier", identifier).
		WithContext("source", source).
		WithContext("existing_source", existingSource)
}

// Infrastructure errors

// ReadFailed reports a source file that could not be read.
func ReadFailed(path string, cause error) *ForgeError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "failed to read source").
		WithContext("path", path)
}

// ConfigInvalid reports a configuration validation failure.
func ConfigInvalid(field, reason string) *ForgeError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

// InternalError wraps an unexpected failure.
func InternalError(message string, cause error) *ForgeError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
