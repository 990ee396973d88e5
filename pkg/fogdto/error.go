package fogdto

// DomainError is a comparable error value, so package sentinels built from it work with errors.Is.
type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "fog chess error"
}
