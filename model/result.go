package model

import "fmt"

// QueryResult reports the outcome of a store or moderation operation.
// Expected failures (missing record, disconnected platform, rejected call)
// are reported through an unsuccessful result rather than an error so that
// command handlers can surface the message verbatim.
type QueryResult struct {
	Successful bool
	Message    string
}

func SuccessResult(format string, args ...any) QueryResult {
	return QueryResult{Successful: true, Message: fmt.Sprintf(format, args...)}
}

func ErrorResult(format string, args ...any) QueryResult {
	return QueryResult{Successful: false, Message: fmt.Sprintf(format, args...)}
}
