package models

const (
	MsgUnauthorized     = "Unauthorized"
	MsgUserNotFound     = "User not found"
	MsgArticleNotFound  = "Article not found"
	MsgForbidden        = "Forbidden"
	MsgPublishForbidden = "You don't have permission to publish articles"
	MsgCreateFailed     = "Failed to create article"
	MsgUpdateFailed     = "Failed to update article"
	MsgDeleteFailed     = "Failed to delete article"
	MsgFetchFailed      = "Failed to fetch article"
	MsgListFailed       = "Failed to fetch articles"
)

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

// ErrorIdentityUnavailable means the session is valid but no profile could be resolved.
type ErrorIdentityUnavailable struct {
	Message string
	Err     error
}

func (e ErrorIdentityUnavailable) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e ErrorIdentityUnavailable) Unwrap() error { return e.Err }

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

// ErrorValidation holds per-field messages keyed by JSON field name.
type ErrorValidation struct {
	Message string
	Fields  map[string][]string
}

func (e ErrorValidation) Error() string { return e.Message }

type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e ErrorInternalServer) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e ErrorInternalServer) Unwrap() error { return e.Err }
