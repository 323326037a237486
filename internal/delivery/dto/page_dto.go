package dto

import "io"

// FileUpload is an optional file taken from a multipart form. Limit is the
// largest accepted Size; zero means unlimited.
type FileUpload struct {
	Filename string
	Size     int64
	Limit    int64
	Content  io.Reader
}

// FormPage is the data context of every add/edit form: the submitted values
// and the messages keyed by form field name. "general" holds the form-wide message.
type FormPage struct {
	ID      string
	Errors  map[string]string
	Data    interface{}
	Choices interface{}
	Image   string
}

type ErrorPage struct {
	Message string
}

// RecordListPage adds the empty-state message to a record list.
type RecordListPage struct {
	*RecordListResponse
	Message string
}
