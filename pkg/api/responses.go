package api

import "github.com/nulzo/formatapi/pkg/schema"

// ListResponse wraps collection endpoints.
type ListResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

// NewList returns a list response; a nil slice encodes as [].
func NewList[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Object: "list", Data: data}
}

// FormatResponse is returned by POST /v1/format.
type FormatResponse struct {
	Format    string `json:"format"`
	Extension string `json:"extension"`
	Content   string `json:"content"`
}

// OCRResponse is returned by POST /v1/ocr.
type OCRResponse struct {
	Models []string `json:"models"`
}

// VendorList is returned by GET /v1/vendors.
type VendorList = ListResponse[schema.VendorProfile]
