package handlers

import "github.com/emberhill/storefront/pkg/response"

// RespOK is the concrete envelope swag renders for 200 responses; the
// generic response.APIResponse cannot appear in annotations directly.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    any                      `json:"data"`
}
