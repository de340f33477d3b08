package services

import (
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
)

// errorMessage returns the text shown to staff for err. Remote failures use
// the server's message or the per-operation fallback.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	if re, ok := adminapi.AsRemoteError(err); ok {
		return re.Message
	}
	return err.Error()
}
