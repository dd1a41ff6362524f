package ratelimit

import "github.com/codegoddy/skincare/internal/domain/identity/model"

// Key computes the partition key consumed by the request limiter: the
// subject id when an identity is attached to the request, else the caller's
// network origin. Keeping this separate from the counting mechanism lets
// the strategy be tested on its own.
func Key(id *model.Identity, remoteAddr string) string {
	if id != nil && id.SubjectID != "" {
		return "user:" + id.SubjectID
	}
	return remoteAddr
}
