package services

import "context"

// Uploader is the slice of blob storage the services need. Satisfied
// by *utils.R2Client; tests substitute a fake.
type Uploader interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
}
