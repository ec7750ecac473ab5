package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string for user records. ULIDs sort by creation time
// and are safe as DynamoDB partition keys. Item ids are not ULIDs; they are
// sequential decimal strings assigned by the item service.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
