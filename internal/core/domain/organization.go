package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// statementDescriptorMaxLen is the processor-imposed limit on statement
// descriptor suffixes.
const statementDescriptorMaxLen = 22

// Organization is the merchant entity customers belong to. Its display name
// appears in charge descriptions and bank statement descriptors.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// StatementDescriptor returns the suffix shown on the customer's bank
// statement: the organization slug uppercased and trimmed to the processor's
// length limit.
func (o *Organization) StatementDescriptor() string {
	descriptor := strings.ToUpper(o.Slug)
	if len(descriptor) > statementDescriptorMaxLen {
		descriptor = descriptor[:statementDescriptorMaxLen]
	}
	return descriptor
}
