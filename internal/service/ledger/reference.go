package ledger

import (
	"strings"

	"github.com/google/uuid"
)

const referenceLength = 20

// NewReference returns a movement reference: 20 uppercase hex characters
// drawn from a v4 UUID. Collisions are astronomically unlikely, and the
// unique constraint on the reference column catches the rest.
func NewReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:referenceLength])
}
