package style

import (
	"time"

	"github.com/google/uuid"
)

// Style is a persisted prompt-plus-reference-image pairing. The image
// itself lives beside the record as '<id>.png'; ImageURL is the path a
// client can fetch it from.
type Style struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (style Style) Identifier() uuid.UUID { return style.Id }
func (style Style) Created() time.Time    { return style.CreatedAt }
