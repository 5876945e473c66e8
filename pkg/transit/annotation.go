package transit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const AnnotationVersion = "v1"

// Annotation is the single saved map design. Elements are opaque to the server.
type Annotation struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`

	Version   string        `bson:"version" json:"version"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
	Elements  []interface{} `bson:"elements" json:"elements"`
}
