package api

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

const (
	// DefaultObjectName is the name every scenario creates objects with.
	DefaultObjectName = "NewObject"
	// UpdatedObjectName is the name scenarios update objects to.
	UpdatedObjectName = "UpdatedObject"
)

func generateRandomName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// ObjectPayloadBuilder builds object payloads for testing.
type ObjectPayloadBuilder struct {
	object Object
}

// NewObjectPayload creates a builder with the default creation payload.
func NewObjectPayload() *ObjectPayloadBuilder {
	return &ObjectPayloadBuilder{
		object: Object{
			Name: DefaultObjectName,
			Data: map[string]interface{}{
				"Generation": "4th",
				"Price":      519.99,
				"Capacity":   "64 GB",
			},
		},
	}
}

// NewUpdatePayload creates a builder with the default update payload.
func NewUpdatePayload() *ObjectPayloadBuilder {
	return &ObjectPayloadBuilder{
		object: Object{
			Name: UpdatedObjectName,
			Data: map[string]interface{}{
				"color":      "Yellow",
				"Generation": "4th",
				"Price":      579.99,
				"Capacity":   "128 GB",
			},
		},
	}
}

// WithName sets the object name.
func (b *ObjectPayloadBuilder) WithName(name string) *ObjectPayloadBuilder {
	b.object.Name = name
	return b
}

// WithUniqueName sets a random name with the given prefix.
func (b *ObjectPayloadBuilder) WithUniqueName(prefix string) *ObjectPayloadBuilder {
	b.object.Name = generateRandomName(prefix)
	return b
}

// WithData sets a single data attribute.
func (b *ObjectPayloadBuilder) WithData(key string, value interface{}) *ObjectPayloadBuilder {
	if b.object.Data == nil {
		b.object.Data = map[string]interface{}{}
	}

	b.object.Data[key] = value

	return b
}

// WithoutData removes the data attribute entirely.
func (b *ObjectPayloadBuilder) WithoutData() *ObjectPayloadBuilder {
	b.object.Data = nil
	return b
}

// Build returns a copy of the payload, so a builder may be reused.
func (b *ObjectPayloadBuilder) Build() Object {
	object := b.object
	object.Data = maps.Clone(b.object.Data)

	return object
}
