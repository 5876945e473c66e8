package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// DecodeAll drains the cursor into a slice. An empty result is an empty slice, never nil, so that
// it serialises as [] rather than null.
func DecodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	results := []T{}

	for cursor.Next(ctx) {
		var result T
		if err := cursor.Decode(&result); err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
