package domain

import "context"

// VectorEncoder converts texts into fixed-dimension embedding vectors.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}
