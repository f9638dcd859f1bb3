package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichedText(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			name:   "both attributes",
			record: Record{ID: "f1", Text: "Sushi is a Japanese dish.", Region: "Japan", Type: "seafood"},
			want:   "Sushi is a Japanese dish. This food is popular in Japan. It is a type of seafood.",
		},
		{
			name:   "region only",
			record: Record{ID: "f2", Text: "Pizza.", Region: "Italy"},
			want:   "Pizza. This food is popular in Italy.",
		},
		{
			name:   "type only",
			record: Record{ID: "f3", Text: "Falafel.", Type: "street food"},
			want:   "Falafel. It is a type of street food.",
		},
		{
			name:   "neither",
			record: Record{ID: "f4", Text: "Poutine."},
			want:   "Poutine.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.EnrichedText())
		})
	}
}

func TestServiceError_Message(t *testing.T) {
	err := &ServiceError{Service: "embedding", Kind: KindTimeout, Err: errors.New("deadline exceeded")}
	assert.Equal(t, "embedding service timeout: deadline exceeded", err.Error())
}

func TestServiceError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &ServiceError{Service: "generation", Kind: KindUnreachable, Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestKindOf(t *testing.T) {
	err := &ServiceError{Service: "embedding", Kind: KindErrored, Err: errors.New("status 500")}

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindErrored, kind)

	// Still matchable through wrapping.
	wrapped := fmt.Errorf("embedding question: %w", err)
	kind, ok = KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindErrored, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "unreachable", KindUnreachable.String())
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "error", KindErrored.String())
}
