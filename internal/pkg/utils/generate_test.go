package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// BenchmarkGenerate генерации
func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		key := GenerateSecret()
		if key == "" {
			b.Fatalf("Ошибка при генерации ключа")
		}
	}
}

func TestGetFullURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/analyze", GetFullURL("http://localhost:8080", "analyze"))
	assert.Len(t, GenerateSecret(), 32)
}
