// Пакет вспомогательных функций
package utils

import (
	"crypto/rand"
	"fmt"
	"log"
)

// GenerateSecret формирует случайный ключ подписи, если в конфигурации он не задан
func GenerateSecret() string {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		log.Printf("smth bad with generate %v", err)
	}
	return fmt.Sprintf("%X", b[0:])
}

// GetFullURL создает валидную полноценную ссылку из адреса и пути
func GetFullURL(baseURL string, path string) string {
	return fmt.Sprint(baseURL, "/", path)
}
