// Package paymentprovider содержит реквизиты платёжного шлюза и проверку
// подписи его webhook-уведомлений. Оплату завершает клиент напрямую со
// шлюзом: наружу отдаётся только публичный ключ, сервер исходящих
// запросов к шлюзу не делает.
package paymentprovider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Provider хранит ключи платёжного шлюза.
type Provider struct {
	keyID         string
	keySecret     string
	webhookSecret string
}

// New создаёт Provider с реквизитами шлюза.
func New(keyID, keySecret, webhookSecret string) *Provider {
	return &Provider{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// KeyID возвращает публичный ключ шлюза, который клиент использует
// для завершения оплаты.
func (p *Provider) KeyID() string {
	return p.keyID
}

// SignWebhook вычисляет HMAC-SHA256 подпись тела уведомления.
// Используется в тестах и при самопроверке.
func (p *Provider) SignWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(p.webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature проверяет подпись тела уведомления.
// Сравнение выполняется за постоянное время.
func (p *Provider) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := p.SignWebhook(body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
