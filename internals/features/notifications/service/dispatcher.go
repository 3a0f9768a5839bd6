// file: internals/features/notifications/service/dispatcher.go
package service

import "log"

// Dispatcher adalah kontrak pengiriman notifikasi ke kontak sekolah.
// Pemanggil (workflow laporan) memperlakukannya fire-and-forget:
// gagal kirim TIDAK boleh menggagalkan operasi utamanya.
type Dispatcher interface {
	QueueOrSend(recipient, subject, textBody, htmlBody string) bool
}

// LogDispatcher menulis notifikasi ke log aplikasi.
// Dipakai di dev/test dan sebagai fallback kalau backend email belum di-set.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher { return &LogDispatcher{} }

func (d *LogDispatcher) QueueOrSend(recipient, subject, textBody, htmlBody string) bool {
	if recipient == "" {
		return false
	}
	log.Printf("[NOTIF] to=%s subject=%q body=%q", recipient, subject, textBody)
	return true
}
