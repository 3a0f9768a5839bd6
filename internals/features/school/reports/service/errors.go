// file: internals/features/school/reports/service/errors.go
package service

import (
	"fmt"
	"strings"
)

/*
Taksonomi error inti:
  - precondition  → *fiber.Error (status salah, laporan tidak editable,
    remarks kosong); ditolak SEBELUM ada tulis apa pun.
  - validasi      → RowValidationErrors / ReadinessError; dikumpulkan per
    entitas pelanggar dan dikembalikan semua, bukan cuma yang pertama.
  - resolusi      → *fiber.Error 404 (target partial-save tidak ketemu).
  - side effect   → di-swallow di boundary notifikasi, tidak pernah naik.
*/

// RowValidationError = satu baris yang melanggar invariant agregat:
// jumlah kategori harus sama persis dengan total populasi baris.
type RowValidationError struct {
	Key   string `json:"key"` // mis. "kelas 7 / MTK" atau "literasi kelas 3"
	Sum   int    `json:"sum"`
	Total int    `json:"total"`
}

func (e RowValidationError) Error() string {
	return fmt.Sprintf("baris %s: jumlah kategori %d tidak sama dengan total %d", e.Key, e.Sum, e.Total)
}

// RowValidationErrors mengumpulkan semua pelanggaran satu kali save.
type RowValidationErrors []RowValidationError

func (e RowValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, it := range e {
		msgs = append(msgs, it.Error())
	}
	return strings.Join(msgs, "; ")
}

// FieldErrors menurunkan map errors-per-key untuk response 422.
func (e RowValidationErrors) FieldErrors() map[string][]string {
	out := map[string][]string{}
	for _, it := range e {
		out[it.Key] = append(out[it.Key], it.Error())
	}
	return out
}

// ReadinessProblem = satu grouping (proyek) yang belum siap submit.
type ReadinessProblem struct {
	ProjectID string `json:"project_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Reason    string `json:"reason"`
}

// ReadinessError menolak submit: daftar SEMUA proyek bermasalah.
type ReadinessError struct {
	Problems []ReadinessProblem `json:"problems"`
}

func (e *ReadinessError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Title != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", p.Title, p.Reason))
		} else {
			msgs = append(msgs, p.Reason)
		}
	}
	return strings.Join(msgs, "; ")
}

// FieldErrors menurunkan map errors-per-proyek untuk response 422.
func (e *ReadinessError) FieldErrors() map[string][]string {
	out := map[string][]string{}
	for _, p := range e.Problems {
		key := p.Title
		if key == "" {
			key = "proyek"
		}
		out[key] = append(out[key], p.Reason)
	}
	return out
}
