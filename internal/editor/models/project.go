package models

import "crochet-studio/internal/crochet/pattern"

// ============================================================
// Project Model
// ============================================================

// Project: именованный сохранённый узор.
type Project struct {
	Name      string         `json:"name"`
	Rings     []pattern.Ring `json:"rings"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// ProjectInfo: строка списка проектов, без колец.
type ProjectInfo struct {
	Name      string `json:"name"`
	RingCount int    `json:"ring_count"`
	UpdatedAt string `json:"updated_at"`
}
