package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"crochet-studio/internal/crochet/render"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage складывает выгрузки по каталогам проектов:
// <root>/<project>/pattern.<ext>.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

// ProjectDir возвращает каталог проекта. Имя очищается от разделителей пути.
func (s *FileStorage) ProjectDir(project string) string {
	return filepath.Join(s.root, safeName(project))
}

func (s *FileStorage) ExportPath(project string, f render.Format) string {
	return filepath.Join(s.ProjectDir(project), "pattern"+f.Extension)
}

func (s *FileStorage) EnsureDir(project string) error {
	if err := os.MkdirAll(s.ProjectDir(project), 0o755); err != nil {
		return fmt.Errorf("mkdir project dir: %w", err)
	}
	return nil
}

// SaveExport пишет выгрузку и возвращает путь к файлу.
func (s *FileStorage) SaveExport(project string, f render.Format, data []byte) (string, error) {
	if err := s.EnsureDir(project); err != nil {
		return "", err
	}
	target := s.ExportPath(project, f)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return target, nil
}

// ListExports перечисляет файлы выгрузок проекта.
func (s *FileStorage) ListExports(project string) ([]string, error) {
	entries, err := os.ReadDir(s.ProjectDir(project))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read project dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func safeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, ".")
	if name == "" {
		return "untitled"
	}
	return name
}
