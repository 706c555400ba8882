// Package export grava os relatórios exportados em disco
package export

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
)

// ReportWriter persiste um relatório exportado e retorna o caminho gerado
type ReportWriter interface {
	Write(file *domain.ReportExport) (string, error)
}

type fileWriter struct {
	fs  afero.Fs
	dir string
}

func NewFileWriter(dir string) ReportWriter {
	return NewFileWriterWithFs(afero.NewOsFs(), dir)
}

func NewFileWriterWithFs(fs afero.Fs, dir string) ReportWriter {
	return &fileWriter{
		fs:  fs,
		dir: dir,
	}
}

// Write grava em arquivo temporário e renomeia ao final
func (w *fileWriter) Write(file *domain.ReportExport) (string, error) {
	if file == nil || file.FileName == "" {
		return "", fmt.Errorf("export: arquivo sem nome")
	}

	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("export: erro ao criar diretório %s: %w", w.dir, err)
	}

	target := filepath.Join(w.dir, filepath.Base(file.FileName))
	tmp := target + ".tmp"

	if err := afero.WriteFile(w.fs, tmp, file.Content, 0o644); err != nil {
		return "", fmt.Errorf("export: erro ao gravar %s: %w", tmp, err)
	}

	if err := w.fs.Rename(tmp, target); err != nil {
		_ = w.fs.Remove(tmp)
		return "", fmt.Errorf("export: erro ao finalizar %s: %w", target, err)
	}

	return target, nil
}
