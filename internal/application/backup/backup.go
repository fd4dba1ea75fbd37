package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/gestor-pro/internal/domain"
	"github.com/jhoicas/gestor-pro/internal/infrastructure/localdb"
	"github.com/jhoicas/gestor-pro/pkg/logger"
)

// Archive documento único de respaldo con todas las colecciones locales.
type Archive struct {
	Version     int                          `json:"version"`
	ExportedAt  time.Time                    `json:"exportedAt"`
	Collections map[string][]json.RawMessage `json:"collections"`
}

const archiveVersion = 1

// Service exporta e importa respaldos de la caché local. La importación
// reproduce cada elemento como upsert local ÚNICAMENTE: nunca re-empuja al
// almacén remoto, así que restaurar un respaldo no garantiza la convergencia
// remota.
type Service struct {
	store *localdb.Store
	log   *logger.Logger
}

// NewService construye el servicio de respaldo sobre el almacén local.
func NewService(store *localdb.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Export serializa todas las colecciones locales en un único documento JSON.
// Con el almacén en modo fallback se rechaza la operación: el resultado sería
// un respaldo vacío que el usuario podría confundir con uno real.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	if s.store.Fallback() {
		return nil, fmt.Errorf("respaldo: exportación rechazada: %w", domain.ErrStorageUnavailable)
	}
	arch := Archive{
		Version:     archiveVersion,
		ExportedAt:  time.Now().UTC(),
		Collections: make(map[string][]json.RawMessage, len(domain.Collections)),
	}
	total := 0
	for _, col := range domain.Collections {
		docs, err := s.store.ListRaw(ctx, col)
		if err != nil {
			return nil, fmt.Errorf("respaldo: exportando %s: %w", col, err)
		}
		raws := make([]json.RawMessage, 0, len(docs))
		for _, d := range docs {
			raws = append(raws, d.Data)
		}
		arch.Collections[col] = raws
		total += len(raws)
	}
	s.log.Info().Int("items", total).Msg("respaldo exportado")
	return json.Marshal(arch)
}

// Import reproduce un respaldo sobre la caché local y devuelve el número de
// elementos restaurados. Las colecciones desconocidas se ignoran con aviso.
func (s *Service) Import(ctx context.Context, data []byte) (int, error) {
	if s.store.Fallback() {
		return 0, fmt.Errorf("respaldo: restauración rechazada: %w", domain.ErrStorageUnavailable)
	}
	var arch Archive
	if err := json.Unmarshal(data, &arch); err != nil {
		return 0, fmt.Errorf("respaldo: archivo ilegible: %w", err)
	}

	known := make(map[string]bool, len(domain.Collections))
	for _, col := range domain.Collections {
		known[col] = true
	}

	restored := 0
	for col, docs := range arch.Collections {
		if !known[col] {
			s.log.Warn().Str("collection", col).Msg("colección desconocida en el respaldo; ignorada")
			continue
		}
		for _, raw := range docs {
			var idOnly struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &idOnly); err != nil || idOnly.ID == "" {
				s.log.Warn().Str("collection", col).Msg("documento sin id en el respaldo; ignorado")
				continue
			}
			if err := s.store.PutRaw(ctx, col, idOnly.ID, raw); err != nil {
				return restored, fmt.Errorf("respaldo: restaurando %s/%s: %w", col, idOnly.ID, err)
			}
			restored++
		}
	}
	s.log.Info().Int("items", restored).Msg("respaldo importado (solo caché local)")
	return restored, nil
}
