package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

type attachable interface {
	CurrentAttachment() *attachment.Ref
}

type attachmentRepository[T attachable] interface {
	GetByID(ctx context.Context, id string) (T, error)
	SetAttachment(ctx context.Context, id string, ref *attachment.Ref) error
}

// AttachmentTarget lectura y escritura del adjunto de un tipo de entidad.
type AttachmentTarget struct {
	current func(ctx context.Context, id string) (*attachment.Ref, error)
	set     func(ctx context.Context, id string, ref *attachment.Ref) error
}

// TargetOf adapta un repositorio con workflow a AttachmentTarget.
func TargetOf[T attachable](repo attachmentRepository[T]) AttachmentTarget {
	return AttachmentTarget{
		current: func(ctx context.Context, id string) (*attachment.Ref, error) {
			e, err := repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return e.CurrentAttachment(), nil
		},
		set: repo.SetAttachment,
	}
}

// AttachmentUseCase subida, enlace temporal y eliminación de adjuntos (imagen o PDF).
type AttachmentUseCase struct {
	store      ports.AttachmentStore
	targets    map[workflow.Kind]AttachmentTarget
	guard      ports.InFlightGuard
	metrics    ports.Recorder
	log        *logger.Logger
	maxBytes   int64
	presignTTL time.Duration
}

// NewAttachmentUseCase store nil deja los adjuntos deshabilitados (domain.ErrStorageDisabled).
func NewAttachmentUseCase(store ports.AttachmentStore, targets map[workflow.Kind]AttachmentTarget, guard ports.InFlightGuard, metrics ports.Recorder, log *logger.Logger, maxBytes int64, presignTTL time.Duration) *AttachmentUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &AttachmentUseCase{
		store:      store,
		targets:    targets,
		guard:      guard,
		metrics:    metrics,
		log:        log.Component("attachments"),
		maxBytes:   maxBytes,
		presignTTL: presignTTL,
	}
}

func (uc *AttachmentUseCase) target(kind string) (workflow.Kind, AttachmentTarget, error) {
	k := workflow.Kind(kind)
	t, ok := uc.targets[k]
	if !ok {
		return "", AttachmentTarget{}, domain.NewValidationError("kind", fmt.Sprintf("tipo de registro desconocido: %q", kind))
	}
	return k, t, nil
}

// Upload reemplaza el adjunto del registro. El tipo se detecta por contenido, no por la extensión.
func (uc *AttachmentUseCase) Upload(ctx context.Context, kind, id, name string, body io.Reader) (*dto.AttachmentDTO, error) {
	if uc.store == nil {
		return nil, domain.ErrStorageDisabled
	}
	k, t, err := uc.target(kind)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(body, uc.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("leer adjunto: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("file", "el archivo está vacío")
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, domain.NewValidationError("file", fmt.Sprintf("supera el máximo de %d MB", uc.maxBytes>>20))
	}
	mt := mimetype.Detect(data)
	contentType := mt.String()
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	ak := attachment.Classify(contentType, "")
	if ak == attachment.KindNone {
		return nil, domain.NewValidationError("file", fmt.Sprintf("tipo no permitido: %s (solo imágenes o PDF)", contentType))
	}
	if name = path.Base(strings.ReplaceAll(name, "\\", "/")); name == "." || name == "/" {
		name = "adjunto" + mt.Extension()
	}

	var out *dto.AttachmentDTO
	err = guarded(ctx, uc.guard, key(string(k), id, "attachment"), func() error {
		prev, err := t.current(ctx, id)
		if err != nil {
			return err
		}
		ref := &attachment.Ref{
			Key:         fmt.Sprintf("%s/%s/%s%s", k, id, uuid.NewString(), mt.Extension()),
			Name:        name,
			ContentType: contentType,
			Kind:        ak,
			Size:        int64(len(data)),
		}
		if err := uc.store.Put(ctx, ref.Key, ref.ContentType, bytes.NewReader(data), ref.Size); err != nil {
			return persistenceErr(uc.metrics, "attachment.put", err)
		}
		if err := t.set(ctx, id, ref); err != nil {
			if derr := uc.store.Delete(ctx, ref.Key); derr != nil {
				uc.log.Warn().Err(derr).Str("key", ref.Key).Msg("no se pudo borrar el objeto huérfano")
			}
			return persistenceErr(uc.metrics, "attachment.set", err)
		}
		if prev != nil && prev.Key != "" && prev.Key != ref.Key {
			if derr := uc.store.Delete(ctx, prev.Key); derr != nil {
				uc.log.Warn().Err(derr).Str("key", prev.Key).Msg("no se pudo borrar el adjunto anterior")
			}
		}
		uc.log.Info().Str("kind", string(k)).Str("id", id).Str("key", ref.Key).Str("type", contentType).Msg("adjunto guardado")
		out = dto.NewAttachmentDTO(ref)
		out.URL, err = uc.store.PresignGet(ctx, ref.Key, uc.presignTTL)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", ref.Key).Msg("no se pudo firmar la URL")
			out.URL = ""
		}
		return nil
	})
	return out, err
}

// Link devuelve el adjunto con una URL de descarga temporal.
func (uc *AttachmentUseCase) Link(ctx context.Context, kind, id string) (*dto.AttachmentDTO, error) {
	if uc.store == nil {
		return nil, domain.ErrStorageDisabled
	}
	_, t, err := uc.target(kind)
	if err != nil {
		return nil, err
	}
	ref, err := t.current(ctx, id)
	if err != nil {
		return nil, err
	}
	if attachment.KindOf(ref) == attachment.KindNone {
		return nil, domain.ErrNotFound
	}
	out := dto.NewAttachmentDTO(ref)
	if out.URL, err = uc.store.PresignGet(ctx, ref.Key, uc.presignTTL); err != nil {
		return nil, persistenceErr(uc.metrics, "attachment.presign", err)
	}
	return out, nil
}

// Remove quita el adjunto del registro y borra el objeto.
func (uc *AttachmentUseCase) Remove(ctx context.Context, kind, id string, confirmed bool) error {
	if err := requireConfirmation(confirmed); err != nil {
		return err
	}
	if uc.store == nil {
		return domain.ErrStorageDisabled
	}
	k, t, err := uc.target(kind)
	if err != nil {
		return err
	}
	return guarded(ctx, uc.guard, key(string(k), id, "attachment"), func() error {
		prev, err := t.current(ctx, id)
		if err != nil {
			return err
		}
		if prev == nil {
			return domain.ErrNotFound
		}
		if err := t.set(ctx, id, nil); err != nil {
			return persistenceErr(uc.metrics, "attachment.set", err)
		}
		if err := uc.store.Delete(ctx, prev.Key); err != nil {
			uc.log.Warn().Err(err).Str("key", prev.Key).Msg("no se pudo borrar el objeto")
		}
		return nil
	})
}
