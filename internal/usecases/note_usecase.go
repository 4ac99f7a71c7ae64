package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/domain/repositories"
)

// NoteUsecase handles meeting notes
type NoteUsecase struct {
	noteRepo  repositories.NoteRepository
	publisher ChangePublisher
}

// NewNoteUsecase creates a new note usecase
func NewNoteUsecase(noteRepo repositories.NoteRepository, publisher ChangePublisher) *NoteUsecase {
	return &NoteUsecase{noteRepo: noteRepo, publisher: publisher}
}

// CreateNote stores a note written by the scoped user
func (u *NoteUsecase) CreateNote(ctx context.Context, scope entities.TeamScope, content string) (*entities.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.BadRequest("content is required")
	}

	note := &entities.Note{TeamID: scope.TeamID, Content: content, CreatedBy: scope.UserID}
	if err := u.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	notify(ctx, u.publisher, entities.TableNotes, entities.ChangeInsert, scope.TeamID, note.ID)
	return note, nil
}

// ListNotes returns the team's notes newest first
func (u *NoteUsecase) ListNotes(ctx context.Context, scope entities.TeamScope) ([]*entities.Note, error) {
	return u.noteRepo.ListByTeam(ctx, scope.TeamID)
}

// ownNote loads a note of the scoped team and checks the caller wrote it
func (u *NoteUsecase) ownNote(ctx context.Context, scope entities.TeamScope, id uuid.UUID) (*entities.Note, error) {
	note, err := u.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.TeamID != scope.TeamID {
		return nil, domainerrors.NotFound("note not found")
	}
	if note.CreatedBy != scope.UserID {
		return nil, domainerrors.Forbidden("Only the author can change this note")
	}
	return note, nil
}

// UpdateNote replaces the content of the caller's own note
func (u *NoteUsecase) UpdateNote(ctx context.Context, scope entities.TeamScope, id uuid.UUID, content string) (*entities.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.BadRequest("content is required")
	}

	note, err := u.ownNote(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := u.noteRepo.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	note.Content = content

	notify(ctx, u.publisher, entities.TableNotes, entities.ChangeUpdate, scope.TeamID, id)
	return note, nil
}

// DeleteNote removes the caller's own note
func (u *NoteUsecase) DeleteNote(ctx context.Context, scope entities.TeamScope, id uuid.UUID) error {
	if _, err := u.ownNote(ctx, scope, id); err != nil {
		return err
	}
	if err := u.noteRepo.Delete(ctx, id); err != nil {
		return err
	}

	notify(ctx, u.publisher, entities.TableNotes, entities.ChangeDelete, scope.TeamID, id)
	return nil
}
