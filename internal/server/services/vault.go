package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yebin817/passvault/internal/common"
	"github.com/yebin817/passvault/internal/cryptox"
	"github.com/yebin817/passvault/internal/dbx"
	"github.com/yebin817/passvault/internal/server/models"
	"github.com/yebin817/passvault/internal/server/repositories/repomanager"
)

// EntryView is the read-only projection returned by Search. It never
// carries the password, neither plaintext nor ciphertext; revealing a
// password is a separate explicit operation.
type EntryView struct {
	ID          string
	ServiceName string
	Username    string
	Email       string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EditView is the projection returned by GetForEdit. When the stored
// ciphertext cannot be decrypted with the current key, Undecryptable is set
// and Password stays empty so the remaining fields are still editable.
type EditView struct {
	EntryView
	Password      string
	Undecryptable bool
}

// AddEntryParams are the fields accepted when creating an entry.
// ServiceName and Password are required.
type AddEntryParams struct {
	ServiceName string
	Username    string
	Email       string
	Password    string
	Notes       string
}

// UpdateEntryParams are the fields accepted when editing an entry. All text
// fields overwrite the stored values; an empty Password keeps the existing
// ciphertext unchanged.
type UpdateEntryParams struct {
	ServiceName string
	Username    string
	Email       string
	Password    string
	Notes       string
}

// VaultService owns the encrypted credential store. Every operation is
// scoped to the authenticated owner id; entries of other users are
// indistinguishable from absent ones.
type VaultService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	cipher *cryptox.Cipher
}

// NewVaultService constructs a VaultService around the given cipher.
func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher) *VaultService {
	return &VaultService{db: db, repos: m, cipher: cipher}
}

// Add encrypts the password and persists a new entry for owner, returning
// the new entry id.
func (s *VaultService) Add(ctx context.Context, owner string, params AddEntryParams) (string, error) {
	if params.ServiceName == "" {
		return "", common.NewValidationError("service_name")
	}
	if params.Password == "" {
		return "", common.NewValidationError("password")
	}

	ciphertext, err := s.cipher.Encrypt(params.Password)
	if err != nil {
		return "", common.ErrorInternal
	}

	entry := &models.Entry{
		UserID:             owner,
		ServiceName:        params.ServiceName,
		Username:           params.Username,
		Email:              params.Email,
		PasswordCiphertext: ciphertext,
		Notes:              params.Notes,
	}
	created, err := s.repos.Entries(s.db).Create(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("error creating entry: %w", err)
	}
	return created.ID, nil
}

func entryToView(e *models.Entry) EntryView {
	return EntryView{
		ID:          e.ID,
		ServiceName: e.ServiceName,
		Username:    e.Username,
		Email:       e.Email,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// GetForEdit returns the owner's entry with the password decrypted for
// display. Decryption failure is reported in the view, not as an error, so
// the caller can still edit the other fields.
func (s *VaultService) GetForEdit(ctx context.Context, owner, entryID string) (*EditView, error) {
	entry, err := s.repos.Entries(s.db).GetForUser(ctx, entryID, owner)
	if err != nil {
		return nil, err
	}

	view := &EditView{EntryView: entryToView(entry)}

	plaintext, err := s.cipher.Decrypt(entry.PasswordCiphertext)
	if err != nil {
		if errors.Is(err, common.ErrDecryption) {
			view.Undecryptable = true
			return view, nil
		}
		return nil, err
	}
	view.Password = plaintext
	return view, nil
}

// Update overwrites the entry's fields inside a transaction, so the
// ownership check and the write cannot race with a concurrent edit. A
// non-empty new password is re-encrypted; otherwise the stored ciphertext
// is kept.
func (s *VaultService) Update(ctx context.Context, owner, entryID string, params UpdateEntryParams) error {
	if params.ServiceName == "" {
		return common.NewValidationError("service_name")
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Entries(tx)

		entry, err := repo.GetForUser(ctx, entryID, owner)
		if err != nil {
			return err
		}

		entry.ServiceName = params.ServiceName
		entry.Username = params.Username
		entry.Email = params.Email
		entry.Notes = params.Notes

		if params.Password != "" {
			ciphertext, err := s.cipher.Encrypt(params.Password)
			if err != nil {
				return common.ErrorInternal
			}
			entry.PasswordCiphertext = ciphertext
		}

		return repo.Update(ctx, entry)
	})
}

// Delete permanently removes the owner's entry.
func (s *VaultService) Delete(ctx context.Context, owner, entryID string) error {
	return s.repos.Entries(s.db).Delete(ctx, entryID, owner)
}

// Reveal returns the entry's plaintext password. Unlike GetForEdit it
// propagates common.ErrDecryption, e.g. after a key rotation.
func (s *VaultService) Reveal(ctx context.Context, owner, entryID string) (string, error) {
	entry, err := s.repos.Entries(s.db).GetForUser(ctx, entryID, owner)
	if err != nil {
		return "", err
	}
	return s.cipher.Decrypt(entry.PasswordCiphertext)
}

// Search lists the owner's entries matching query as read-only views. An
// empty query lists everything.
func (s *VaultService) Search(ctx context.Context, owner, query string) ([]EntryView, error) {
	found, err := s.repos.Entries(s.db).Search(ctx, owner, query)
	if err != nil {
		return nil, err
	}

	views := make([]EntryView, len(found))
	for i, e := range found {
		views[i] = entryToView(e)
	}
	return views, nil
}
