// Package firestore implements the document store port against the
// Firestore REST API. Each user maps to users/<uid> in the default
// database.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	firestore "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"santi/internal/docstore"
)

type Store struct {
	svc       *firestore.Service
	projectID string
}

var _ docstore.Store = (*Store)(nil)

// New creates a Firestore-backed store using Application Default
// Credentials unless explicit client options are given.
func New(ctx context.Context, projectID string, opts ...option.ClientOption) (*Store, error) {
	if projectID == "" {
		return nil, errors.New("missing Firestore project id")
	}
	svc, err := firestore.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore service: %w", err)
	}
	return &Store{svc: svc, projectID: projectID}, nil
}

func (s *Store) docName(uid string) string {
	return fmt.Sprintf("projects/%s/databases/(default)/documents/users/%s", s.projectID, uid)
}

func (s *Store) Get(ctx context.Context, uid string) (docstore.UserDocument, error) {
	doc, err := s.svc.Projects.Databases.Documents.Get(s.docName(uid)).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return docstore.UserDocument{}, docstore.ErrNotFound
		}
		return docstore.UserDocument{}, fmt.Errorf("get user document: %w", err)
	}
	return decodeDocument(doc), nil
}

// Put patches the user document. With merge=true only the patched field
// paths are written, which also upserts the document if it does not exist
// yet; merge=false replaces the whole document.
func (s *Store) Put(ctx context.Context, uid string, patch docstore.Patch, merge bool) error {
	fields, paths := encodePatch(patch)
	if len(fields) == 0 {
		return nil
	}

	call := s.svc.Projects.Databases.Documents.Patch(s.docName(uid), &firestore.Document{
		Fields: fields,
	}).Context(ctx)
	if merge {
		call = call.UpdateMaskFieldPaths(paths...)
	}

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("put user document: %w", err)
	}
	return nil
}
