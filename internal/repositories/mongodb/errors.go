package mongodb

import (
	"errors"

	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// translateErr maps driver errors onto the repository sentinels.
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrDuplicateKey
	default:
		return err
	}
}
