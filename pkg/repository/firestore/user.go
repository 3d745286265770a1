package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

// userDoc is the Firestore persistence model
type userDoc struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	RealName  string    `firestore:"real_name"`
	Email     string    `firestore:"email"`
	Title     string    `firestore:"title"`
	Timezone  string    `firestore:"timezone"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + usersCollection)
	}
	return r.client.Collection(usersCollection)
}

func (r *userRepository) toDoc(user *model.User) *userDoc {
	return &userDoc{
		ID:        string(user.ID),
		Name:      user.Name,
		RealName:  user.RealName,
		Email:     user.Email,
		Title:     user.Title,
		Timezone:  user.Timezone,
		UpdatedAt: user.UpdatedAt,
	}
}

func (r *userRepository) fromDoc(doc *userDoc) *model.User {
	return &model.User{
		ID:        types.UserID(doc.ID),
		Name:      doc.Name,
		RealName:  doc.RealName,
		Email:     doc.Email,
		Title:     doc.Title,
		Timezone:  doc.Timezone,
		UpdatedAt: doc.UpdatedAt,
	}
}

// UpsertMany creates or updates multiple users (upsert operation).
// BulkWriter handles Firestore's 500-writes-per-batch limit internally.
func (r *userRepository) UpsertMany(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	for _, user := range users {
		docRef := r.collection().Doc(string(user.ID))
		if _, err := bulkWriter.Set(docRef, r.toDoc(user)); err != nil {
			return goerr.Wrap(err, "failed to add Set operation to bulk writer", goerr.V("user_id", user.ID))
		}
	}

	bulkWriter.Flush()

	return nil
}

// GetAll retrieves all users ordered by display name. Display name is
// a fallback chain, not a stored field, so ordering happens here
// rather than in the query.
func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var d userDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("docID", doc.Ref.ID))
		}

		users = append(users, r.fromDoc(&d))
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName() != users[j].DisplayName() {
			return users[i].DisplayName() < users[j].DisplayName()
		}
		return users[i].ID < users[j].ID
	})

	return users, nil
}

// GetByID retrieves a single user by ID
func (r *userRepository) GetByID(ctx context.Context, id types.UserID) (*model.User, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var d userDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", id))
	}

	return r.fromDoc(&d), nil
}
