package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
)

type Firestore struct {
	client    *firestore.Client
	user      *userRepository
	checkin   *checkinRepository
	absentee  *absenteeRepository
	syncState *syncStateRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used to isolate
// test runs sharing a project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.user.collectionPrefix = prefix
		f.checkin.collectionPrefix = prefix
		f.absentee.collectionPrefix = prefix
		f.syncState.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:    client,
		user:      newUserRepository(client),
		checkin:   newCheckinRepository(client),
		absentee:  newAbsenteeRepository(client),
		syncState: newSyncStateRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) CheckIn() interfaces.CheckInRepository {
	return f.checkin
}

func (f *Firestore) Absentee() interfaces.AbsenteeRepository {
	return f.absentee
}

func (f *Firestore) SyncState() interfaces.SyncStateRepository {
	return f.syncState
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
