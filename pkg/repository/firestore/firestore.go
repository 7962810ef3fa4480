package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Repository stores session entries in Firestore, one document per
// conversation under sessions/{user}/conversations/{conversation}. Unlike
// the file backend there is no legacy shape to upgrade: documents are
// written in the canonical form from the start.
type Repository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.SessionRepository = &Repository{}

// Option configures a Repository
type Option func(*Repository)

// WithCollectionPrefix prefixes all collection names (shared projects)
func WithCollectionPrefix(prefix string) Option {
	return func(r *Repository) {
		r.collectionPrefix = prefix
	}
}

// New creates a Repository
func New(ctx context.Context, projectID string, opts ...Option) (*Repository, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("project_id", projectID))
	}

	r := &Repository{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Repository) sessionsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_sessions"
	}
	return "sessions"
}

func (r *Repository) conversationDoc(uid types.UserID, cid types.ConversationID) *firestore.DocumentRef {
	return r.client.Collection(r.sessionsCollection()).
		Doc(uid.String()).
		Collection("conversations").
		Doc(cid.String())
}

// Get retrieves the entry for the pair. Returns nil, nil when absent.
func (r *Repository) Get(ctx context.Context, uid types.UserID, cid types.ConversationID) (*model.SessionEntry, error) {
	doc, err := r.conversationDoc(uid, cid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get session entry",
			goerr.V("user_id", uid),
			goerr.V("conversation_id", cid),
		)
	}

	var entry model.SessionEntry
	if err := doc.DataTo(&entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session entry",
			goerr.V("user_id", uid),
			goerr.V("conversation_id", cid),
		)
	}
	return &entry, nil
}

// Put stores the entry for the pair
func (r *Repository) Put(ctx context.Context, uid types.UserID, cid types.ConversationID, entry *model.SessionEntry) error {
	if _, err := r.conversationDoc(uid, cid).Set(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to save session entry",
			goerr.V("user_id", uid),
			goerr.V("conversation_id", cid),
		)
	}
	return nil
}

// ListConversations returns all entries of a user keyed by conversation ID
func (r *Repository) ListConversations(ctx context.Context, uid types.UserID) (map[types.ConversationID]*model.SessionEntry, error) {
	iter := r.client.Collection(r.sessionsCollection()).
		Doc(uid.String()).
		Collection("conversations").
		Documents(ctx)
	defer iter.Stop()

	out := make(map[types.ConversationID]*model.SessionEntry)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list session entries", goerr.V("user_id", uid))
		}

		var entry model.SessionEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode session entry",
				goerr.V("user_id", uid),
				goerr.V("conversation_id", doc.Ref.ID),
			)
		}
		out[types.ConversationID(doc.Ref.ID)] = &entry
	}

	return out, nil
}

// Close releases the underlying client
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
