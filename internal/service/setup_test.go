package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"charbit-go/internal/infra/kafka"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
	"charbit-go/internal/testutil"

	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CharacterEvent
	err    error
}

func (p *recordingPublisher) PublishCharacterEvent(_ context.Context, event kafka.CharacterEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fakeIndex struct {
	docs      map[int64]string
	searchIDs []int64
	searchErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[int64]string)}
}

func (f *fakeIndex) Upsert(_ context.Context, c *model.Character) error {
	f.docs[c.ID] = c.Name
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id int64) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) BulkUpsert(_ context.Context, list []model.Character) (int, int, error) {
	for i := range list {
		f.docs[list[i].ID] = list[i].Name
	}
	return len(list), 0, nil
}

func (f *fakeIndex) SearchIDs(_ context.Context, _ string, _ int) ([]int64, error) {
	return f.searchIDs, f.searchErr
}

type fakeAvatars struct {
	objects map[string]int64
	fail    bool
}

func (f *fakeAvatars) UploadAvatar(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	if f.fail {
		return "", errors.New("storage down")
	}
	n, _ := io.Copy(io.Discard, reader)
	f.objects[objectName] = n
	return "http://cdn.test/avatars/" + objectName, nil
}

type repos struct {
	db           *gorm.DB
	users        *repository.UserRepository
	characters   *repository.CharacterRepository
	interactions *repository.InteractionRepository
	relations    *repository.RelationRepository
	friendships  *repository.FriendshipRepository
	messages     *repository.MessageRepository
	verification *repository.VerificationRepository
	tags         *repository.TagRepository
}

func setupRepos(t *testing.T) *repos {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return &repos{
		db:           db,
		users:        repository.NewUserRepository(db),
		characters:   repository.NewCharacterRepository(db),
		interactions: repository.NewInteractionRepository(db),
		relations:    repository.NewRelationRepository(db),
		friendships:  repository.NewFriendshipRepository(db),
		messages:     repository.NewMessageRepository(db),
		verification: repository.NewVerificationRepository(db),
		tags:         repository.NewTagRepository(db),
	}
}

func (r *repos) characterService(events EventPublisher, avatars AvatarStorage) *CharacterService {
	return NewCharacterService(r.characters, r.interactions, NewSearchService(r.characters, nil), events, avatars)
}

func makeFriends(t *testing.T, r *repos, a, b string) {
	t.Helper()
	ctx := context.Background()
	if _, err := r.friendships.CreateRequest(ctx, a, b); err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if _, err := r.friendships.RespondRequest(ctx, a, b, model.FriendshipAccepted); err != nil {
		t.Fatalf("RespondRequest: %v", err)
	}
}
