package service_test

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
)

const testSecret = "unit-test-secret-key"

func testConfig(graphBase string) config.Config {
	return config.Config{
		FacebookAppID:     "app-id",
		FacebookAppSecret: "app-secret",
		GraphAPIBase:      graphBase,
		SecretKey:         testSecret,
		CookieName:        "fbh_session",
	}
}

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	u, ok := f.users[id]
	return u, ok, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (int64, error) {
	f.nextID++
	u := *user
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.users[u.ID] = &u
	return u.ID, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if u, ok := f.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	if u, ok := f.users[id]; ok {
		u.Email = sql.NullString{String: email, Valid: email != ""}
	}
	return nil
}

func (f *fakeUserRepo) Remove(ctx context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

// fakeAccountRepo is an in-memory repository.AccountRepository.
type fakeAccountRepo struct {
	nextID    int64
	accounts  map[int64]*models.Account
	updateErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[int64]*models.Account)}
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *models.Account) (int64, error) {
	f.nextID++
	acc := *a
	acc.ID = f.nextID
	acc.CreatedAt = time.Now()
	f.accounts[acc.ID] = &acc
	return acc.ID, nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, bool, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, false, nil
	}
	copied := *a
	return &copied, true, nil
}

func (f *fakeAccountRepo) GetByIDForUser(ctx context.Context, id, userID int64) (*models.Account, bool, error) {
	a, ok := f.accounts[id]
	if !ok || a.UserID != userID {
		return nil, false, nil
	}
	copied := *a
	return &copied, true, nil
}

func (f *fakeAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountName < out[j].AccountName })
	return out, nil
}

func (f *fakeAccountRepo) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	for _, a := range f.accounts {
		if a.UserID == userID && a.AccountName == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, id, userID int64, patch *transfer.AccountPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.accounts[id]
	if !ok || a.UserID != userID {
		return nil
	}
	if patch.AccountName != nil {
		a.AccountName = *patch.AccountName
	}
	if patch.AccessToken != nil {
		a.AccessToken = *patch.AccessToken
	}
	if patch.PageID != nil {
		a.PageID = sql.NullString{String: *patch.PageID, Valid: true}
	}
	if patch.ExpiresAt != nil {
		a.TokenExpiresAt = sql.NullTime{Time: *patch.ExpiresAt, Valid: true}
	}
	return nil
}

func (f *fakeAccountRepo) GetExpiry(ctx context.Context, id int64) (sql.NullTime, bool, error) {
	a, ok := f.accounts[id]
	if !ok {
		return sql.NullTime{}, false, nil
	}
	return a.TokenExpiresAt, true, nil
}

func (f *fakeAccountRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range f.accounts {
		if a.TokenExpiresAt.Valid && a.TokenExpiresAt.Time.Before(cutoff) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) Remove(ctx context.Context, id int64) error {
	delete(f.accounts, id)
	return nil
}

// fakePostRepo is an in-memory repository.PostRepository with the same
// upsert-by-external-id behavior as the real one. owners maps account id
// to owning user id for detail rows.
type fakePostRepo struct {
	nextID  int64
	posts   map[int64]*models.Post
	byFB    map[string]int64
	owners  map[int64]int64
	saveErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:  make(map[int64]*models.Post),
		byFB:   make(map[string]int64),
		owners: make(map[int64]int64),
	}
}

func (f *fakePostRepo) Save(ctx context.Context, post *models.Post) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	postedAt := post.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}
	if id, ok := f.byFB[post.FacebookPostID]; ok {
		existing := f.posts[id]
		existing.Content = post.Content
		existing.PostURL = post.PostURL
		existing.PostedAt = postedAt
		return id, nil
	}
	f.nextID++
	p := *post
	p.ID = f.nextID
	p.PostedAt = postedAt
	p.CreatedAt = time.Now()
	f.posts[p.ID] = &p
	f.byFB[p.FacebookPostID] = p.ID
	return p.ID, nil
}

func (f *fakePostRepo) detail(p *models.Post) *transfer.PostDetail {
	return &transfer.PostDetail{
		Post:   *p,
		UserID: f.owners[p.AccountID],
	}
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*transfer.PostDetail, bool, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, false, nil
	}
	return f.detail(p), true, nil
}

func (f *fakePostRepo) GetByFacebookID(ctx context.Context, fbPostID string) (*transfer.PostDetail, bool, error) {
	id, ok := f.byFB[fbPostID]
	if !ok {
		return nil, false, nil
	}
	return f.GetByID(ctx, id)
}

func (f *fakePostRepo) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if p.AccountID == accountID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostedAt.After(out[j].PostedAt) })
	return page(out, limit, offset), nil
}

func (f *fakePostRepo) Search(ctx context.Context, accountID int64, term string, limit, offset int) ([]*models.Post, error) {
	all, _ := f.ListByAccount(ctx, accountID, len(f.posts), 0)
	var out []*models.Post
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Content), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return page(out, limit, offset), nil
}

func (f *fakePostRepo) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	for _, p := range f.posts {
		if p.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (f *fakePostRepo) Remove(ctx context.Context, id int64) error {
	if p, ok := f.posts[id]; ok {
		delete(f.byFB, p.FacebookPostID)
		delete(f.posts, id)
	}
	return nil
}

// fakeCommentRepo is an in-memory repository.CommentRepository.
type fakeCommentRepo struct {
	nextID  int64
	comments map[int64]*models.Comment
	byFB    map[string]int64
	saveErr error
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[int64]*models.Comment),
		byFB:     make(map[string]int64),
	}
}

func (f *fakeCommentRepo) Save(ctx context.Context, comment *models.Comment) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	commentedAt := comment.CommentedAt
	if commentedAt.IsZero() {
		commentedAt = time.Now()
	}
	if id, ok := f.byFB[comment.FacebookCommentID]; ok {
		existing := f.comments[id]
		existing.Content = comment.Content
		existing.CommentedAt = commentedAt
		return id, nil
	}
	f.nextID++
	c := *comment
	c.ID = f.nextID
	c.CommentedAt = commentedAt
	c.CreatedAt = time.Now()
	f.comments[c.ID] = &c
	f.byFB[c.FacebookCommentID] = c.ID
	return c.ID, nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id int64) (*transfer.CommentDetail, bool, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, false, nil
	}
	return &transfer.CommentDetail{Comment: *c}, true, nil
}

func (f *fakeCommentRepo) GetByFacebookID(ctx context.Context, fbCommentID string) (*transfer.CommentDetail, bool, error) {
	id, ok := f.byFB[fbCommentID]
	if !ok {
		return nil, false, nil
	}
	return f.GetByID(ctx, id)
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommentedAt.After(out[j].CommentedAt) })
	return pageComments(out, limit, offset), nil
}

func (f *fakeCommentRepo) Search(ctx context.Context, postID int64, term string, limit, offset int) ([]*models.Comment, error) {
	all, _ := f.ListByPost(ctx, postID, len(f.comments), 0)
	var out []*models.Comment
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Content), strings.ToLower(term)) {
			out = append(out, c)
		}
	}
	return pageComments(out, limit, offset), nil
}

func (f *fakeCommentRepo) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	for _, c := range f.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentRepo) Remove(ctx context.Context, id int64) error {
	if c, ok := f.comments[id]; ok {
		delete(f.byFB, c.FacebookCommentID)
		delete(f.comments, id)
	}
	return nil
}

func page(in []*models.Post, limit, offset int) []*models.Post {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit < len(in) {
		in = in[:limit]
	}
	return in
}

func pageComments(in []*models.Comment, limit, offset int) []*models.Comment {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit < len(in) {
		in = in[:limit]
	}
	return in
}
