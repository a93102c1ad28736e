package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"github.com/anonto42/proconnect/backend/pkg/cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store down")

// ---- users ----

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uint]*models.User{}} }

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) GetUserByExternalUID(_ context.Context, uid string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ExternalUID != nil && *u.ExternalUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) UpdateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) SearchUsers(_ context.Context, query string, limit int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.User
	for _, u := range f.byID {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- companies ----

type fakeCompanies struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.Company
}

func newFakeCompanies() *fakeCompanies { return &fakeCompanies{byID: map[uint]*models.Company{}} }

func (f *fakeCompanies) CreateCompany(_ context.Context, c *models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == c.Email {
			return repositories.ErrDuplicate
		}
	}
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCompanies) GetCompanyByID(_ context.Context, id uint) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanies) GetCompanyByEmail(_ context.Context, email string) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCompanies) UpdateCompany(_ context.Context, c *models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCompanies) SearchCompanies(_ context.Context, query string, limit int) ([]models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Company
	for _, c := range f.byID {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- follows ----

type fakeFollows struct {
	mu      sync.Mutex
	follows []models.CompanyFollow
}

func (f *fakeFollows) CreateFollow(_ context.Context, follow *models.CompanyFollow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.follows {
		if existing.UserID == follow.UserID && existing.CompanyID == follow.CompanyID {
			return repositories.ErrDuplicate
		}
	}
	f.follows = append(f.follows, *follow)
	return nil
}

func (f *fakeFollows) DeleteFollow(_ context.Context, userID, companyID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.follows {
		if existing.UserID == userID && existing.CompanyID == companyID {
			f.follows = append(f.follows[:i], f.follows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeFollows) IsFollowing(_ context.Context, userID, companyID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.follows {
		if existing.UserID == userID && existing.CompanyID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollows) GetFollowedCompanyIDs(_ context.Context, userID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for _, existing := range f.follows {
		if existing.UserID == userID {
			ids = append(ids, existing.CompanyID)
		}
	}
	return ids, nil
}

func (f *fakeFollows) GetFollowerIDs(_ context.Context, companyID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for _, existing := range f.follows {
		if existing.CompanyID == companyID {
			ids = append(ids, existing.UserID)
		}
	}
	return ids, nil
}

func (f *fakeFollows) GetFollowersCount(ctx context.Context, companyID uint) (int64, error) {
	ids, _ := f.GetFollowerIDs(ctx, companyID)
	return int64(len(ids)), nil
}

// ---- connections ----

type fakeConnections struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Connection
}

func newFakeConnections() *fakeConnections {
	return &fakeConnections{rows: map[uint]*models.Connection{}}
}

func (f *fakeConnections) CreateRequest(_ context.Context, conn *models.Connection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.ConnectionPairKey(conn.RequesterID, conn.ReceiverID)
	for id, existing := range f.rows {
		if existing.PairKey != key {
			continue
		}
		if existing.Status != models.ConnectionRejected {
			return repositories.ErrDuplicate
		}
		delete(f.rows, id)
	}
	f.nextID++
	conn.ID = f.nextID
	conn.PairKey = key
	conn.Status = models.ConnectionPending
	conn.CreatedAt = time.Now()
	cp := *conn
	f.rows[conn.ID] = &cp
	return nil
}

func (f *fakeConnections) GetByID(_ context.Context, id uint) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConnections) GetBetween(_ context.Context, a, b uint) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.ConnectionPairKey(a, b)
	for _, c := range f.rows {
		if c.PairKey == key {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeConnections) filter(keep func(c *models.Connection) bool) []models.Connection {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Connection
	for _, c := range f.rows {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func involves(c *models.Connection, userID uint) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}

func (f *fakeConnections) ListAccepted(_ context.Context, userID uint) ([]models.Connection, error) {
	return f.filter(func(c *models.Connection) bool {
		return c.Status == models.ConnectionAccepted && involves(c, userID)
	}), nil
}

func (f *fakeConnections) GetAcceptedConnectionIDs(ctx context.Context, userID uint) ([]uint, error) {
	conns, _ := f.ListAccepted(ctx, userID)
	ids := make([]uint, 0, len(conns))
	for i := range conns {
		ids = append(ids, conns[i].Other(userID))
	}
	return ids, nil
}

func (f *fakeConnections) ListPendingReceived(_ context.Context, userID uint) ([]models.Connection, error) {
	return f.filter(func(c *models.Connection) bool {
		return c.Status == models.ConnectionPending && c.ReceiverID == userID
	}), nil
}

func (f *fakeConnections) ListPendingSent(_ context.Context, userID uint) ([]models.Connection, error) {
	return f.filter(func(c *models.Connection) bool {
		return c.Status == models.ConnectionPending && c.RequesterID == userID
	}), nil
}

func (f *fakeConnections) UpdateStatus(_ context.Context, id uint, from, to models.ConnectionStatus, respondedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.Status != from {
		return repositories.ErrNotFound
	}
	c.Status = to
	c.RespondedAt = &respondedAt
	return nil
}

func (f *fakeConnections) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

// connect stores an accepted connection directly.
func (f *fakeConnections) connect(t *testing.T, a, b uint) {
	t.Helper()
	conn := &models.Connection{RequesterID: a, ReceiverID: b}
	if err := f.CreateRequest(context.Background(), conn); err != nil {
		t.Fatalf("seed connection: %v", err)
	}
	f.mu.Lock()
	f.rows[conn.ID].Status = models.ConnectionAccepted
	f.mu.Unlock()
}

// ---- notifications ----

type fakeNotifications struct {
	mu     sync.Mutex
	nextID uint
	rows   []models.Notification
	// failFor makes CreateNotification fail for that receiver.
	failFor *models.AccountRef
}

func (f *fakeNotifications) CreateNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != nil && *f.failFor == n.Receiver() {
		return errStoreDown
	}
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotifications) forReceiver(ref models.AccountRef) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].Receiver() == ref {
			out = append(out, f.rows[i])
		}
	}
	return out
}

func (f *fakeNotifications) GetByReceiver(_ context.Context, ref models.AccountRef, page models.Page) ([]models.Notification, int64, error) {
	all := f.forReceiver(ref)
	start := int(page.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (f *fakeNotifications) GetGrouped(_ context.Context, ref models.AccountRef) (today, yesterday, thisWeek, older []models.Notification, err error) {
	return f.forReceiver(ref), nil, nil, nil, nil
}

func (f *fakeNotifications) GetUnreadCount(_ context.Context, ref models.AccountRef) (int64, error) {
	var n int64
	for _, row := range f.forReceiver(ref) {
		if !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkAsRead(_ context.Context, ref models.AccountRef, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].Receiver() == ref {
			f.rows[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNotifications) MarkAllAsRead(_ context.Context, ref models.AccountRef) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.rows {
		if f.rows[i].Receiver() == ref && !f.rows[i].IsRead {
			f.rows[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) Delete(_ context.Context, ref models.AccountRef, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].Receiver() == ref {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNotifications) DeleteBetween(_ context.Context, a, b models.AccountRef, types []models.NotificationType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[models.NotificationType]bool{}
	for _, t := range types {
		wanted[t] = true
	}
	kept := f.rows[:0]
	var n int64
	for _, row := range f.rows {
		pair := (row.Receiver() == a && row.Sender() == b) || (row.Receiver() == b && row.Sender() == a)
		if pair && wanted[row.Type] {
			n++
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeNotifications) count(receiver models.AccountRef, kind models.NotificationType) int {
	n := 0
	for _, row := range f.forReceiver(receiver) {
		if row.Type == kind {
			n++
		}
	}
	return n
}

// ---- posts ----

type fakePosts struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]*models.Post
	clock time.Time
	// failGet makes GetPostByID return errStoreDown.
	failGet bool
}

func newFakePosts() *fakePosts {
	return &fakePosts{
		byID:  map[primitive.ObjectID]*models.Post{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakePosts) CreatePost(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// strictly increasing timestamps keep newest-first ordering deterministic
	f.clock = f.clock.Add(time.Minute)
	p.ID = primitive.NewObjectID()
	p.CreatedAt = f.clock
	p.UpdatedAt = f.clock
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePosts) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errStoreDown
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func matchesScopes(author models.AccountRef, scopes []repositories.AuthorScope) bool {
	for _, s := range scopes {
		if s.Type != author.Type {
			continue
		}
		for _, id := range s.IDs {
			if id == author.ID {
				return true
			}
		}
	}
	return false
}

func (f *fakePosts) matching(scopes []repositories.AuthorScope) []models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Post
	for _, p := range f.byID {
		if matchesScopes(p.Author, scopes) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakePosts) ListByAuthors(_ context.Context, scopes []repositories.AuthorScope, skip, limit int64) ([]models.Post, error) {
	all := f.matching(scopes)
	start := int(skip)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(limit)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakePosts) CountByAuthors(_ context.Context, scopes []repositories.AuthorScope) (int64, error) {
	return int64(len(f.matching(scopes))), nil
}

func (f *fakePosts) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Content = content
	cp := *p
	return &cp, nil
}

func (f *fakePosts) DeletePost(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePosts) IncrementLikes(_ context.Context, id primitive.ObjectID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.LikesCount += delta
	return nil
}

func (f *fakePosts) IncrementComments(_ context.Context, id primitive.ObjectID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.CommentsCount += delta
	return nil
}

// ---- comments ----

type fakeComments struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]*models.Comment
	order []primitive.ObjectID
}

func newFakeComments() *fakeComments {
	return &fakeComments{byID: map[primitive.ObjectID]*models.Comment{}}
}

func (f *fakeComments) CreateComment(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	cp := *c
	f.byID[c.ID] = &cp
	f.order = append(f.order, c.ID)
	return nil
}

func (f *fakeComments) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// scan walks comments in insertion order.
func (f *fakeComments) scan(keep func(c *models.Comment) bool) []models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, id := range f.order {
		if c, ok := f.byID[id]; ok && keep(c) {
			out = append(out, *c)
		}
	}
	return out
}

func (f *fakeComments) ListTopLevel(_ context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	all := f.scan(func(c *models.Comment) bool { return c.PostID == postID && c.ParentID == nil })
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	start := int(skip)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(limit)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeComments) CountTopLevel(_ context.Context, postID primitive.ObjectID) (int64, error) {
	return int64(len(f.scan(func(c *models.Comment) bool { return c.PostID == postID && c.ParentID == nil }))), nil
}

func (f *fakeComments) ListReplies(_ context.Context, rootID primitive.ObjectID) ([]models.Comment, error) {
	return f.scan(func(c *models.Comment) bool { return c.ParentID != nil && *c.ParentID == rootID }), nil
}

func (f *fakeComments) ListReplyIDs(ctx context.Context, rootID primitive.ObjectID) ([]primitive.ObjectID, error) {
	replies, _ := f.ListReplies(ctx, rootID)
	ids := make([]primitive.ObjectID, 0, len(replies))
	for _, r := range replies {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (f *fakeComments) ListIDsByPost(_ context.Context, postID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, c := range f.scan(func(c *models.Comment) bool { return c.PostID == postID }) {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (f *fakeComments) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.Content = content
	cp := *c
	return &cp, nil
}

func (f *fakeComments) DeleteMany(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeComments) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	ids, _ := f.ListIDsByPost(ctx, postID)
	return f.DeleteMany(ctx, ids)
}

func (f *fakeComments) IncrementLikes(_ context.Context, id primitive.ObjectID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.LikesCount += delta
	return nil
}

func (f *fakeComments) IncrementReplies(_ context.Context, id primitive.ObjectID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.RepliesCount += delta
	return nil
}

// ---- reactions ----

type reactionKey struct {
	target models.ReactionTarget
	userID uint
}

type fakeReactions struct {
	mu   sync.Mutex
	rows map[reactionKey]*models.Reaction
	// beforeWrite runs once, before the next conditional write, to simulate a
	// concurrent request landing between the read and the write.
	beforeWrite func()
}

func newFakeReactions() *fakeReactions {
	return &fakeReactions{rows: map[reactionKey]*models.Reaction{}}
}

func (f *fakeReactions) interleave() {
	if hook := f.beforeWrite; hook != nil {
		f.beforeWrite = nil
		hook()
	}
}

func (f *fakeReactions) Insert(_ context.Context, r *models.Reaction) error {
	f.interleave()
	f.mu.Lock()
	defer f.mu.Unlock()
	key := reactionKey{r.Target, r.UserID}
	if _, ok := f.rows[key]; ok {
		return repositories.ErrDuplicate
	}
	r.ID = primitive.NewObjectID()
	cp := *r
	f.rows[key] = &cp
	return nil
}

func (f *fakeReactions) Get(_ context.Context, target models.ReactionTarget, userID uint) (*models.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[reactionKey{target, userID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReactions) UpdateType(_ context.Context, target models.ReactionTarget, userID uint, from, to models.ReactionType) (bool, error) {
	f.interleave()
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[reactionKey{target, userID}]
	if !ok || r.Type != from {
		return false, nil
	}
	r.Type = to
	return true, nil
}

func (f *fakeReactions) Delete(_ context.Context, target models.ReactionTarget, userID uint, typ models.ReactionType) (bool, error) {
	f.interleave()
	f.mu.Lock()
	defer f.mu.Unlock()
	key := reactionKey{target, userID}
	r, ok := f.rows[key]
	if !ok || (typ != "" && r.Type != typ) {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeReactions) ListByTarget(_ context.Context, target models.ReactionTarget) ([]models.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reaction
	for k, r := range f.rows {
		if k.target == target {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeReactions) DeleteByTargets(_ context.Context, ids []primitive.ObjectID, targetType models.TargetType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		for k := range f.rows {
			if k.target.ID == id && k.target.Type == targetType {
				delete(f.rows, k)
				n++
			}
		}
	}
	return n, nil
}

// set writes a reaction directly, bypassing the conditional paths.
func (f *fakeReactions) set(target models.ReactionTarget, userID uint, typ models.ReactionType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[reactionKey{target, userID}] = &models.Reaction{Target: target, UserID: userID, Type: typ}
}

// ---- jobs ----

type fakeJobs struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.JobOffer
	// beforeAppend runs once before the next AppendApplicant.
	beforeAppend func()
}

func newFakeJobs() *fakeJobs { return &fakeJobs{byID: map[primitive.ObjectID]*models.JobOffer{}} }

func cloneJob(j *models.JobOffer) *models.JobOffer {
	cp := *j
	cp.Applicants = append([]models.Applicant(nil), j.Applicants...)
	cp.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	return &cp
}

func (f *fakeJobs) CreateJob(_ context.Context, job *models.JobOffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job.ID = primitive.NewObjectID()
	job.CreatedAt = time.Now()
	f.byID[job.ID] = cloneJob(job)
	return nil
}

func (f *fakeJobs) GetJobByID(_ context.Context, id primitive.ObjectID) (*models.JobOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneJob(j), nil
}

func (f *fakeJobs) UpdateJob(_ context.Context, job *models.JobOffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[job.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	updated := cloneJob(job)
	updated.Applicants = existing.Applicants
	f.byID[job.ID] = updated
	return nil
}

func (f *fakeJobs) CloseJob(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	j.IsActive = false
	return nil
}

func (f *fakeJobs) active(query string) []models.JobOffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.JobOffer
	for _, j := range f.byID {
		if j.IsActive && strings.Contains(strings.ToLower(j.Title), q) {
			cp := cloneJob(j)
			cp.Applicants = nil
			out = append(out, *cp)
		}
	}
	return out
}

func (f *fakeJobs) ListActive(_ context.Context, query string, skip, limit int64) ([]models.JobOffer, error) {
	return f.active(query), nil
}

func (f *fakeJobs) CountActive(_ context.Context, query string) (int64, error) {
	return int64(len(f.active(query))), nil
}

func (f *fakeJobs) ListByCompany(_ context.Context, companyID uint) ([]models.JobOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.JobOffer
	for _, j := range f.byID {
		if j.CompanyID == companyID {
			out = append(out, *cloneJob(j))
		}
	}
	return out, nil
}

func (f *fakeJobs) AppendApplicant(_ context.Context, jobID primitive.ObjectID, a models.Applicant) (bool, error) {
	if hook := f.beforeAppend; hook != nil {
		f.beforeAppend = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[jobID]
	if !ok || !j.IsActive || j.HasApplied(a.UserID) {
		return false, nil
	}
	j.Applicants = append(j.Applicants, a)
	return true, nil
}

func (f *fakeJobs) UpdateApplicantStatus(_ context.Context, jobID primitive.ObjectID, userID uint, status models.ApplicantStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[jobID]
	if !ok {
		return false, nil
	}
	for i := range j.Applicants {
		if j.Applicants[i].UserID == userID {
			j.Applicants[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

// ---- messages ----

type fakeMessages struct {
	mu   sync.Mutex
	rows []models.Message
	// fail makes CreateMessage return errStoreDown.
	fail bool
}

func (f *fakeMessages) CreateMessage(_ context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	m.ID = primitive.NewObjectID()
	m.ConversationKey = models.ConversationKey(m.Sender, m.Receiver)
	m.CreatedAt = time.Now()
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMessages) GetMessageByID(_ context.Context, id primitive.ObjectID) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			cp := f.rows[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeMessages) conversation(key string) []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ConversationKey == key {
			out = append(out, f.rows[i])
		}
	}
	return out
}

func (f *fakeMessages) ListConversation(_ context.Context, key string, skip, limit int64) ([]models.Message, error) {
	all := f.conversation(key)
	start := int(skip)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(limit)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeMessages) CountConversation(_ context.Context, key string) (int64, error) {
	return int64(len(f.conversation(key))), nil
}

func (f *fakeMessages) ListConversations(_ context.Context, account models.AccountRef) ([]models.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	index := map[string]int{}
	var out []models.ConversationSummary
	for i := len(f.rows) - 1; i >= 0; i-- {
		m := f.rows[i]
		if m.Sender != account && m.Receiver != account {
			continue
		}
		pos, ok := index[m.ConversationKey]
		if !ok {
			pos = len(out)
			index[m.ConversationKey] = pos
			out = append(out, models.ConversationSummary{ConversationKey: m.ConversationKey, LastMessage: m})
		}
		if m.Receiver == account && !m.IsRead {
			out[pos].UnreadCount++
		}
	}
	return out, nil
}

func (f *fakeMessages) MarkConversationRead(_ context.Context, key string, receiver models.AccountRef) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.rows {
		if f.rows[i].ConversationKey == key && f.rows[i].Receiver == receiver && !f.rows[i].IsRead {
			f.rows[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeMessages) CountUnread(_ context.Context, receiver models.AccountRef) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.rows {
		if m.Receiver == receiver && !m.IsRead {
			n++
		}
	}
	return n, nil
}

// ---- topic store ----

type fakeTopics struct {
	mu     sync.Mutex
	counts map[string]float64
	fail   bool
	// days and limit record the last TopTopics query.
	days, limit int
}

func (f *fakeTopics) IncrementTopics(_ context.Context, _ time.Time, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	if f.counts == nil {
		f.counts = map[string]float64{}
	}
	for _, t := range tags {
		f.counts[t]++
	}
	return nil
}

func (f *fakeTopics) TopTopics(_ context.Context, _ time.Time, days, limit int) ([]cache.TopicScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days, f.limit = days, limit
	out := make([]cache.TopicScore, 0, len(f.counts))
	for tag, n := range f.counts {
		out = append(out, cache.TopicScore{Tag: tag, Count: int64(n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- harness ----

// env wires every service against fresh fakes.
type env struct {
	users         *fakeUsers
	companies     *fakeCompanies
	follows       *fakeFollows
	connections   *fakeConnections
	notifications *fakeNotifications
	posts         *fakePosts
	comments      *fakeComments
	reactions     *fakeReactions
	jobs          *fakeJobs
	messages      *fakeMessages

	directory   *AccountDirectory
	notifier    *NotificationService
	accounts    *AccountService
	connService *ConnectionService
	postService *PostService
	feed        *FeedService
	commentSvc  *CommentService
	reactionSvc *ReactionService
	jobService  *JobService
	messageSvc  *MessageService
	tokens      *TokenIssuer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := zap.NewNop()
	e := &env{
		users:         newFakeUsers(),
		companies:     newFakeCompanies(),
		follows:       &fakeFollows{},
		connections:   newFakeConnections(),
		notifications: &fakeNotifications{},
		posts:         newFakePosts(),
		comments:      newFakeComments(),
		reactions:     newFakeReactions(),
		jobs:          newFakeJobs(),
		messages:      &fakeMessages{},
	}
	effects := NewSideEffects(logger)
	e.tokens = NewTokenIssuer("test-secret", time.Hour)
	e.directory = NewAccountDirectory(e.users, e.companies, nil, logger)
	e.notifier = NewNotificationService(e.notifications, e.directory, logger)
	trending := NewTrendingService(nil)

	e.accounts = NewAccountService(e.users, e.companies, e.follows, e.directory, e.tokens, nil, logger)
	e.connService = NewConnectionService(e.connections, e.users, e.directory, e.notifier, effects, logger)
	e.postService = NewPostService(e.posts, e.comments, e.reactions, e.connections, e.follows, e.directory, e.notifier, trending, effects, logger)
	e.feed = NewFeedService(e.connections, e.follows, e.postService)
	e.commentSvc = NewCommentService(e.comments, e.posts, e.reactions, e.directory, e.notifier, effects, logger)
	e.reactionSvc = NewReactionService(e.reactions, e.posts, e.comments, e.messages, e.notifier, effects, logger)
	e.jobService = NewJobService(e.jobs, e.users, e.messages, e.directory, e.notifier, nil, nil, effects, logger)
	e.messageSvc = NewMessageService(e.messages, e.directory, e.notifier, effects, logger)
	return e
}

func (e *env) user(t *testing.T, name string) models.AccountRef {
	t.Helper()
	u := &models.User{Name: name, Email: strings.ToLower(name) + "@example.com"}
	if err := e.users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.Ref()
}

func (e *env) company(t *testing.T, name string) models.AccountRef {
	t.Helper()
	c := &models.Company{Name: name, Email: strings.ToLower(name) + "@corp.example.com"}
	if err := e.companies.CreateCompany(context.Background(), c); err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return c.Ref()
}

func (e *env) post(t *testing.T, author models.AccountRef, content string) primitive.ObjectID {
	t.Helper()
	p := &models.Post{Author: author, Content: content}
	if err := e.posts.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p.ID
}
