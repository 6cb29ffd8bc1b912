package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/service"
	"roomlink/pkg/errors"
)

// memDB is a tiny in-memory document store shared by the fake repositories.
// Every document carries a version so the review fake can run optimistic
// transactions the way Firestore does.
type memDB struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	listings map[string]*entity.Listing
	messages map[string]*entity.Message
	comments map[string]*entity.Comment
	reviews  []*entity.Review
	reports  map[string]*entity.Report
	payments map[string]*entity.Payment
	otps     map[string]*entity.OTP
	versions map[string]int
	seq      int
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[string]*entity.User{},
		listings: map[string]*entity.Listing{},
		messages: map[string]*entity.Message{},
		comments: map[string]*entity.Comment{},
		reports:  map[string]*entity.Report{},
		payments: map[string]*entity.Payment{},
		otps:     map[string]*entity.OTP{},
		versions: map[string]int{},
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Blocked = append([]string{}, u.Blocked...)
	c.FCMTokens = append([]string{}, u.FCMTokens...)
	return &c
}

func cloneListing(l *entity.Listing) *entity.Listing {
	c := *l
	c.Images = append([]string{}, l.Images...)
	return &c
}

func cloneMessage(m *entity.Message) *entity.Message {
	c := *m
	c.ReadBy = append([]string{}, m.ReadBy...)
	return &c
}

func addUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func removeAll(list []string, drop ...string) []string {
	out := []string{}
	for _, x := range list {
		keep := true
		for _, d := range drop {
			if x == d {
				keep = false
			}
		}
		if keep {
			out = append(out, x)
		}
	}
	return out
}

// --- users

type fakeUserRepo struct{ db *memDB }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.ID]; ok {
		return errors.Conflict("User profile already exists", nil)
	}
	r.db.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByPaystackCustomerCode(ctx context.Context, code string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.PaystackCustomerCode == code })
}

func (r *fakeUserRepo) mutate(id string, fn func(*entity.User)) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	fn(u)
	r.db.versions["users/"+id]++
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.mutate(user.ID, func(u *entity.User) {
		u.Username, u.FullName, u.Phone, u.Bio, u.AvatarURL = user.Username, user.FullName, user.Phone, user.Bio, user.AvatarURL
	})
}

func (r *fakeUserRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.mutate(id, func(u *entity.User) { u.IsVerified = verified })
}

func (r *fakeUserRepo) AddBlocked(ctx context.Context, userID, targetID string) error {
	return r.mutate(userID, func(u *entity.User) { u.Blocked = addUnique(u.Blocked, targetID) })
}

func (r *fakeUserRepo) RemoveBlocked(ctx context.Context, userID, targetID string) error {
	return r.mutate(userID, func(u *entity.User) { u.Blocked = removeAll(u.Blocked, targetID) })
}

func (r *fakeUserRepo) AddFCMToken(ctx context.Context, userID, token string) error {
	return r.mutate(userID, func(u *entity.User) { u.FCMTokens = addUnique(u.FCMTokens, token) })
}

func (r *fakeUserRepo) RemoveFCMTokens(ctx context.Context, userID string, tokens []string) error {
	return r.mutate(userID, func(u *entity.User) { u.FCMTokens = removeAll(u.FCMTokens, tokens...) })
}

func (r *fakeUserRepo) SetPaystackCustomer(ctx context.Context, userID, code string, account *entity.VirtualAccount) error {
	return r.mutate(userID, func(u *entity.User) {
		u.PaystackCustomerCode = code
		u.VirtualAccount = account
	})
}

// --- listings

type fakeListingRepo struct{ db *memDB }

func (r *fakeListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if l.ID == "" {
		l.ID = r.db.nextID("listing")
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().Add(time.Duration(r.db.seq) * time.Millisecond)
	}
	r.db.listings[l.ID] = cloneListing(l)
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return cloneListing(l), nil
}

func (r *fakeListingRepo) List(ctx context.Context, f entity.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Listing
	for _, l := range r.db.listings {
		if f.PosterID != "" && l.PosterID != f.PosterID {
			continue
		}
		if !f.IncludeHidden && l.Hidden {
			continue
		}
		if f.Location != "" && l.Location != f.Location {
			continue
		}
		if f.MinPrice > 0 && l.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && l.Price > f.MaxPrice {
			continue
		}
		out = append(out, cloneListing(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if offset >= len(out) {
		return []*entity.Listing{}, total, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], total, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, l *entity.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.listings[l.ID]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	c := cloneListing(l)
	c.AverageRating, c.ReviewCount, c.Hidden, c.Status = existing.AverageRating, existing.ReviewCount, existing.Hidden, existing.Status
	r.db.listings[l.ID] = c
	r.db.versions["listings/"+l.ID]++
	return nil
}

func (r *fakeListingRepo) SetHidden(ctx context.Context, id string, hidden bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	l.Hidden = hidden
	if hidden {
		l.Status = entity.ListingStatusHidden
	} else {
		l.Status = entity.ListingStatusActive
	}
	r.db.versions["listings/"+id]++
	return nil
}

func (r *fakeListingRepo) CountActiveByPoster(ctx context.Context, posterID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, l := range r.db.listings {
		if l.PosterID == posterID && !l.Hidden {
			n++
		}
	}
	return n, nil
}

// --- messages

type fakeMessageRepo struct{ db *memDB }

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if m.ID == "" {
		m.ID = r.db.nextID("msg")
	}
	m.Participants = []string{m.SenderID, m.ReceiverID}
	r.db.messages[m.ID] = cloneMessage(m)
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.messages[id]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	return cloneMessage(m), nil
}

func (r *fakeMessageRepo) ListForUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Message{}
	for _, m := range r.db.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeMessageRepo) ListBetween(ctx context.Context, a, b, listingID string, limit, offset int) ([]*entity.Message, int64, error) {
	all, _ := r.ListForUser(ctx, a)
	var out []*entity.Message
	for _, m := range all {
		if m.Counterpart(a) == b && (listingID == "" || m.ListingID == listingID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, id, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.messages[id]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	m.ReadBy = addUnique(m.ReadBy, userID)
	return nil
}

func (r *fakeMessageRepo) MarkConversationRead(ctx context.Context, readerID, otherID, listingID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, m := range r.db.messages {
		if m.ReceiverID == readerID && m.SenderID == otherID && (listingID == "" || m.ListingID == listingID) && !m.IsReadBy(readerID) {
			m.ReadBy = append(m.ReadBy, readerID)
			n++
		}
	}
	return n, nil
}

// --- comments

type fakeCommentRepo struct{ db *memDB }

func (r *fakeCommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c.ID == "" {
		c.ID = r.db.nextID("comment")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	r.db.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, listingID, id string) (*entity.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || c.ListingID != listingID {
		return nil, errors.NotFound("Comment", nil)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) ListByListing(ctx context.Context, listingID string) ([]*entity.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Comment{}
	for _, c := range r.db.comments {
		if c.ListingID == listingID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) SetHidden(ctx context.Context, listingID, id string, hidden bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || c.ListingID != listingID {
		return errors.NotFound("Comment", nil)
	}
	c.Hidden = hidden
	return nil
}

// --- reviews

// fakeReviewRepo runs SubmitReview as an optimistic transaction: read the
// aggregate and its version, compute outside the lock, commit only if the
// version is unchanged, otherwise retry.
type fakeReviewRepo struct {
	db      *memDB
	retries int
	yield   func()
}

func (r *fakeReviewRepo) SubmitReview(ctx context.Context, review *entity.Review) (*entity.RatingSummary, error) {
	if err := service.ValidateRating(review.Rating); err != nil {
		return nil, err
	}

	key := review.TargetType + "s/" + review.TargetID
	for {
		r.db.mu.Lock()
		avg, count, err := r.readTarget(review)
		version := r.db.versions[key]
		r.db.mu.Unlock()
		if err != nil {
			return nil, err
		}

		newAvg, newCount := service.ApplyRating(avg, count, review.Rating)
		if r.yield != nil {
			r.yield()
		}

		r.db.mu.Lock()
		if r.db.versions[key] != version {
			r.retries++
			r.db.mu.Unlock()
			continue
		}
		r.writeTarget(review, newAvg, newCount)
		r.db.versions[key]++
		if review.ID == "" {
			review.ID = r.db.nextID("review")
		}
		cp := *review
		r.db.reviews = append(r.db.reviews, &cp)
		r.db.mu.Unlock()

		return &entity.RatingSummary{AverageRating: newAvg, ReviewCount: newCount}, nil
	}
}

func (r *fakeReviewRepo) readTarget(review *entity.Review) (float64, int, error) {
	switch review.TargetType {
	case entity.ReviewTargetUser:
		u, ok := r.db.users[review.TargetID]
		if !ok {
			return 0, 0, errors.NotFound("Review target", nil)
		}
		return u.AverageRating, u.ReviewCount, nil
	case entity.ReviewTargetListing:
		l, ok := r.db.listings[review.TargetID]
		if !ok {
			return 0, 0, errors.NotFound("Review target", nil)
		}
		return l.AverageRating, l.ReviewCount, nil
	}
	return 0, 0, errors.BadRequest("Unknown review target type", nil)
}

func (r *fakeReviewRepo) writeTarget(review *entity.Review, avg float64, count int) {
	if review.TargetType == entity.ReviewTargetUser {
		u := r.db.users[review.TargetID]
		u.AverageRating, u.ReviewCount = avg, count
		return
	}
	l := r.db.listings[review.TargetID]
	l.AverageRating, l.ReviewCount = avg, count
}

func (r *fakeReviewRepo) ListByTarget(ctx context.Context, targetType, targetID string, limit, offset int) ([]*entity.Review, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Review
	for i := len(r.db.reviews) - 1; i >= 0; i-- {
		rv := r.db.reviews[i]
		if rv.TargetType == targetType && rv.TargetID == targetID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

// --- reports

type fakeReportRepo struct{ db *memDB }

func (r *fakeReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if rep.ID == "" {
		rep.ID = r.db.nextID("report")
	}
	cp := *rep
	r.db.reports[rep.ID] = &cp
	return nil
}

func (r *fakeReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rep, ok := r.db.reports[id]
	if !ok {
		return nil, errors.NotFound("Report", nil)
	}
	cp := *rep
	return &cp, nil
}

func (r *fakeReportRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Report, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Report{}
	for _, rep := range r.db.reports {
		if status == "" || rep.Status == status {
			cp := *rep
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReportRepo) Update(ctx context.Context, rep *entity.Report) error {
	return r.Create(ctx, rep)
}

// --- payments

type fakePaymentRepo struct{ db *memDB }

func (r *fakePaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.payments[p.Reference]; ok {
		return errors.Conflict("Payment reference already used", nil)
	}
	cp := *p
	r.db.payments[p.Reference] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByReference(ctx context.Context, ref string) (*entity.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[ref]
	if !ok {
		return nil, errors.NotFound("Payment", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) MarkFailed(ctx context.Context, ref string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[ref]
	if !ok {
		return errors.NotFound("Payment", nil)
	}
	if p.Status != entity.PaymentStatusSuccess {
		p.Status = entity.PaymentStatusFailed
	}
	return nil
}

func (r *fakePaymentRepo) Settle(ctx context.Context, s entity.Settlement) (*entity.SettlementResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[s.Reference]
	if !ok {
		return nil, errors.NotFound("Payment", nil)
	}
	res := &entity.SettlementResult{UserID: p.UserID, Purpose: p.Purpose}
	if p.Status == entity.PaymentStatusSuccess {
		res.AlreadyApplied = true
		return res, nil
	}
	u, ok := r.db.users[p.UserID]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	switch p.Purpose {
	case entity.PaymentPurposeAdUnlock:
		u.AdsPaid = true
	case entity.PaymentPurposeWalletTopup:
		u.Balance += float64(s.Amount) / 100
	}
	now := time.Now()
	p.Status = entity.PaymentStatusSuccess
	p.ProcessedAt = &now
	return res, nil
}

func (r *fakePaymentRepo) CreditDeposit(ctx context.Context, userID string, s entity.Settlement) (*entity.SettlementResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	res := &entity.SettlementResult{UserID: userID, Purpose: entity.PaymentPurposeWalletTopup}
	if p, ok := r.db.payments[s.Reference]; ok && p.Status == entity.PaymentStatusSuccess {
		res.AlreadyApplied = true
		return res, nil
	}
	u, ok := r.db.users[userID]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	u.Balance += float64(s.Amount) / 100
	r.db.payments[s.Reference] = &entity.Payment{
		Reference: s.Reference, UserID: userID, Amount: s.Amount,
		Purpose: entity.PaymentPurposeWalletTopup, Status: entity.PaymentStatusSuccess,
	}
	return res, nil
}

// --- otps

type fakeOTPRepo struct{ db *memDB }

func (r *fakeOTPRepo) Save(ctx context.Context, o *entity.OTP) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *o
	r.db.otps[o.Email] = &cp
	return nil
}

func (r *fakeOTPRepo) Get(ctx context.Context, email string) (*entity.OTP, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.otps[email]
	if !ok {
		return nil, errors.NotFound("OTP", nil)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOTPRepo) ConsumeAttempt(ctx context.Context, email string, maxAttempts int, now time.Time) (*entity.OTP, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.otps[email]
	if !ok {
		return nil, errors.NotFound("OTP", nil)
	}
	if now.After(o.ExpiresAt) {
		delete(r.db.otps, email)
		return nil, entity.ErrOTPExpired
	}
	if o.Attempts >= maxAttempts {
		delete(r.db.otps, email)
		return nil, entity.ErrOTPExhausted
	}
	cp := *o
	o.Attempts++
	return &cp, nil
}

func (r *fakeOTPRepo) Delete(ctx context.Context, email string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.otps, email)
	return nil
}

// --- collaborators

type sentMail struct{ To, Subject, Body string }

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type pushCall struct {
	Tokens []string
	Msg    service.PushMessage
}

type fakePush struct {
	mu      sync.Mutex
	calls   []pushCall
	invalid []string
}

func (p *fakePush) Send(ctx context.Context, tokens []string, msg service.PushMessage) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushCall{append([]string{}, tokens...), msg})
	return p.invalid, nil
}

type published struct {
	UserID, Type string
	Data         interface{}
}

type fakeRealtime struct {
	mu     sync.Mutex
	events []published
}

func (r *fakeRealtime) PublishToUser(userID, eventType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{userID, eventType, data})
}

func (r *fakeRealtime) IsOnline(string) bool { return false }

type fakeUploader struct {
	uploaded []string
	deleted  []string
	err      error
}

func (u *fakeUploader) UploadFile(ctx context.Context, file io.Reader, contentType, folder string, isPublic bool) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	io.Copy(io.Discard, file)
	url := fmt.Sprintf("https://storage.googleapis.com/test/%s/%d.jpg", folder, len(u.uploaded))
	u.uploaded = append(u.uploaded, url)
	return url, nil
}

func (u *fakeUploader) DeleteFile(ctx context.Context, url string) error {
	u.deleted = append(u.deleted, url)
	return nil
}

func (u *fakeUploader) Close() error { return nil }

type fakeAuth struct {
	created map[string]string
	deleted []string
	err     error
}

func (a *fakeAuth) CreateUser(ctx context.Context, email, password, name string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.created == nil {
		a.created = map[string]string{}
	}
	uid := fmt.Sprintf("uid-%d", len(a.created)+1)
	a.created[uid] = email
	return uid, nil
}

func (a *fakeAuth) DeleteUser(ctx context.Context, uid string) error {
	a.deleted = append(a.deleted, uid)
	return nil
}

func (a *fakeAuth) VerifyToken(ctx context.Context, token string) (*service.VerifiedToken, error) {
	return &service.VerifiedToken{UID: token}, nil
}

type fakeGateway struct {
	mu          sync.Mutex
	initialized []service.InitializeRequest
	verify      map[string]*service.VerifyResponse
	initErr     error
	customerErr error
}

func (g *fakeGateway) InitializeTransaction(ctx context.Context, req service.InitializeRequest) (*service.InitializeResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.initErr != nil {
		return nil, g.initErr
	}
	g.initialized = append(g.initialized, req)
	return &service.InitializeResponse{AuthorizationURL: "https://checkout.paystack.com/" + req.Reference, Reference: req.Reference}, nil
}

func (g *fakeGateway) VerifyTransaction(ctx context.Context, ref string) (*service.VerifyResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.verify[ref]
	if !ok {
		return nil, fmt.Errorf("unknown reference")
	}
	return v, nil
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, req service.CustomerRequest) (string, error) {
	if g.customerErr != nil {
		return "", g.customerErr
	}
	return "CUS_" + req.Email, nil
}

func (g *fakeGateway) AssignDedicatedAccount(ctx context.Context, code string) (*service.DedicatedAccount, error) {
	return &service.DedicatedAccount{BankName: "Wema Bank", AccountName: "ROOMLINK", AccountNumber: "0123456789"}, nil
}

type fakeLimiter struct{ deny map[string]bool }

func (l *fakeLimiter) Allow(key, action string) (bool, time.Duration) {
	if l.deny[action] {
		return false, 5 * time.Second
	}
	return true, 0
}

// --- fixtures

type fixture struct {
	db       *memDB
	users    *fakeUserRepo
	listings *fakeListingRepo
	messages *fakeMessageRepo
	comments *fakeCommentRepo
	reviews  *fakeReviewRepo
	reports  *fakeReportRepo
	payments *fakePaymentRepo
	otps     *fakeOTPRepo
}

func newFixture() *fixture {
	db := newMemDB()
	return &fixture{
		db:       db,
		users:    &fakeUserRepo{db},
		listings: &fakeListingRepo{db},
		messages: &fakeMessageRepo{db},
		comments: &fakeCommentRepo{db},
		reviews:  &fakeReviewRepo{db: db},
		reports:  &fakeReportRepo{db},
		payments: &fakePaymentRepo{db},
		otps:     &fakeOTPRepo{db},
	}
}

func (f *fixture) addUser(id string, mods ...func(*entity.User)) *entity.User {
	u := &entity.User{ID: id, Email: id + "@example.com", Username: id, Role: entity.RoleUser}
	for _, m := range mods {
		m(u)
	}
	f.users.Create(context.Background(), u)
	return u
}

func (f *fixture) addListing(id, posterID string, mods ...func(*entity.Listing)) *entity.Listing {
	l := &entity.Listing{ID: id, PosterID: posterID, Title: "Room " + id, Price: 50000, Location: "Lagos", Status: entity.ListingStatusActive}
	for _, m := range mods {
		m(l)
	}
	f.listings.Create(context.Background(), l)
	return l
}

func (f *fixture) user(id string) *entity.User {
	u, err := f.users.GetByID(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return u
}
