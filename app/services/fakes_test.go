package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCarts struct {
	byUser  map[uint]models.Cart
	saveErr error
}

func newFakeCarts() *fakeCarts { return &fakeCarts{byUser: map[uint]models.Cart{}} }

func (f *fakeCarts) FindByUser(_ context.Context, userID uint) (models.Cart, error) {
	c, ok := f.byUser[userID]
	if !ok {
		return models.Cart{}, repositories.ErrNotFound
	}
	c.Items = append([]models.CartItem(nil), c.Items...)
	return c, nil
}

func (f *fakeCarts) Create(_ context.Context, c *models.Cart) error {
	if _, ok := f.byUser[c.UserID]; ok {
		return repositories.ErrDuplicate
	}
	c.ID = primitive.NewObjectID()
	f.byUser[c.UserID] = *c
	return nil
}

func (f *fakeCarts) SaveItems(_ context.Context, userID uint, items []models.CartItem) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	c, ok := f.byUser[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Items = append([]models.CartItem{}, items...)
	f.byUser[userID] = c
	return nil
}

func (f *fakeCarts) PurgeEmpty(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, c := range f.byUser {
		if len(c.Items) == 0 && c.UpdatedAt.Before(cutoff) {
			delete(f.byUser, id)
			n++
		}
	}
	return n, nil
}

type fakeProducts struct {
	byID map[primitive.ObjectID]models.Product
}

func newFakeProducts(ps ...models.Product) *fakeProducts {
	f := &fakeProducts{byID: map[primitive.ObjectID]models.Product{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return models.Product{}, repositories.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) FindBySlug(_ context.Context, slug string) (models.Product, error) {
	for _, p := range f.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Product{}, repositories.ErrNotFound
}

func (f *fakeProducts) FindMany(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := f.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (f *fakeProducts) Insert(ctx context.Context, p *models.Product) error {
	if taken, _ := f.SlugExists(ctx, p.Slug); taken {
		return repositories.ErrDuplicate
	}
	p.ID = primitive.NewObjectID()
	f.byID[p.ID] = *p
	return nil
}

func (f *fakeProducts) List(_ context.Context, flt repositories.ProductFilter, page, limit int) ([]models.Product, int64, error) {
	var all []models.Product
	for _, p := range f.byID {
		if flt.ActiveOnly && !p.Active() {
			continue
		}
		if flt.CategoryID != nil && p.CategoryID != *flt.CategoryID {
			continue
		}
		if flt.Query != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Description), strings.ToLower(flt.Query)) {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := orm.Offset(page, limit)
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (f *fakeProducts) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	p, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Status = status
	f.byID[id] = p
	return nil
}

func (f *fakeProducts) AddImage(_ context.Context, id primitive.ObjectID, url string) error {
	p, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Images = append(p.Images, url)
	f.byID[id] = p
	return nil
}

type fakeCategories struct {
	byID map[primitive.ObjectID]models.Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{byID: map[primitive.ObjectID]models.Category{}}
}

func (f *fakeCategories) FindByID(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return models.Category{}, repositories.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (models.Category, error) {
	for _, c := range f.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return models.Category{}, repositories.ErrNotFound
}

func (f *fakeCategories) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := f.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (f *fakeCategories) Insert(ctx context.Context, c *models.Category) error {
	if taken, _ := f.SlugExists(ctx, c.Slug); taken {
		return repositories.ErrDuplicate
	}
	c.ID = primitive.NewObjectID()
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCategories) Children(_ context.Context, parent *primitive.ObjectID) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range f.byID {
		switch {
		case parent == nil && c.ParentID == nil:
			out = append(out, c)
		case parent != nil && c.ParentID != nil && *c.ParentID == *parent:
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeOrders struct {
	byID       map[primitive.ObjectID]models.Order
	numbers    map[string]bool
	insertErr  error
	deleteCall int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[primitive.ObjectID]models.Order{}, numbers: map[string]bool{}}
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.numbers[o.OrderNumber] {
		return repositories.ErrDuplicate
	}
	o.ID = primitive.NewObjectID()
	f.numbers[o.OrderNumber] = true
	f.byID[o.ID] = *o
	return nil
}

func (f *fakeOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deleteCall++
	o, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	delete(f.numbers, o.OrderNumber)
	delete(f.byID, id)
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return models.Order{}, repositories.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID uint, page, limit int) ([]models.Order, int64, error) {
	var all []models.Order
	for _, o := range f.byID {
		if o.UserID == userID {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := orm.Offset(page, limit)
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (f *fakeOrders) SetFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	o, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "order_status":
			o.OrderStatus = v.(models.OrderStatus)
		case "payment_status":
			o.PaymentStatus = v.(models.PaymentStatus)
		case "transaction_ref":
			o.TransactionRef = v.(string)
		case "updated_at":
			o.UpdatedAt = v.(time.Time)
		}
	}
	f.byID[id] = o
	return nil
}

type reviewKey struct {
	user    uint
	product primitive.ObjectID
}

type fakeReviews struct {
	byKey map[reviewKey]models.Review
}

func newFakeReviews() *fakeReviews { return &fakeReviews{byKey: map[reviewKey]models.Review{}} }

func (f *fakeReviews) Insert(_ context.Context, r *models.Review) error {
	k := reviewKey{r.UserID, r.ProductID}
	if _, ok := f.byKey[k]; ok {
		return repositories.ErrDuplicate
	}
	r.ID = primitive.NewObjectID()
	f.byKey[k] = *r
	return nil
}

func (f *fakeReviews) ListByProduct(_ context.Context, productID primitive.ObjectID, page, limit int) ([]models.Review, int64, error) {
	var out []models.Review
	for _, r := range f.byKey {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, int64(len(out)), nil
}

func (f *fakeReviews) Ratings(_ context.Context, productID primitive.ObjectID) ([]int, error) {
	var out []int
	for _, r := range f.byKey {
		if r.ProductID == productID {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

type fakeAddresses struct {
	byID map[uint]models.Address
}

func (f *fakeAddresses) List(_ context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAddresses) Find(_ context.Context, userID, id uint) (models.Address, error) {
	a, ok := f.byID[id]
	if !ok || a.UserID != userID {
		return models.Address{}, repositories.ErrNotFound
	}
	return a, nil
}

func (f *fakeAddresses) Create(_ context.Context, a *models.Address) error {
	a.ID = uint(len(f.byID) + 1)
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAddresses) Update(ctx context.Context, userID, id uint, fields map[string]interface{}) (models.Address, error) {
	a, err := f.Find(ctx, userID, id)
	if err != nil {
		return a, err
	}
	if v, ok := fields["city"].(string); ok {
		a.City = v
	}
	f.byID[id] = a
	return a, nil
}

func (f *fakeAddresses) SetDefault(ctx context.Context, userID, id uint) error {
	_, err := f.Update(ctx, userID, id, nil)
	return err
}

func (f *fakeAddresses) Delete(ctx context.Context, userID, id uint) error {
	if _, err := f.Find(ctx, userID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

type fakeUsers struct {
	byID map[uint]models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uint]models.User{}} }

func (f *fakeUsers) FindByID(_ context.Context, id uint) (models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) find(match func(models.User) bool) (models.User, error) {
	for _, u := range f.byID {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (models.User, error) {
	return f.find(func(u models.User) bool { return u.Username == username })
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	return f.find(func(u models.User) bool { return u.Email == email })
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	u.ID = uint(len(f.byID) + 1)
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) All(_ context.Context, page, limit int) ([]models.User, orm.Pagination, error) {
	var out []models.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, orm.NewPagination(page, limit, int64(len(out))), nil
}

type firedEvent struct {
	name    string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []firedEvent
}

func (p *recordingPublisher) FireAsync(_ context.Context, name string, payload interface{}) {
	p.mu.Lock()
	p.events = append(p.events, firedEvent{name, payload})
	p.mu.Unlock()
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.name
	}
	return out
}
