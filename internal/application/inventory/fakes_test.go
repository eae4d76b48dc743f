package inventory_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// memStore: estado compartido de los fakes en memoria. Cada repositorio es una
// vista sobre este estado; memTxRunner lo clona y restaura para emular
// Commit/Rollback sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type stockKey struct{ productID, locationID string }

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	stock     map[stockKey]decimal.Decimal
	movements []*entity.Movement
	sessions  map[string]*entity.CountSession
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		locations: make(map[string]*entity.Location),
		stock:     make(map[stockKey]decimal.Decimal),
		sessions:  make(map[string]*entity.CountSession),
	}
}

func (s *memStore) snapshot() *memStore {
	clone := newMemStore()
	for k, v := range s.products {
		p := *v
		clone.products[k] = &p
	}
	for k, v := range s.locations {
		l := *v
		clone.locations[k] = &l
	}
	for k, v := range s.stock {
		clone.stock[k] = v
	}
	clone.movements = append(clone.movements, s.movements...)
	for k, v := range s.sessions {
		clone.sessions[k] = cloneSession(v)
	}
	return clone
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.locations = from.locations
	s.stock = from.stock
	s.movements = from.movements
	s.sessions = from.sessions
}

func cloneSession(in *entity.CountSession) *entity.CountSession {
	out := *in
	out.Lines = append([]entity.CountLine(nil), in.Lines...)
	if in.ConcludedAt != nil {
		t := *in.ConcludedAt
		out.ConcludedAt = &t
	}
	if in.AppliedAt != nil {
		t := *in.AppliedAt
		out.AppliedAt = &t
	}
	return &out
}

// Helpers de seed para los tests.

func (s *memStore) seedProduct(id, companyID, sku string) *entity.Product {
	p := &entity.Product{
		ID: id, CompanyID: companyID, SKU: sku, Name: "Producto " + sku,
		Price: dec("100"), Cost: dec("60"), MinStock: dec("0"),
		IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	s.products[id] = p
	return p
}

func (s *memStore) seedLocation(id, companyID, name string) *entity.Location {
	l := &entity.Location{
		ID: id, CompanyID: companyID, Name: name,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	s.locations[id] = l
	return l
}

func (s *memStore) seedStock(productID, locationID, qty string) {
	s.stock[stockKey{productID, locationID}] = dec(qty)
}

func (s *memStore) stockAt(productID, locationID string) decimal.Decimal {
	if q, ok := s.stock[stockKey{productID, locationID}]; ok {
		return q
	}
	return decimal.Zero
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.s.products {
		if existing.CompanyID == p.CompanyID && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) ListByCompany(companyID string, onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID != companyID {
			continue
		}
		if onlyActive && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *memProductRepo) Deactivate(id string) error {
	if p, ok := r.s.products[id]; ok {
		p.IsActive = false
	}
	return nil
}

type memLocationRepo struct{ s *memStore }

var _ repository.LocationRepository = (*memLocationRepo)(nil)

func (r *memLocationRepo) Create(l *entity.Location) error {
	cl := *l
	r.s.locations[l.ID] = &cl
	return nil
}

func (r *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	if l, ok := r.s.locations[id]; ok {
		cl := *l
		return &cl, nil
	}
	return nil, nil
}

func (r *memLocationRepo) Update(l *entity.Location) error {
	cl := *l
	r.s.locations[l.ID] = &cl
	return nil
}

func (r *memLocationRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.CompanyID == companyID {
			cl := *l
			out = append(out, &cl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *memLocationRepo) HasReferences(id string) (bool, error) {
	for k, q := range r.s.stock {
		if k.locationID == id && !q.IsZero() {
			return true, nil
		}
	}
	for _, m := range r.s.movements {
		if m.LocationID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLocationRepo) Delete(id string) error {
	delete(r.s.locations, id)
	return nil
}

type memStockRepo struct{ s *memStore }

var _ repository.StockRepository = (*memStockRepo)(nil)

func (r *memStockRepo) Get(productID, locationID string) (*entity.Stock, error) {
	return &entity.Stock{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   r.s.stockAt(productID, locationID),
	}, nil
}

func (r *memStockRepo) GetForUpdate(productID, locationID string) (*entity.Stock, error) {
	return r.Get(productID, locationID)
}

func (r *memStockRepo) Upsert(stock *entity.Stock) error {
	r.s.stock[stockKey{stock.ProductID, stock.LocationID}] = stock.Quantity
	return nil
}

func (r *memStockRepo) ListByProduct(productID string) ([]repository.StockLevel, error) {
	return r.list(func(k stockKey) bool { return k.productID == productID }), nil
}

func (r *memStockRepo) ListByLocation(locationID string) ([]repository.StockLevel, error) {
	return r.list(func(k stockKey) bool { return k.locationID == locationID }), nil
}

func (r *memStockRepo) ListByCompany(companyID string) ([]repository.StockLevel, error) {
	return r.list(func(k stockKey) bool {
		p, ok := r.s.products[k.productID]
		return ok && p.CompanyID == companyID
	}), nil
}

func (r *memStockRepo) TotalByProduct(productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for k, q := range r.s.stock {
		if k.productID == productID {
			total = total.Add(q)
		}
	}
	return total, nil
}

func (r *memStockRepo) list(match func(stockKey) bool) []repository.StockLevel {
	var out []repository.StockLevel
	for k, q := range r.s.stock {
		if match(k) {
			out = append(out, repository.StockLevel{
				ProductID: k.productID, LocationID: k.locationID, Quantity: q,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}

type memMovementRepo struct{ s *memStore }

var _ repository.MovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cm := *m
	r.s.movements = append(r.s.movements, &cm)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cm := *m
			return &cm, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool { return m.LocationID == locationID }, from, to, limit, offset), nil
}

func (r *memMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool { return m.ProductID == productID }, from, to, limit, offset), nil
}

func (r *memMovementRepo) ListSince(companyID string, after time.Time) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.Date.After(after) {
			cm := *m
			out = append(out, &cm)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *memMovementRepo) filter(match func(*entity.Movement) bool, from, to *time.Time, limit, offset int) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if !match(m) {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		cm := *m
		out = append(out, &cm)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset)
}

type memSessionRepo struct{ s *memStore }

var _ repository.CountSessionRepository = (*memSessionRepo)(nil)

func (r *memSessionRepo) Create(session *entity.CountSession) error {
	if _, ok := r.s.sessions[session.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *memSessionRepo) GetByID(id string) (*entity.CountSession, error) {
	if s, ok := r.s.sessions[id]; ok {
		return cloneSession(s), nil
	}
	return nil, nil
}

func (r *memSessionRepo) GetByIDForUpdate(id string) (*entity.CountSession, error) {
	return r.GetByID(id)
}

func (r *memSessionRepo) Update(session *entity.CountSession) error {
	r.s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *memSessionRepo) UpdateStatus(session *entity.CountSession) error {
	stored, ok := r.s.sessions[session.ID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	stored.Status = session.Status
	stored.Synced = session.Synced
	stored.ConcludedAt = session.ConcludedAt
	stored.AppliedAt = session.AppliedAt
	stored.AppliedBy = session.AppliedBy
	return nil
}

func (r *memSessionRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.CountSession, error) {
	var out []*entity.CountSession
	for _, s := range r.s.sessions {
		if s.CompanyID != companyID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, cloneSession(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// memQueue cola offline en memoria.
type memQueue struct {
	mu       sync.Mutex
	pending  map[string]*entity.CountSession
	enqueued []string
}

var _ inventory.SessionQueue = (*memQueue)(nil)

func newMemQueue() *memQueue {
	return &memQueue{pending: make(map[string]*entity.CountSession)}
}

func (q *memQueue) Enqueue(_ context.Context, session *entity.CountSession) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.pending[session.ID]; !ok {
		q.enqueued = append(q.enqueued, session.ID)
	}
	q.pending[session.ID] = cloneSession(session)
	return nil
}

func (q *memQueue) Pending(_ context.Context) ([]*entity.CountSession, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*entity.CountSession, 0, len(q.pending))
	for _, id := range q.enqueued {
		if s, ok := q.pending[id]; ok {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (q *memQueue) MarkSynced(_ context.Context, sessionID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, sessionID)
	for i, id := range q.enqueued {
		if id == sessionID {
			q.enqueued = append(q.enqueued[:i], q.enqueued[i+1:]...)
			break
		}
	}
	return nil
}

// memTxRunner emula la transacción clonando el estado antes de fn y
// restaurándolo si fn falla: el test de atomicidad depende de este rollback.
type memTxRunner struct {
	s *memStore
	// failOn hace fallar el Create de movimientos cuya referencia contenga el
	// substring, para simular un fallo a mitad de transacción.
	failOn string
	// beforeRun se ejecuta antes de abrir la transacción: permite intercalar
	// una operación ganadora entre la validación previa del caller y su tx.
	beforeRun func()
}

var _ inventory.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	sessionRepo repository.CountSessionRepository,
) error) error {
	if r.beforeRun != nil {
		r.beforeRun()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	backup := r.s.snapshot()
	var movRepo repository.MovementRepository = &memMovementRepo{s: r.s}
	if r.failOn != "" {
		movRepo = &failingMovementRepo{inner: movRepo, failOn: r.failOn}
	}
	err := fn(movRepo, &memStockRepo{s: r.s}, &memProductRepo{s: r.s}, &memSessionRepo{s: r.s})
	if err != nil {
		r.s.restore(backup)
		return err
	}
	return nil
}

type failingMovementRepo struct {
	inner  repository.MovementRepository
	failOn string
}

func (f *failingMovementRepo) Create(m *entity.Movement) error {
	if strings.Contains(m.ProductID, f.failOn) {
		return errFakeStorage
	}
	return f.inner.Create(m)
}

func (f *failingMovementRepo) GetByID(id string) (*entity.Movement, error) {
	return f.inner.GetByID(id)
}

func (f *failingMovementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return f.inner.ListByLocation(locationID, from, to, limit, offset)
}

func (f *failingMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return f.inner.ListByProduct(productID, from, to, limit, offset)
}

func (f *failingMovementRepo) ListSince(companyID string, after time.Time) ([]*entity.Movement, error) {
	return f.inner.ListSince(companyID, after)
}

var errFakeStorage = errors.New("fallo de almacenamiento simulado")

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
