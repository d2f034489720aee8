package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/dental-ops-api/internal/application/inventory"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
)

var (
	_ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)
	_ repository.WithdrawalRepository    = (*WithdrawalRepo)(nil)
	_ inventory.TxRunner                 = (*TxRunner)(nil)
)

// inventoryDB tablas de ítems y órdenes de retiro. txMu serializa cada operación
// fuera de transacción y cada transacción completa; mu protege los mapas.
type inventoryDB struct {
	txMu        sync.Mutex
	mu          sync.RWMutex
	items       map[string]entity.InventoryItem
	withdrawals map[string]entity.WithdrawalOrder
}

func (db *inventoryDB) snapshot() (map[string]entity.InventoryItem, map[string]entity.WithdrawalOrder) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return maps.Clone(db.items), maps.Clone(db.withdrawals)
}

func (db *inventoryDB) restore(items map[string]entity.InventoryItem, withdrawals map[string]entity.WithdrawalOrder) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.items, db.withdrawals = items, withdrawals
}

// Inventory agrupa los repositorios de inventario y su TxRunner sobre las mismas tablas.
type Inventory struct {
	Items       *InventoryItemRepo
	Withdrawals *WithdrawalRepo
	Tx          *TxRunner
}

// NewInventory construye las tablas vacías.
func NewInventory() *Inventory {
	db := &inventoryDB{
		items:       make(map[string]entity.InventoryItem),
		withdrawals: make(map[string]entity.WithdrawalOrder),
	}
	return &Inventory{
		Items:       &InventoryItemRepo{db: db},
		Withdrawals: &WithdrawalRepo{db: db},
		Tx:          &TxRunner{db: db},
	}
}

// ── ítems ────────────────────────────────────────────────────────────────────

// InventoryItemRepo ítems de inventario en memoria.
type InventoryItemRepo struct {
	db   *inventoryDB
	inTx bool
}

func (r *InventoryItemRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.db.txMu.Lock()
	return r.db.txMu.Unlock
}

func (r *InventoryItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	defer r.lock()()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, ok := r.db.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.db.items[item.ID] = *item
	return nil
}

func (r *InventoryItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	defer r.lock()()
	return r.get(id)
}

// GetForUpdate igual que GetByID: dentro de Run la transacción ya es exclusiva.
func (r *InventoryItemRepo) GetForUpdate(_ context.Context, id string) (*entity.InventoryItem, error) {
	defer r.lock()()
	return r.get(id)
}

func (r *InventoryItemRepo) get(id string) (*entity.InventoryItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.db.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *InventoryItemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	defer r.lock()()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.items[item.ID] = *item
	return nil
}

// List ítems ordenados por centro y nombre.
func (r *InventoryItemRepo) List(_ context.Context) ([]*entity.InventoryItem, error) {
	defer r.lock()()
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*entity.InventoryItem, 0, len(r.db.items))
	for _, row := range r.db.items {
		out = append(out, &row)
	}
	slices.SortFunc(out, func(a, b *entity.InventoryItem) int {
		return cmp.Or(cmp.Compare(a.FacilityName, b.FacilityName), cmp.Compare(a.ItemName, b.ItemName), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// Delete elimina el ítem y sus órdenes de retiro.
func (r *InventoryItemRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.items, id)
	maps.DeleteFunc(r.db.withdrawals, func(_ string, w entity.WithdrawalOrder) bool { return w.ItemID == id })
	return nil
}

// ── órdenes de retiro ────────────────────────────────────────────────────────

// WithdrawalRepo órdenes de retiro en memoria.
type WithdrawalRepo struct {
	db   *inventoryDB
	inTx bool
}

func (r *WithdrawalRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.db.txMu.Lock()
	return r.db.txMu.Unlock
}

func (r *WithdrawalRepo) Create(_ context.Context, w *entity.WithdrawalOrder) error {
	defer r.lock()()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.items[w.ItemID]; !ok {
		return domain.ErrNotFound
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	r.db.withdrawals[w.ID] = *w
	return nil
}

func (r *WithdrawalRepo) GetByID(_ context.Context, id string) (*entity.WithdrawalOrder, error) {
	defer r.lock()()
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.db.withdrawals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

// ListByItem órdenes del ítem, las más recientes primero.
func (r *WithdrawalRepo) ListByItem(_ context.Context, itemID string) ([]*entity.WithdrawalOrder, error) {
	defer r.lock()()
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*entity.WithdrawalOrder
	for _, row := range r.db.withdrawals {
		if row.ItemID == itemID {
			out = append(out, &row)
		}
	}
	slices.SortFunc(out, func(a, b *entity.WithdrawalOrder) int {
		return cmp.Or(b.Date.Compare(a.Date), b.CreatedAt.Compare(a.CreatedAt))
	})
	return out, nil
}

func (r *WithdrawalRepo) UpdateStatus(_ context.Context, id string, from, to entity.WithdrawalStatus) error {
	defer r.lock()()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.withdrawals[id]
	if !ok {
		return domain.ErrNotFound
	}
	if row.RequestStatus != from {
		return domain.ErrConflict
	}
	row.RequestStatus = to
	r.db.withdrawals[id] = row
	return nil
}

// ── transacción ──────────────────────────────────────────────────────────────

// TxRunner ejecuta fn de forma exclusiva y deshace todos sus cambios si devuelve error.
type TxRunner struct {
	db *inventoryDB
}

func (t *TxRunner) Run(_ context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	withdrawalRepo repository.WithdrawalRepository,
) error) error {
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()
	items, withdrawals := t.db.snapshot()
	if err := fn(&InventoryItemRepo{db: t.db, inTx: true}, &WithdrawalRepo{db: t.db, inTx: true}); err != nil {
		t.db.restore(items, withdrawals)
		return err
	}
	return nil
}
