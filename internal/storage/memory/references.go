package memory

import "sync"

// References эмулирует внешние ключи между in-memory таблицами:
// product -> company и зависимые строки (позиции заказов) -> product.
type References struct {
	mu             sync.RWMutex
	productOwner   map[string]string
	productHolders map[string]int
}

// NewReferences создаёт пустой реестр ссылок.
func NewReferences() *References {
	return &References{
		productOwner:   make(map[string]string),
		productHolders: make(map[string]int),
	}
}

// AttachOrderLine регистрирует зависимую строку, ссылающуюся на продукт.
func (r *References) AttachOrderLine(productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productHolders[productID]++
}

// DetachOrderLine снимает одну зависимую строку с продукта.
func (r *References) DetachOrderLine(productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.productHolders[productID] <= 1 {
		delete(r.productHolders, productID)
		return
	}
	r.productHolders[productID]--
}

func (r *References) setProductOwner(productID, companyID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productOwner[productID] = companyID
}

func (r *References) dropProduct(productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.productOwner, productID)
}

func (r *References) productInUse(productID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.productHolders[productID] > 0
}

func (r *References) companyInUse(companyID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, owner := range r.productOwner {
		if owner == companyID {
			return true
		}
	}
	return false
}
