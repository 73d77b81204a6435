package memory

// Deactivate снимает признак active со строки репозитория, как внешний
// процесс мягкого удаления. Save признак active у существующих строк не меняет.
// Возвращает false, если строки нет или репозиторий не in-memory.
func Deactivate(repo any, id string) bool {
	switch r := repo.(type) {
	case *productRepositoryInMemory:
		r.mu.Lock()
		defer r.mu.Unlock()
		product, ok := r.items[id]
		if ok {
			product.Active = false
			r.items[id] = product
		}
		return ok
	case *companyRepositoryInMemory:
		r.mu.Lock()
		defer r.mu.Unlock()
		company, ok := r.items[id]
		if ok {
			company.Active = false
			r.items[id] = company
		}
		return ok
	default:
		return false
	}
}
